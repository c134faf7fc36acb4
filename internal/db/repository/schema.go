package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// SchemaRepo reads live-schema metadata from the system catalog. Every
// query is a parameterized predicate; caller input never becomes SQL
// text here.
type SchemaRepo struct {
	pool *pgxpool.Pool
}

// NewSchemaRepo creates a new SchemaRepo.
func NewSchemaRepo(pool *pgxpool.Pool) *SchemaRepo {
	return &SchemaRepo{pool: pool}
}

// ListTables returns every base table in the namespace.
func (r *SchemaRepo) ListTables(ctx context.Context, namespace string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`,
		namespace)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// SearchTablesByColumn returns the tables in namespace having a column
// whose name contains pattern, case-insensitively. The pattern is
// escaped so %, _ and backslash match literally.
func (r *SchemaRepo) SearchTablesByColumn(ctx context.Context, pattern, namespace string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT table_name FROM information_schema.columns
		 WHERE table_schema = $1 AND column_name ILIKE '%' || $2 || '%'
		 ORDER BY table_name`,
		namespace, ddl.EscapeLikePattern(pattern))
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

// ListColumns returns the (name, type, nullability) tuples for a table.
func (r *SchemaRepo) ListColumns(ctx context.Context, tableName, namespace string) ([]domain.ColumnInfo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT column_name, data_type, is_nullable = 'YES'
		 FROM information_schema.columns
		 WHERE table_schema = $1 AND table_name = $2
		 ORDER BY ordinal_position`,
		namespace, tableName)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var cols []domain.ColumnInfo
	for rows.Next() {
		var c domain.ColumnInfo
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// TableExists reports whether tableName exists in the namespace.
func (r *SchemaRepo) TableExists(ctx context.Context, tableName, namespace string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM information_schema.tables
		     WHERE table_schema = $1 AND table_name = $2
		 )`,
		namespace, tableName).Scan(&exists)
	if err != nil {
		return false, mapDBError(err)
	}
	return exists, nil
}

type stringScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStrings(rows stringScanner) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
