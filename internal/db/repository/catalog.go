package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/domain"
)

// CatalogRepo is the registry of provisioned datasets. All predicates
// are parameterized; table names stored here are data, never SQL.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

// NewCatalogRepo creates a new CatalogRepo.
func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// Register inserts a catalog entry. The unique constraint on table_name
// serializes duplicate-name attempts.
func (r *CatalogRepo) Register(ctx context.Context, e *domain.DatasetEntry) (*domain.DatasetEntry, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO _fd.metadata_tables (table_name, main_table, description, origin, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.TableName, e.MainTable, e.Description, e.Origin, e.OwnerID)

	out := *e
	if err := row.Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &out, nil
}

// GetByTable returns the catalog entry for tableName.
func (r *CatalogRepo) GetByTable(ctx context.Context, tableName string) (*domain.DatasetEntry, error) {
	var e domain.DatasetEntry
	err := r.pool.QueryRow(ctx,
		`SELECT id, table_name, main_table, description, origin, user_id, created_at
		 FROM _fd.metadata_tables WHERE table_name = $1`,
		tableName).
		Scan(&e.ID, &e.TableName, &e.MainTable, &e.Description, &e.Origin, &e.OwnerID, &e.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &e, nil
}

// List returns every catalog entry ordered by creation time.
func (r *CatalogRepo) List(ctx context.Context) ([]domain.DatasetEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, table_name, main_table, description, origin, user_id, created_at
		 FROM _fd.metadata_tables ORDER BY created_at, id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var entries []domain.DatasetEntry
	for rows.Next() {
		var e domain.DatasetEntry
		if err := rows.Scan(&e.ID, &e.TableName, &e.MainTable, &e.Description, &e.Origin, &e.OwnerID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Owns reports whether owner holds the catalog entry for tableName.
func (r *CatalogRepo) Owns(ctx context.Context, tableName string, owner uuid.UUID) (bool, error) {
	var owns bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM _fd.metadata_tables WHERE table_name = $1 AND user_id = $2)`,
		tableName, owner).Scan(&owns)
	if err != nil {
		return false, mapDBError(err)
	}
	return owns, nil
}

// TableNames returns every cataloged relation name.
func (r *CatalogRepo) TableNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT table_name FROM _fd.metadata_tables ORDER BY table_name`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
