package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/db"
	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// RowRepo executes gateway reads and writes inside a principal-bound
// session, so the relation's installed row-level policies scope every
// statement. Identifiers are validated and quoted through the ddl
// package; values travel as bind parameters.
type RowRepo struct {
	pool *pgxpool.Pool
}

// NewRowRepo creates a new RowRepo.
func NewRowRepo(pool *pgxpool.Pool) *RowRepo {
	return &RowRepo{pool: pool}
}

// FetchRows returns up to limit rows from the relation. Ordinary
// principals only ever see their own rows: the owner-scoped select
// policy filters everything else out at the store level.
func (r *RowRepo) FetchRows(ctx context.Context, p domain.ContextPrincipal, namespace, tableName string, limit int) ([]domain.Row, error) {
	if err := ddl.ValidateIdentifier(namespace); err != nil {
		return nil, err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT * FROM %s ORDER BY %s LIMIT $1",
		ddl.QuoteQualified(namespace, tableName),
		ddl.QuoteIdentifier(domain.SurrogateKeyColumn))

	var out []domain.Row
	err := db.WithPrincipal(ctx, r.pool, p, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, limit)
		if err != nil {
			return mapDBError(err)
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return err
			}
			rec := make(domain.Row, len(fields))
			for i, f := range fields {
				rec[f.Name] = values[i]
			}
			out = append(out, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRow applies the patch to a single row identified by its
// surrogate key and returns the number of rows affected. Direct UPDATE
// privilege is revoked from the ordinary class, so this is the
// controlled mutation path: it runs on the service connection and, when
// owner is non-nil, appends an ownership predicate mirroring the
// owner-scoped policy. Zero rows affected means the row does not exist
// or is not owned by the caller; the two are deliberately
// indistinguishable.
func (r *RowRepo) UpdateRow(ctx context.Context, namespace, tableName string, rowID int64, patch domain.RowPatch, owner *uuid.UUID) (int64, error) {
	if err := ddl.ValidateIdentifier(namespace); err != nil {
		return 0, err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return 0, err
	}

	// Deterministic column order for the SET clause.
	cols := make([]string, 0, len(patch))
	for c := range patch {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	setClause, err := ddl.UpdateRowSet(cols, 1)
	if err != nil {
		return 0, err
	}

	args := make([]any, 0, len(cols)+2)
	for _, c := range cols {
		args = append(args, patch[c])
	}
	args = append(args, rowID)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ddl.QuoteQualified(namespace, tableName),
		setClause,
		ddl.QuoteIdentifier(domain.SurrogateKeyColumn),
		len(args))

	if owner != nil {
		args = append(args, *owner)
		stmt += fmt.Sprintf(" AND %s = $%d", ddl.QuoteIdentifier(domain.OwnerColumn), len(args))
	}

	tag, err := r.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, mapDBError(err)
	}
	return tag.RowsAffected(), nil
}
