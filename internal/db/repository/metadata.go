package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/db"
	"fairdata/internal/domain"
)

// MetadataRepo stores sample metadata in the entity-attribute-value
// side table. Operations run under the caller's session binding, so the
// owner-scoped policies on _fd.sample_metadata confine each principal
// to its own rows.
type MetadataRepo struct {
	pool *pgxpool.Pool
}

// NewMetadataRepo creates a new MetadataRepo.
func NewMetadataRepo(pool *pgxpool.Pool) *MetadataRepo {
	return &MetadataRepo{pool: pool}
}

// Replace deletes the caller's existing metadata for parentTable and
// inserts the given fields, all in one transaction.
func (r *MetadataRepo) Replace(ctx context.Context, p domain.ContextPrincipal, parentTable string, fields []domain.MetadataField) error {
	return db.WithPrincipal(ctx, r.pool, p, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM _fd.sample_metadata WHERE parent_table = $1`, parentTable); err != nil {
			return mapDBError(err)
		}
		for _, f := range fields {
			if _, err := tx.Exec(ctx,
				`INSERT INTO _fd.sample_metadata (parent_table, sample_id, metadata_field, metadata_value, user_id)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (parent_table, sample_id, metadata_field)
				 DO UPDATE SET metadata_value = EXCLUDED.metadata_value`,
				parentTable, f.SampleID, f.Field, f.Value, p.ID); err != nil {
				return mapDBError(err)
			}
		}
		return nil
	})
}

// Get returns the caller-visible metadata for parentTable.
func (r *MetadataRepo) Get(ctx context.Context, p domain.ContextPrincipal, parentTable string) ([]domain.MetadataField, error) {
	var out []domain.MetadataField
	err := db.WithPrincipal(ctx, r.pool, p, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT sample_id, metadata_field, metadata_value
			 FROM _fd.sample_metadata WHERE parent_table = $1
			 ORDER BY sample_id, metadata_field`, parentTable)
		if err != nil {
			return mapDBError(err)
		}
		defer rows.Close()

		for rows.Next() {
			f := domain.MetadataField{ParentTable: parentTable}
			if err := rows.Scan(&f.SampleID, &f.Field, &f.Value); err != nil {
				return err
			}
			out = append(out, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fields returns the distinct metadata field names present for parentTable.
func (r *MetadataRepo) Fields(ctx context.Context, p domain.ContextPrincipal, parentTable string) ([]string, error) {
	var out []string
	err := db.WithPrincipal(ctx, r.pool, p, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT DISTINCT metadata_field FROM _fd.sample_metadata
			 WHERE parent_table = $1 ORDER BY metadata_field`, parentTable)
		if err != nil {
			return mapDBError(err)
		}
		defer rows.Close()

		for rows.Next() {
			var f string
			if err := rows.Scan(&f); err != nil {
				return err
			}
			out = append(out, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Has reports whether any caller-visible metadata exists for parentTable.
func (r *MetadataRepo) Has(ctx context.Context, p domain.ContextPrincipal, parentTable string) (bool, error) {
	var has bool
	err := db.WithPrincipal(ctx, r.pool, p, func(tx pgx.Tx) error {
		return mapDBError(tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM _fd.sample_metadata WHERE parent_table = $1)`,
			parentTable).Scan(&has))
	})
	if err != nil {
		return false, err
	}
	return has, nil
}
