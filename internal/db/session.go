package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// roleForPrincipal maps a principal class to the database role its
// statements run under. Installed row-level policies key off these roles.
func roleForPrincipal(p domain.ContextPrincipal) string {
	switch p.Role {
	case domain.RoleService:
		return ddl.RoleService
	case domain.RoleAuthenticated:
		return ddl.RoleAuthenticated
	default:
		return ddl.RoleAnon
	}
}

// WithPrincipal runs fn inside a transaction bound to the caller's
// identity: the session role is switched to the class role and the
// principal id is exposed through the fairdata.principal_id setting, so
// the relation's installed isolation policies scope every statement fn
// executes. The transaction is rolled back when fn returns an error.
//
// SET ROLE does not accept bind parameters; the role name comes from a
// fixed internal set and is still quoted through the ddl package.
func WithPrincipal(ctx context.Context, pool *pgxpool.Pool, p domain.ContextPrincipal, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	role := roleForPrincipal(p)
	if err := ddl.ValidateIdentifier(role); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+ddl.QuoteIdentifier(role)); err != nil {
		return fmt.Errorf("set session role: %w", err)
	}
	if p.Role != domain.RoleAnonymous {
		if _, err := tx.Exec(ctx,
			"SELECT set_config($1, $2, true)", ddl.PrincipalSettingKey, p.ID.String()); err != nil {
			return fmt.Errorf("bind principal: %w", err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Runner implements domain.DDLRunner on a pgx pool. Provisioning and
// securing sequences run through Atomic so a failed step leaves no
// externally visible side effect.
type Runner struct {
	pool *pgxpool.Pool
}

// NewRunner creates a Runner over pool.
func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

type txExecer struct {
	tx pgx.Tx
}

func (e txExecer) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := e.tx.Exec(ctx, sql, args...)
	return err
}

// Atomic runs fn inside a transaction, rolling back on error.
func (r *Runner) Atomic(ctx context.Context, fn func(ctx context.Context, ex domain.Execer) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ddl transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, txExecer{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Notify emits a notification on channel. Delivery is fire-and-forget;
// callers log failures instead of propagating them.
func (r *Runner) Notify(ctx context.Context, channel, payload string) error {
	_, err := r.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channel, payload)
	return err
}
