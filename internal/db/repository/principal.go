package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/domain"
)

// PrincipalRepo provides access to the principal store.
type PrincipalRepo struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepo creates a new PrincipalRepo.
func NewPrincipalRepo(pool *pgxpool.Pool) *PrincipalRepo {
	return &PrincipalRepo{pool: pool}
}

// Create inserts a principal. A zero ID is replaced with a fresh UUID.
func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	out := *p
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}
	if out.Role == "" {
		out.Role = domain.RoleAuthenticated
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO _fd.principals (id, email, role) VALUES ($1, $2, $3) RETURNING created_at`,
		out.ID, out.Email, string(out.Role)).Scan(&out.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &out, nil
}

// GetByID returns the principal with the given id.
func (r *PrincipalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	return r.get(ctx, `SELECT id, email, role, created_at FROM _fd.principals WHERE id = $1`, id)
}

// GetByEmail returns the principal with the given email.
func (r *PrincipalRepo) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return r.get(ctx, `SELECT id, email, role, created_at FROM _fd.principals WHERE email = $1`, email)
}

// List returns all principals ordered by creation time.
func (r *PrincipalRepo) List(ctx context.Context) ([]domain.Principal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, role, created_at FROM _fd.principals ORDER BY created_at, id`)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var out []domain.Principal
	for rows.Next() {
		var p domain.Principal
		var role string
		if err := rows.Scan(&p.ID, &p.Email, &role, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Role = domain.Role(role)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PrincipalRepo) get(ctx context.Context, query string, arg any) (*domain.Principal, error) {
	var p domain.Principal
	var role string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Email, &role, &p.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	p.Role = domain.Role(role)
	return &p, nil
}
