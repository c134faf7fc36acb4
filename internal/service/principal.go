package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fairdata/internal/domain"
)

// PrincipalService manages the principal store. Creation and listing
// are privileged operations; ordinary principals may only read their
// own record.
type PrincipalService struct {
	repo domain.PrincipalRepository
}

// NewPrincipalService creates a new PrincipalService.
func NewPrincipalService(repo domain.PrincipalRepository) *PrincipalService {
	return &PrincipalService{repo: repo}
}

// Create registers a new principal. Service-only.
func (s *PrincipalService) Create(ctx context.Context, email string, role domain.Role) (*domain.Principal, error) {
	if err := requireService(ctx); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrValidation("a valid email is required")
	}
	if role == "" {
		role = domain.RoleAuthenticated
	}
	if role != domain.RoleAuthenticated && role != domain.RoleService {
		return nil, domain.ErrValidation("unknown role %q", role)
	}
	return s.repo.Create(ctx, &domain.Principal{Email: email, Role: role})
}

// Get returns one principal. Ordinary callers may only fetch
// themselves.
func (s *PrincipalService) Get(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsService() && p.ID != id {
		return nil, domain.ErrAccessDenied("principals may only read their own record")
	}
	return s.repo.GetByID(ctx, id)
}

// List returns all principals. Service-only.
func (s *PrincipalService) List(ctx context.Context) ([]domain.Principal, error) {
	if err := requireService(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func requireService(ctx context.Context) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	if !p.IsService() {
		return domain.ErrAccessDenied("service principal required")
	}
	return nil
}
