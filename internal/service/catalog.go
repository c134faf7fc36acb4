package service

import (
	"context"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// CatalogService maintains the registry of provisioned relations and
// their owners.
type CatalogService struct {
	repo domain.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo domain.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Register records a relation in the catalog. The owner is always the
// calling principal; callers cannot register entries on behalf of
// someone else. Duplicate relation names surface as a conflict.
func (s *CatalogService) Register(ctx context.Context, req domain.RegisterDatasetRequest) (*domain.DatasetEntry, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if req.TableName == "" {
		return nil, domain.ErrValidation("table_name is required")
	}
	if err := ddl.ValidateIdentifier(req.TableName); err != nil {
		return nil, err
	}
	entry := &domain.DatasetEntry{
		TableName:   req.TableName,
		MainTable:   req.MainTable,
		Description: req.Description,
		Origin:      req.Origin,
		OwnerID:     p.ID,
	}
	return s.repo.Register(ctx, entry)
}

// GetByTable resolves one catalog entry by relation name.
func (s *CatalogService) GetByTable(ctx context.Context, tableName string) (*domain.DatasetEntry, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return nil, err
	}
	return s.repo.GetByTable(ctx, tableName)
}

// List returns all catalog entries. Anonymous callers have no catalog
// access.
func (s *CatalogService) List(ctx context.Context) ([]domain.DatasetEntry, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Owns reports whether the calling principal owns the catalog entry
// for the named relation. Unknown relations are simply not owned.
func (s *CatalogService) Owns(ctx context.Context, tableName string) (bool, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return false, err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return false, err
	}
	return s.repo.Owns(ctx, tableName, p.ID)
}

// requirePrincipal extracts the authenticated principal from the
// context, rejecting anonymous callers.
func requirePrincipal(ctx context.Context) (domain.ContextPrincipal, error) {
	p, ok := domain.PrincipalFromContext(ctx)
	if !ok || p.Role == domain.RoleAnonymous {
		return domain.ContextPrincipal{}, domain.ErrUnauthenticated("authenticated principal required")
	}
	return p, nil
}
