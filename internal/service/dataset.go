package service

import (
	"context"
	"log/slog"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// DatasetService orchestrates the full dataset lifecycle: provision the
// relation, converge its access posture, and register it in the
// catalog as one logical operation.
type DatasetService struct {
	provision *ProvisionService
	isolation *IsolationService
	catalog   *CatalogService
	schema    domain.SchemaRepository
	runner    domain.DDLRunner
	logger    *slog.Logger
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(provision *ProvisionService, isolation *IsolationService, catalog *CatalogService, schema domain.SchemaRepository, runner domain.DDLRunner, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		provision: provision,
		isolation: isolation,
		catalog:   catalog,
		schema:    schema,
		runner:    runner,
		logger:    logger,
	}
}

// CreateDatasetRequest carries everything needed to stand up a new
// dataset end to end.
type CreateDatasetRequest struct {
	Provision   domain.ProvisionRequest
	MainTable   string
	Description string
	Origin      string
}

// Create provisions, secures, and catalogs a dataset. A relation
// created by this call is dropped again if a later step fails, so a
// failed create leaves no half-provisioned relation behind. Relations
// that already existed are never dropped on failure.
func (s *DatasetService) Create(ctx context.Context, req CreateDatasetRequest) (*domain.DatasetEntry, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	namespace, err := ResolveNamespace(req.Provision.Namespace)
	if err != nil {
		return nil, err
	}
	tableName := ddl.SanitizeIdentifier(req.Provision.TableName)
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return nil, err
	}

	existed, err := s.schema.TableExists(ctx, tableName, namespace)
	if err != nil {
		return nil, err
	}

	if err := s.provision.Provision(ctx, req.Provision); err != nil {
		return nil, err
	}
	if err := s.isolation.Secure(ctx, namespace, tableName); err != nil {
		s.compensate(ctx, namespace, tableName, existed)
		return nil, err
	}
	entry, err := s.catalog.Register(ctx, domain.RegisterDatasetRequest{
		TableName:   tableName,
		MainTable:   req.MainTable,
		Description: req.Description,
		Origin:      req.Origin,
	})
	if err != nil {
		s.compensate(ctx, namespace, tableName, existed)
		return nil, err
	}
	return entry, nil
}

// compensate drops a relation created by the current call. Relations
// that predate the call are left alone.
func (s *DatasetService) compensate(ctx context.Context, namespace, tableName string, existed bool) {
	if existed {
		return
	}
	drop, err := ddl.DropTable(namespace, tableName)
	if err != nil {
		s.logger.Error("compensation drop build failed", "table", tableName, "error", err)
		return
	}
	err = s.runner.Atomic(ctx, func(ctx context.Context, ex domain.Execer) error {
		return ex.Exec(ctx, drop)
	})
	if err != nil {
		s.logger.Error("compensation drop failed", "table", tableName, "error", err)
	}
}
