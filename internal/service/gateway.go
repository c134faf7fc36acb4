package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// Row limit bounds for gateway reads. Requests outside the range are
// clamped, not rejected.
const (
	DefaultRowLimit = 100
	MaxRowLimit     = 10000
)

// GatewayService is the sole read/write path into provisioned
// relations. Every operation validates identifiers before they reach a
// statement and pre-flights relation existence so unknown names surface
// as a typed error instead of a database failure.
type GatewayService struct {
	schema domain.SchemaRepository
	rows   domain.RowRepository
	logger *slog.Logger
}

// NewGatewayService creates a new GatewayService.
func NewGatewayService(schema domain.SchemaRepository, rows domain.RowRepository, logger *slog.Logger) *GatewayService {
	return &GatewayService{schema: schema, rows: rows, logger: logger}
}

// ListTables returns every base relation in the namespace. Anonymous
// callers have no discovery access.
func (s *GatewayService) ListTables(ctx context.Context, namespace string) ([]string, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	namespace, err := ResolveNamespace(namespace)
	if err != nil {
		return nil, err
	}
	return s.schema.ListTables(ctx, namespace)
}

// SearchTablesByColumn returns relations having at least one column
// whose name contains the pattern, case-insensitively. The pattern is
// treated as a literal; wildcard characters in it match themselves.
func (s *GatewayService) SearchTablesByColumn(ctx context.Context, pattern, namespace string) ([]string, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	namespace, err := ResolveNamespace(namespace)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, domain.ErrValidation("search pattern is required")
	}
	return s.schema.SearchTablesByColumn(ctx, pattern, namespace)
}

// ListColumns returns the column shape of one relation.
func (s *GatewayService) ListColumns(ctx context.Context, tableName, namespace string) ([]domain.ColumnInfo, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}
	namespace, err := s.resolveRelation(ctx, tableName, namespace)
	if err != nil {
		return nil, err
	}
	return s.schema.ListColumns(ctx, tableName, namespace)
}

// TableExists reports whether the relation exists. Invalid identifiers
// are an error, not a false.
func (s *GatewayService) TableExists(ctx context.Context, tableName, namespace string) (bool, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return false, err
	}
	namespace, err := ResolveNamespace(namespace)
	if err != nil {
		return false, err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return false, err
	}
	return s.schema.TableExists(ctx, tableName, namespace)
}

// FetchRows reads up to limit rows from the relation under the calling
// principal's session binding, so installed row policies scope the
// result. Anonymous callers are rejected before any statement runs.
func (s *GatewayService) FetchRows(ctx context.Context, tableName, namespace string, limit int) ([]domain.Row, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	namespace, err = s.resolveRelation(ctx, tableName, namespace)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	if limit > MaxRowLimit {
		limit = MaxRowLimit
	}
	return s.rows.FetchRows(ctx, p, namespace, tableName, limit)
}

// UpdateRow patches one row identified by its surrogate key. The owner
// column is immutable through this path for every caller. Ordinary
// principals update only rows they own; whether a miss means the row
// does not exist or belongs to someone else is deliberately not
// distinguishable from the result.
func (s *GatewayService) UpdateRow(ctx context.Context, tableName, namespace string, rowID int64, patch domain.RowPatch) (bool, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return false, err
	}
	namespace, err = s.resolveRelation(ctx, tableName, namespace)
	if err != nil {
		return false, err
	}
	if len(patch) == 0 {
		return false, domain.ErrValidation("patch must set at least one column")
	}
	if patch.ContainsOwnerColumn() {
		return false, domain.ErrOwnershipViolation("column %q cannot be modified", domain.OwnerColumn)
	}

	var owner *uuid.UUID
	if !p.IsService() {
		hasOwner, err := s.hasOwnerColumn(ctx, tableName, namespace)
		if err != nil {
			return false, err
		}
		if !hasOwner {
			// Relations without ownership stay service-only until
			// backfilled.
			return false, domain.ErrAccessDenied("relation %q is not accessible", tableName)
		}
		id := p.ID
		owner = &id
	}

	affected, err := s.rows.UpdateRow(ctx, namespace, tableName, rowID, patch, owner)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		s.logger.Debug("update matched no rows", "table", tableName, "row_id", rowID, "principal", p.ID)
	}
	return affected > 0, nil
}

// resolveRelation validates namespace and table name and pre-flights
// existence.
func (s *GatewayService) resolveRelation(ctx context.Context, tableName, namespace string) (string, error) {
	namespace, err := ResolveNamespace(namespace)
	if err != nil {
		return "", err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return "", err
	}
	exists, err := s.schema.TableExists(ctx, tableName, namespace)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &domain.UnknownRelationError{Relation: tableName}
	}
	return namespace, nil
}

func (s *GatewayService) hasOwnerColumn(ctx context.Context, tableName, namespace string) (bool, error) {
	cols, err := s.schema.ListColumns(ctx, tableName, namespace)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name == domain.OwnerColumn {
			return true, nil
		}
	}
	return false, nil
}
