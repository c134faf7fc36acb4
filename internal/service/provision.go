// Package service implements the provisioning, isolation, catalog, and
// gateway operations over the repository layer.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// DefaultNamespace is the reserved storage namespace for provisioned
// data relations.
const DefaultNamespace = "_fd"

// allowedNamespaces is the fixed allow-list of internally reserved
// namespaces. Checked at the provisioner boundary; anything else is
// rejected before a single statement is built.
var allowedNamespaces = map[string]bool{
	DefaultNamespace: true,
}

// schemaCacheChannel is the notification channel downstream query
// layers listen on to refresh their schema cache after DDL.
const schemaCacheChannel = "pgrst"

// ValidateNamespace rejects namespaces outside the allow-list.
func ValidateNamespace(namespace string) error {
	if !allowedNamespaces[namespace] {
		return &domain.InvalidNamespaceError{Namespace: namespace}
	}
	return nil
}

// ResolveNamespace applies the default for an empty namespace and
// validates the result.
func ResolveNamespace(namespace string) (string, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if err := ValidateNamespace(namespace); err != nil {
		return "", err
	}
	return namespace, nil
}

// ProvisionService creates data relations with surrogate key, owner
// column, identifier column, and the flexible columns derived from
// uploaded headers, plus the supporting indexes.
type ProvisionService struct {
	runner domain.DDLRunner
	logger *slog.Logger
}

// NewProvisionService creates a new ProvisionService.
func NewProvisionService(runner domain.DDLRunner, logger *slog.Logger) *ProvisionService {
	return &ProvisionService{runner: runner, logger: logger}
}

// Provision creates the relation and its indexes in one transaction.
// Re-invocation with the same name is a no-op success. On any failure
// nothing remains externally visible and the error carries the target
// relation name.
func (s *ProvisionService) Provision(ctx context.Context, req domain.ProvisionRequest) error {
	namespace, err := ResolveNamespace(req.Namespace)
	if err != nil {
		return err
	}

	table := ddl.SanitizeIdentifier(req.TableName)
	if err := ddl.ValidateIdentifier(table); err != nil {
		return err
	}
	identCol := ddl.SanitizeIdentifier(req.IdentifierColumn)
	if err := ddl.ValidateIdentifier(identCol); err != nil {
		return err
	}

	columns, err := sanitizeColumns(req.Columns, identCol)
	if err != nil {
		return err
	}

	createTable, err := ddl.CreateDataTable(namespace, table, identCol, columns)
	if err != nil {
		return err
	}
	ownerIdx, err := ddl.CreateIndex(namespace, table, domain.OwnerColumn)
	if err != nil {
		return err
	}
	identIdx, err := ddl.CreateIndex(namespace, table, identCol)
	if err != nil {
		return err
	}

	err = s.runner.Atomic(ctx, func(ctx context.Context, ex domain.Execer) error {
		for _, stmt := range []string{createTable, ownerIdx, identIdx} {
			if err := ex.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ErrProvisioning(table, err)
	}

	// Fire-and-forget: downstream schema caches refresh eventually; a
	// lost notification only delays visibility.
	if err := s.runner.Notify(ctx, schemaCacheChannel, "reload schema"); err != nil {
		s.logger.Warn("schema cache notify failed", "table", table, "error", err)
	}

	s.logger.Info("provisioned relation", "namespace", namespace, "table", table, "columns", len(columns))
	return nil
}

// sanitizeColumns sanitizes the uploaded headers and rejects collisions
// with reserved columns, the identifier column, or each other.
func sanitizeColumns(raw []string, identCol string) ([]string, error) {
	reserved := map[string]bool{
		domain.SurrogateKeyColumn: true,
		domain.OwnerColumn:        true,
		identCol:                  true,
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(raw))
	for _, h := range raw {
		c := ddl.SanitizeIdentifier(h)
		if err := ddl.ValidateIdentifier(c); err != nil {
			return nil, err
		}
		if reserved[c] {
			return nil, domain.ErrInvalidIdentifier(h, fmt.Sprintf("collides with reserved column %q", c))
		}
		if seen[c] {
			return nil, domain.ErrInvalidIdentifier(h, fmt.Sprintf("duplicate column %q after sanitization", c))
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}
