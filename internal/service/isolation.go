package service

import (
	"context"
	"log/slog"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// IsolationService converges a relation onto the declarative access
// posture: row security enabled, managed policies rebuilt from scratch,
// and grants reconciled per access class.
type IsolationService struct {
	runner domain.DDLRunner
	schema domain.SchemaRepository
	logger *slog.Logger
}

// NewIsolationService creates a new IsolationService.
func NewIsolationService(runner domain.DDLRunner, schema domain.SchemaRepository, logger *slog.Logger) *IsolationService {
	return &IsolationService{runner: runner, schema: schema, logger: logger}
}

// Secure applies the full isolation sequence to one relation. The
// sequence is idempotent: it drops every managed policy before
// recreating the ones the relation's shape calls for, so re-runs
// converge rather than accumulate.
//
// Relations without an owner column are locked down to the privileged
// class only; they stay unreadable by ordinary principals until they
// are backfilled with ownership.
func (s *IsolationService) Secure(ctx context.Context, namespace, tableName string) error {
	namespace, err := ResolveNamespace(namespace)
	if err != nil {
		return err
	}
	if err := ddl.ValidateIdentifier(tableName); err != nil {
		return err
	}

	exists, err := s.schema.TableExists(ctx, tableName, namespace)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.UnknownRelationError{Relation: tableName}
	}

	hasOwner, err := s.hasOwnerColumn(ctx, namespace, tableName)
	if err != nil {
		return err
	}

	stmts, err := isolationStatements(namespace, tableName, hasOwner)
	if err != nil {
		return err
	}

	err = s.runner.Atomic(ctx, func(ctx context.Context, ex domain.Execer) error {
		for _, stmt := range stmts {
			if err := ex.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ErrProvisioning(tableName, err)
	}

	s.logger.Info("secured relation", "namespace", namespace, "table", tableName, "owner_scoped", hasOwner)
	return nil
}

func (s *IsolationService) hasOwnerColumn(ctx context.Context, namespace, tableName string) (bool, error) {
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

// isolationStatements builds the ordered statement list for one
// relation. Order matters: row security first so a partially applied
// run can never widen access, then policy rebuild, then grants.
func isolationStatements(namespace, tableName string, hasOwner bool) ([]string, error) {
	var stmts []string
	add := func(stmt string, err error) error {
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
		return nil
	}

	if err := add(ddl.EnableRowLevelSecurity(namespace, tableName)); err != nil {
		return nil, err
	}
	for _, policy := range ddl.ManagedPolicies {
		if err := add(ddl.DropPolicy(policy, namespace, tableName)); err != nil {
			return nil, err
		}
	}
	if hasOwner {
		if err := add(ddl.CreateOwnerSelectPolicy(namespace, tableName)); err != nil {
			return nil, err
		}
		if err := add(ddl.CreateOwnerInsertPolicy(namespace, tableName)); err != nil {
			return nil, err
		}
	}
	if err := add(ddl.CreateServiceAllPolicy(namespace, tableName)); err != nil {
		return nil, err
	}

	if err := add(ddl.RevokeAll(namespace, tableName, ddl.RoleAnon)); err != nil {
		return nil, err
	}
	if hasOwner {
		if err := add(ddl.RevokeWrites(namespace, tableName, ddl.RoleAuthenticated)); err != nil {
			return nil, err
		}
		if err := add(ddl.GrantReadInsert(namespace, tableName, ddl.RoleAuthenticated)); err != nil {
			return nil, err
		}
		if err := add(ddl.GrantSurrogateSequence(namespace, tableName, ddl.RoleAuthenticated)); err != nil {
			return nil, err
		}
	} else {
		if err := add(ddl.RevokeAll(namespace, tableName, ddl.RoleAuthenticated)); err != nil {
			return nil, err
		}
	}
	if err := add(ddl.GrantAll(namespace, tableName, ddl.RoleService)); err != nil {
		return nil, err
	}
	if err := add(ddl.GrantSurrogateSequence(namespace, tableName, ddl.RoleService)); err != nil {
		return nil, err
	}
	return stmts, nil
}
