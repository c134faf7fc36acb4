//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"fairdata/internal/db"
	"fairdata/internal/db/repository"
	"fairdata/internal/ddl"
	"fairdata/internal/domain"
	"fairdata/internal/service"
)

// env bundles a migrated database with the wired service layer and two
// registered ordinary principals.
type env struct {
	Pool      *pgxpool.Pool
	Dataset   *service.DatasetService
	Gateway   *service.GatewayService
	Catalog   *service.CatalogService
	Metadata  *service.MetadataService
	Drift     *service.ConsistencyService
	Isolation *service.IsolationService
	Provision *service.ProvisionService

	Alice domain.ContextPrincipal
	Bob   domain.ContextPrincipal
	Admin domain.ContextPrincipal
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	pool := db.OpenTestPool(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := db.NewRunner(pool)

	catalogRepo := repository.NewCatalogRepo(pool)
	schemaRepo := repository.NewSchemaRepo(pool)
	rowRepo := repository.NewRowRepo(pool)
	principalRepo := repository.NewPrincipalRepo(pool)
	metadataRepo := repository.NewMetadataRepo(pool)

	provision := service.NewProvisionService(runner, logger)
	isolation := service.NewIsolationService(runner, schemaRepo, logger)
	catalogSvc := service.NewCatalogService(catalogRepo)

	e := &env{
		Pool:      pool,
		Dataset:   service.NewDatasetService(provision, isolation, catalogSvc, schemaRepo, runner, logger),
		Gateway:   service.NewGatewayService(schemaRepo, rowRepo, logger),
		Catalog:   catalogSvc,
		Metadata:  service.NewMetadataService(metadataRepo, schemaRepo),
		Drift:     service.NewConsistencyService(schemaRepo, catalogRepo, logger),
		Isolation: isolation,
		Provision: provision,
	}

	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	alice, err := principalRepo.Create(ctx, &domain.Principal{Email: "alice-" + suffix + "@lab.org", Role: "authenticated"})
	require.NoError(t, err)
	bob, err := principalRepo.Create(ctx, &domain.Principal{Email: "bob-" + suffix + "@lab.org", Role: "authenticated"})
	require.NoError(t, err)
	admin, err := principalRepo.Create(ctx, &domain.Principal{Email: "svc-" + suffix + "@lab.org", Role: "service"})
	require.NoError(t, err)

	e.Alice = domain.ContextPrincipal{ID: alice.ID, Role: domain.RoleAuthenticated}
	e.Bob = domain.ContextPrincipal{ID: bob.ID, Role: domain.RoleAuthenticated}
	e.Admin = domain.ContextPrincipal{ID: admin.ID, Role: domain.RoleService}
	return e
}

func (e *env) ctx(p domain.ContextPrincipal) context.Context {
	return domain.WithPrincipal(context.Background(), p)
}

// uniqueTable returns a relation name unused by other test runs.
func uniqueTable(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// insertRow writes one record under the principal's session binding,
// the same way an upload path would.
func (e *env) insertRow(t *testing.T, p domain.ContextPrincipal, table string, owner uuid.UUID, sampleID string) error {
	t.Helper()
	stmt := fmt.Sprintf(`INSERT INTO %s ("user_id", "sample_id") VALUES ($1, $2)`,
		ddl.QuoteQualified(service.DefaultNamespace, table))
	return db.WithPrincipal(context.Background(), e.Pool, p, func(tx pgx.Tx) error {
		_, err := tx.Exec(context.Background(), stmt, owner, sampleID)
		return err
	})
}

// dropTable removes a relation with owner rights, for drift scenarios.
func (e *env) dropTable(t *testing.T, table string) {
	t.Helper()
	stmt, err := ddl.DropTable(service.DefaultNamespace, table)
	require.NoError(t, err)
	_, err = e.Pool.Exec(context.Background(), stmt)
	require.NoError(t, err)
}

func (e *env) createDataset(t *testing.T, p domain.ContextPrincipal, table string) *domain.DatasetEntry {
	t.Helper()
	entry, err := e.Dataset.Create(e.ctx(p), service.CreateDatasetRequest{
		Provision: domain.ProvisionRequest{
			TableName:        table,
			Columns:          []string{"shannon_index", "ph"},
			IdentifierColumn: "sample_id",
		},
		Origin: "integration",
	})
	require.NoError(t, err)
	return entry
}
