package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// testDSNEnv names the environment variable carrying the DSN of a
// disposable PostgreSQL database for integration tests.
const testDSNEnv = "FAIRDATA_TEST_DATABASE_URL"

// OpenTestPool opens a pool against the integration-test database, runs
// all pending migrations, and registers cleanup. The test is skipped
// when FAIRDATA_TEST_DATABASE_URL is not set.
func OpenTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping integration test", testDSNEnv)
	}

	pool, err := OpenPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := RunMigrations(pool); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return pool
}
