package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdata/internal/domain"
)

func TestRegisterCatalogEntry(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture()
		f.catalog.registerFn = func(req domain.RegisterDatasetRequest) (*domain.DatasetEntry, error) {
			assert.Equal(t, "microbiome", req.TableName)
			return &domain.DatasetEntry{ID: 3, TableName: req.TableName, OwnerID: uuid.New(), CreatedAt: time.Now()}, nil
		}
		rec := f.do(http.MethodPost, "/v1/catalog", strings.NewReader(`{"table_name":"microbiome"}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("anonymous is 401", func(t *testing.T) {
		f := newFixture()
		f.catalog.registerFn = func(domain.RegisterDatasetRequest) (*domain.DatasetEntry, error) {
			return nil, domain.ErrUnauthenticated("authenticated principal required")
		}
		rec := f.do(http.MethodPost, "/v1/catalog", strings.NewReader(`{"table_name":"microbiome"}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		f := newFixture()
		f.catalog.registerFn = func(domain.RegisterDatasetRequest) (*domain.DatasetEntry, error) {
			return nil, domain.ErrConflict("relation already cataloged")
		}
		rec := f.do(http.MethodPost, "/v1/catalog", strings.NewReader(`{"table_name":"microbiome"}`))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestListCatalog(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	f.catalog.listFn = func() ([]domain.DatasetEntry, error) {
		return []domain.DatasetEntry{
			{ID: 1, TableName: "a", OwnerID: owner},
			{ID: 2, TableName: "b", OwnerID: owner},
		}, nil
	}
	rec := f.do(http.MethodGet, "/v1/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"table_name":"a"`)
	assert.Contains(t, rec.Body.String(), `"table_name":"b"`)

	// Relation names are shared; owner identities are not.
	assert.NotContains(t, rec.Body.String(), "owner_id")
	assert.NotContains(t, rec.Body.String(), owner.String())
}

func TestConsistencyReport(t *testing.T) {
	t.Run("drift", func(t *testing.T) {
		f := newFixture()
		f.consistency.reportFn = func() (*domain.ConsistencyReport, error) {
			return &domain.ConsistencyReport{Uncataloged: []string{"orphan"}}, nil
		}
		rec := f.do(http.MethodGet, "/v1/catalog/consistency", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"clean":false,"uncataloged":["orphan"],"missing_table":[]}`, rec.Body.String())
	})

	t.Run("clean", func(t *testing.T) {
		f := newFixture()
		f.consistency.reportFn = func() (*domain.ConsistencyReport, error) {
			return &domain.ConsistencyReport{}, nil
		}
		rec := f.do(http.MethodGet, "/v1/catalog/consistency", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"clean":true,"uncataloged":[],"missing_table":[]}`, rec.Body.String())
	})

	t.Run("anonymous is 401", func(t *testing.T) {
		f := newFixture()
		f.consistency.reportFn = func() (*domain.ConsistencyReport, error) {
			t.Fatal("report must not run for anonymous callers")
			return nil, nil
		}
		rec := f.doAnonymous(http.MethodGet, "/v1/catalog/consistency", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
