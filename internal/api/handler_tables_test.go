package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdata/internal/domain"
	"fairdata/internal/service"
)

func TestCreateTable(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		f := newFixture()
		var got service.CreateDatasetRequest
		f.dataset.createFn = func(req service.CreateDatasetRequest) (*domain.DatasetEntry, error) {
			got = req
			return &domain.DatasetEntry{
				ID:        1,
				TableName: "microbiome",
				OwnerID:   uuid.New(),
				CreatedAt: time.Now(),
			}, nil
		}

		rec := f.do(http.MethodPost, "/v1/tables", strings.NewReader(`{
			"table_name": "Microbiome",
			"columns": ["shannon", "ph"],
			"identifier_column": "sample_id",
			"origin": "upload"
		}`))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Microbiome", got.Provision.TableName)
		assert.Equal(t, []string{"shannon", "ph"}, got.Provision.Columns)
		assert.Equal(t, "upload", got.Origin)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "microbiome", body["table_name"])
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPost, "/v1/tables", strings.NewReader(`{"columns": ["a"]}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPost, "/v1/tables", strings.NewReader(`{nope`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("domain errors map to statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{domain.ErrUnauthenticated("auth required"), http.StatusUnauthorized},
			{&domain.InvalidNamespaceError{Namespace: "public"}, http.StatusBadRequest},
			{domain.ErrInvalidIdentifier("x;", "bad"), http.StatusBadRequest},
			{domain.ErrConflict("duplicate"), http.StatusConflict},
			{domain.ErrProvisioning("t", assert.AnError), http.StatusInternalServerError},
		}
		for _, tc := range cases {
			f := newFixture()
			f.dataset.createFn = func(service.CreateDatasetRequest) (*domain.DatasetEntry, error) {
				return nil, tc.err
			}
			rec := f.do(http.MethodPost, "/v1/tables", strings.NewReader(`{
				"table_name": "t", "identifier_column": "sample_id"
			}`))
			assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		}
	})
}

func TestListAndSearchTables(t *testing.T) {
	f := newFixture()
	f.gateway.listTablesFn = func(namespace string) ([]string, error) {
		assert.Empty(t, namespace)
		return []string{"a", "b"}, nil
	}
	rec := f.do(http.MethodGet, "/v1/tables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tables":["a","b"]}`, rec.Body.String())

	f.gateway.searchFn = func(pattern, namespace string) ([]string, error) {
		assert.Equal(t, "shannon", pattern)
		return []string{"microbiome"}, nil
	}
	rec = f.do(http.MethodGet, "/v1/tables/search?column=shannon", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tables":["microbiome"]}`, rec.Body.String())
}

func TestGetColumns(t *testing.T) {
	f := newFixture()
	f.gateway.listColumnsFn = func(tableName, namespace string) ([]domain.ColumnInfo, error) {
		assert.Equal(t, "microbiome", tableName)
		return []domain.ColumnInfo{{Name: "rowid", DataType: "bigint"}, {Name: "ph", DataType: "text", Nullable: true}}, nil
	}
	rec := f.do(http.MethodGet, "/v1/tables/microbiome/columns", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"columns":[
		{"name":"rowid","data_type":"bigint","nullable":false},
		{"name":"ph","data_type":"text","nullable":true}
	]}`, rec.Body.String())
}

func TestFetchRows(t *testing.T) {
	t.Run("passes limit through", func(t *testing.T) {
		f := newFixture()
		f.gateway.fetchRowsFn = func(tableName, namespace string, limit int) ([]domain.Row, error) {
			assert.Equal(t, 25, limit)
			return []domain.Row{{"rowid": 1, "sample_id": "s1"}}, nil
		}
		rec := f.do(http.MethodGet, "/v1/tables/microbiome/rows?limit=25", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		f := newFixture()
		f.gateway.fetchRowsFn = func(string, string, int) ([]domain.Row, error) {
			return nil, nil
		}
		rec := f.do(http.MethodGet, "/v1/tables/microbiome/rows", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"rows":[]}`, rec.Body.String())
	})

	t.Run("bad limit rejected", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodGet, "/v1/tables/microbiome/rows?limit=lots", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown relation is 404", func(t *testing.T) {
		f := newFixture()
		f.gateway.fetchRowsFn = func(string, string, int) ([]domain.Row, error) {
			return nil, &domain.UnknownRelationError{Relation: "ghost"}
		}
		rec := f.do(http.MethodGet, "/v1/tables/ghost/rows", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateRow(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		f := newFixture()
		f.gateway.updateRowFn = func(tableName, namespace string, rowID int64, patch domain.RowPatch) (bool, error) {
			assert.EqualValues(t, 7, rowID)
			assert.Equal(t, domain.RowPatch{"ph": "6.8"}, patch)
			return true, nil
		}
		rec := f.do(http.MethodPatch, "/v1/tables/microbiome/rows/7", strings.NewReader(`{"ph":"6.8"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"updated":true}`, rec.Body.String())
	})

	t.Run("no effect reported not erred", func(t *testing.T) {
		f := newFixture()
		f.gateway.updateRowFn = func(string, string, int64, domain.RowPatch) (bool, error) {
			return false, nil
		}
		rec := f.do(http.MethodPatch, "/v1/tables/microbiome/rows/7", strings.NewReader(`{"ph":"6.8"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"updated":false}`, rec.Body.String())
	})

	t.Run("ownership violation is 403", func(t *testing.T) {
		f := newFixture()
		f.gateway.updateRowFn = func(string, string, int64, domain.RowPatch) (bool, error) {
			return false, domain.ErrOwnershipViolation("owner column immutable")
		}
		rec := f.do(http.MethodPatch, "/v1/tables/microbiome/rows/7", strings.NewReader(`{"user_id":"x"}`))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("non-integer row id rejected", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPatch, "/v1/tables/microbiome/rows/abc", strings.NewReader(`{"ph":"6.8"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOwnsTable(t *testing.T) {
	f := newFixture()
	f.catalog.ownsFn = func(tableName string) (bool, error) {
		return tableName == "mine", nil
	}
	rec := f.do(http.MethodGet, "/v1/tables/mine/owned", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"owned":true}`, rec.Body.String())
}
