package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fairdata/internal/domain"
	"fairdata/internal/service"
)

type mockDataset struct {
	createFn func(req service.CreateDatasetRequest) (*domain.DatasetEntry, error)
}

func (m *mockDataset) Create(_ context.Context, req service.CreateDatasetRequest) (*domain.DatasetEntry, error) {
	return m.createFn(req)
}

type mockGateway struct {
	listTablesFn  func(namespace string) ([]string, error)
	searchFn      func(pattern, namespace string) ([]string, error)
	listColumnsFn func(tableName, namespace string) ([]domain.ColumnInfo, error)
	tableExistsFn func(tableName, namespace string) (bool, error)
	fetchRowsFn   func(tableName, namespace string, limit int) ([]domain.Row, error)
	updateRowFn   func(tableName, namespace string, rowID int64, patch domain.RowPatch) (bool, error)
}

func (m *mockGateway) ListTables(_ context.Context, namespace string) ([]string, error) {
	return m.listTablesFn(namespace)
}

func (m *mockGateway) SearchTablesByColumn(_ context.Context, pattern, namespace string) ([]string, error) {
	return m.searchFn(pattern, namespace)
}

func (m *mockGateway) ListColumns(_ context.Context, tableName, namespace string) ([]domain.ColumnInfo, error) {
	return m.listColumnsFn(tableName, namespace)
}

func (m *mockGateway) TableExists(_ context.Context, tableName, namespace string) (bool, error) {
	return m.tableExistsFn(tableName, namespace)
}

func (m *mockGateway) FetchRows(_ context.Context, tableName, namespace string, limit int) ([]domain.Row, error) {
	return m.fetchRowsFn(tableName, namespace, limit)
}

func (m *mockGateway) UpdateRow(_ context.Context, tableName, namespace string, rowID int64, patch domain.RowPatch) (bool, error) {
	return m.updateRowFn(tableName, namespace, rowID, patch)
}

type mockCatalog struct {
	registerFn func(req domain.RegisterDatasetRequest) (*domain.DatasetEntry, error)
	listFn     func() ([]domain.DatasetEntry, error)
	ownsFn     func(tableName string) (bool, error)
}

func (m *mockCatalog) Register(_ context.Context, req domain.RegisterDatasetRequest) (*domain.DatasetEntry, error) {
	return m.registerFn(req)
}

func (m *mockCatalog) List(_ context.Context) ([]domain.DatasetEntry, error) { return m.listFn() }

func (m *mockCatalog) Owns(_ context.Context, tableName string) (bool, error) {
	return m.ownsFn(tableName)
}

type mockMetadata struct {
	replaceFn func(parentTable string, fields []domain.MetadataField) error
	getFn     func(parentTable string) ([]domain.MetadataField, error)
	fieldsFn  func(parentTable string) ([]string, error)
}

func (m *mockMetadata) Replace(_ context.Context, parentTable string, fields []domain.MetadataField) error {
	return m.replaceFn(parentTable, fields)
}

func (m *mockMetadata) Get(_ context.Context, parentTable string) ([]domain.MetadataField, error) {
	return m.getFn(parentTable)
}

func (m *mockMetadata) Fields(_ context.Context, parentTable string) ([]string, error) {
	return m.fieldsFn(parentTable)
}

type mockConsistency struct {
	reportFn func() (*domain.ConsistencyReport, error)
}

func (m *mockConsistency) Report(_ context.Context) (*domain.ConsistencyReport, error) {
	return m.reportFn()
}

type mockPrincipals struct {
	createFn func(email string, role domain.Role) (*domain.Principal, error)
	getFn    func(id uuid.UUID) (*domain.Principal, error)
	listFn   func() ([]domain.Principal, error)
}

func (m *mockPrincipals) Create(_ context.Context, email string, role domain.Role) (*domain.Principal, error) {
	return m.createFn(email, role)
}

func (m *mockPrincipals) Get(_ context.Context, id uuid.UUID) (*domain.Principal, error) {
	return m.getFn(id)
}

func (m *mockPrincipals) List(_ context.Context) ([]domain.Principal, error) { return m.listFn() }

// fixture bundles a handler over mocks with a mounted router.
type fixture struct {
	dataset     *mockDataset
	gateway     *mockGateway
	catalog     *mockCatalog
	metadata    *mockMetadata
	consistency *mockConsistency
	principals  *mockPrincipals
	router      chi.Router
}

func newFixture() *fixture {
	f := &fixture{
		dataset:     &mockDataset{},
		gateway:     &mockGateway{},
		catalog:     &mockCatalog{},
		metadata:    &mockMetadata{},
		consistency: &mockConsistency{},
		principals:  &mockPrincipals{},
	}
	h := NewHandler(f.dataset, f.gateway, f.catalog, f.metadata, f.consistency, f.principals,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.router = chi.NewRouter()
	h.Routes(f.router)
	return f
}

// do performs a request as an authenticated principal, the way the
// auth middleware hands requests to these handlers.
func (f *fixture) do(method, target string, body io.Reader) *httptest.ResponseRecorder {
	return f.doAs(method, target, body, domain.ContextPrincipal{ID: uuid.New(), Role: domain.RoleAuthenticated})
}

// doAnonymous performs a request carrying the anonymous principal.
func (f *fixture) doAnonymous(method, target string, body io.Reader) *httptest.ResponseRecorder {
	return f.doAs(method, target, body, domain.ContextPrincipal{Role: domain.RoleAnonymous})
}

func (f *fixture) doAs(method, target string, body io.Reader, p domain.ContextPrincipal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(domain.WithPrincipal(req.Context(), p))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}
