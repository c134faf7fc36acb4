package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"fairdata/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingExecer captures every statement executed inside an Atomic
// callback.
type recordingExecer struct {
	stmts []string
	err   error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) error {
	if r.err != nil {
		return r.err
	}
	r.stmts = append(r.stmts, sql)
	return nil
}

type mockDDLRunner struct {
	execer    recordingExecer
	atomicErr error
	notifyFn  func(channel, payload string) error
	notified  []string
}

func (m *mockDDLRunner) Atomic(ctx context.Context, fn func(ctx context.Context, ex domain.Execer) error) error {
	if m.atomicErr != nil {
		return m.atomicErr
	}
	return fn(ctx, &m.execer)
}

func (m *mockDDLRunner) Notify(_ context.Context, channel, payload string) error {
	m.notified = append(m.notified, channel+":"+payload)
	if m.notifyFn != nil {
		return m.notifyFn(channel, payload)
	}
	return nil
}

type mockSchemaRepo struct {
	listTablesFn  func(namespace string) ([]string, error)
	searchFn      func(pattern, namespace string) ([]string, error)
	listColumnsFn func(tableName, namespace string) ([]domain.ColumnInfo, error)
	tableExistsFn func(tableName, namespace string) (bool, error)
}

func (m *mockSchemaRepo) ListTables(_ context.Context, namespace string) ([]string, error) {
	return m.listTablesFn(namespace)
}

func (m *mockSchemaRepo) SearchTablesByColumn(_ context.Context, pattern, namespace string) ([]string, error) {
	return m.searchFn(pattern, namespace)
}

func (m *mockSchemaRepo) ListColumns(_ context.Context, tableName, namespace string) ([]domain.ColumnInfo, error) {
	return m.listColumnsFn(tableName, namespace)
}

func (m *mockSchemaRepo) TableExists(_ context.Context, tableName, namespace string) (bool, error) {
	return m.tableExistsFn(tableName, namespace)
}

type mockCatalogRepo struct {
	registerFn   func(e *domain.DatasetEntry) (*domain.DatasetEntry, error)
	getByTableFn func(tableName string) (*domain.DatasetEntry, error)
	listFn       func() ([]domain.DatasetEntry, error)
	ownsFn       func(tableName string, owner uuid.UUID) (bool, error)
	tableNamesFn func() ([]string, error)
}

func (m *mockCatalogRepo) Register(_ context.Context, e *domain.DatasetEntry) (*domain.DatasetEntry, error) {
	return m.registerFn(e)
}

func (m *mockCatalogRepo) GetByTable(_ context.Context, tableName string) (*domain.DatasetEntry, error) {
	return m.getByTableFn(tableName)
}

func (m *mockCatalogRepo) List(_ context.Context) ([]domain.DatasetEntry, error) {
	return m.listFn()
}

func (m *mockCatalogRepo) Owns(_ context.Context, tableName string, owner uuid.UUID) (bool, error) {
	return m.ownsFn(tableName, owner)
}

func (m *mockCatalogRepo) TableNames(_ context.Context) ([]string, error) {
	return m.tableNamesFn()
}

type mockRowRepo struct {
	fetchRowsFn func(p domain.ContextPrincipal, namespace, tableName string, limit int) ([]domain.Row, error)
	updateRowFn func(namespace, tableName string, rowID int64, patch domain.RowPatch, owner *uuid.UUID) (int64, error)
}

func (m *mockRowRepo) FetchRows(_ context.Context, p domain.ContextPrincipal, namespace, tableName string, limit int) ([]domain.Row, error) {
	return m.fetchRowsFn(p, namespace, tableName, limit)
}

func (m *mockRowRepo) UpdateRow(_ context.Context, namespace, tableName string, rowID int64, patch domain.RowPatch, owner *uuid.UUID) (int64, error) {
	return m.updateRowFn(namespace, tableName, rowID, patch, owner)
}

type mockMetadataRepo struct {
	replaceFn func(p domain.ContextPrincipal, parentTable string, fields []domain.MetadataField) error
	getFn     func(p domain.ContextPrincipal, parentTable string) ([]domain.MetadataField, error)
	fieldsFn  func(p domain.ContextPrincipal, parentTable string) ([]string, error)
	hasFn     func(p domain.ContextPrincipal, parentTable string) (bool, error)
}

func (m *mockMetadataRepo) Replace(_ context.Context, p domain.ContextPrincipal, parentTable string, fields []domain.MetadataField) error {
	return m.replaceFn(p, parentTable, fields)
}

func (m *mockMetadataRepo) Get(_ context.Context, p domain.ContextPrincipal, parentTable string) ([]domain.MetadataField, error) {
	return m.getFn(p, parentTable)
}

func (m *mockMetadataRepo) Fields(_ context.Context, p domain.ContextPrincipal, parentTable string) ([]string, error) {
	return m.fieldsFn(p, parentTable)
}

func (m *mockMetadataRepo) Has(_ context.Context, p domain.ContextPrincipal, parentTable string) (bool, error) {
	return m.hasFn(p, parentTable)
}

type mockPrincipalRepo struct {
	createFn     func(p *domain.Principal) (*domain.Principal, error)
	getByIDFn    func(id uuid.UUID) (*domain.Principal, error)
	getByEmailFn func(email string) (*domain.Principal, error)
	listFn       func() ([]domain.Principal, error)
}

func (m *mockPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	return m.createFn(p)
}

func (m *mockPrincipalRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Principal, error) {
	return m.getByIDFn(id)
}

func (m *mockPrincipalRepo) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	return m.getByEmailFn(email)
}

func (m *mockPrincipalRepo) List(_ context.Context) ([]domain.Principal, error) {
	return m.listFn()
}

// ctxWith returns a context carrying the given principal.
func ctxWith(role domain.Role) context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{
		ID:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Role: role,
	})
}
