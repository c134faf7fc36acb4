package domain

import (
	"context"

	"github.com/google/uuid"
)

// Execer runs a single statement. Satisfied by the transaction handle
// the DDL runner passes to its callback.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// DDLRunner executes provisioning and securing statement sequences
// atomically: if the callback returns an error, nothing it executed
// remains externally visible.
type DDLRunner interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, ex Execer) error) error
	// Notify emits a fire-and-forget notification; delivery is not
	// acknowledged and loss must not fail the caller.
	Notify(ctx context.Context, channel, payload string) error
}

// CatalogRepository is the registry of provisioned datasets and owners.
type CatalogRepository interface {
	Register(ctx context.Context, e *DatasetEntry) (*DatasetEntry, error)
	GetByTable(ctx context.Context, tableName string) (*DatasetEntry, error)
	List(ctx context.Context) ([]DatasetEntry, error)
	// Owns reports whether owner holds the catalog entry for tableName.
	Owns(ctx context.Context, tableName string, owner uuid.UUID) (bool, error)
	// TableNames returns every cataloged relation name.
	TableNames(ctx context.Context) ([]string, error)
}

// SchemaRepository reads live-schema metadata through parameterized
// predicates only; it never executes caller-controlled SQL fragments.
type SchemaRepository interface {
	ListTables(ctx context.Context, namespace string) ([]string, error)
	SearchTablesByColumn(ctx context.Context, pattern, namespace string) ([]string, error)
	ListColumns(ctx context.Context, tableName, namespace string) ([]ColumnInfo, error)
	TableExists(ctx context.Context, tableName, namespace string) (bool, error)
}

// RowRepository executes gateway reads and writes. Reads run under the
// caller's session binding, so installed row-level policies scope the
// result. Updates are the controlled mutation path: they run on the
// service connection with an explicit ownership predicate when owner is
// non-nil, mirroring the owner-scoped policy.
type RowRepository interface {
	FetchRows(ctx context.Context, p ContextPrincipal, namespace, tableName string, limit int) ([]Row, error)
	// UpdateRow returns the number of rows affected. Zero means not
	// found or not owned by the caller; the two are indistinguishable.
	UpdateRow(ctx context.Context, namespace, tableName string, rowID int64, patch RowPatch, owner *uuid.UUID) (int64, error)
}

// PrincipalRepository provides access to the principal store.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
	List(ctx context.Context) ([]Principal, error)
}

// MetadataRepository stores sample metadata in the EAV side table.
type MetadataRepository interface {
	Replace(ctx context.Context, p ContextPrincipal, parentTable string, fields []MetadataField) error
	Get(ctx context.Context, p ContextPrincipal, parentTable string) ([]MetadataField, error)
	Fields(ctx context.Context, p ContextPrincipal, parentTable string) ([]string, error)
	Has(ctx context.Context, p ContextPrincipal, parentTable string) (bool, error)
}
