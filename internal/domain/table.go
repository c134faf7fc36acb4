package domain

// Reserved column names on every provisioned data relation. Uploaded
// headers may not collide with these after sanitization.
const (
	SurrogateKeyColumn = "rowid"
	OwnerColumn        = "user_id"
)

// ProvisionRequest holds parameters for creating a data relation.
type ProvisionRequest struct {
	Namespace        string
	TableName        string
	Columns          []string
	IdentifierColumn string
}

// ColumnInfo is one (name, type, nullability) tuple from the live schema.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

// Row is a single fetched record, keyed by column name.
type Row map[string]any

// RowPatch is a partial update for a single row: column name to new
// value. The owner column is immutable through this path for every
// caller, including the service identity.
type RowPatch map[string]string

// ContainsOwnerColumn reports whether the patch attempts to set row
// ownership.
func (p RowPatch) ContainsOwnerColumn() bool {
	_, ok := p[OwnerColumn]
	return ok
}
