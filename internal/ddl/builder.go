package ddl

import (
	"fmt"
	"strings"

	"fairdata/internal/domain"
)

// CreateDataTable returns the DDL for a provisioned data relation:
// surrogate key, owner column referencing the principal store, the
// mandatory record-identifier column, and the flexible text columns.
// Create-if-not-exists semantics make re-invocation a no-op.
func CreateDataTable(namespace, table, identifierColumn string, columns []string) (string, error) {
	if err := ValidateIdentifier(namespace); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(identifierColumn); err != nil {
		return "", err
	}

	defs := []string{
		fmt.Sprintf("%s BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY", QuoteIdentifier(domain.SurrogateKeyColumn)),
		fmt.Sprintf("%s UUID NOT NULL REFERENCES %s (id)", QuoteIdentifier(domain.OwnerColumn), QuoteQualified(namespace, "principals")),
		fmt.Sprintf("%s TEXT NOT NULL", QuoteIdentifier(identifierColumn)),
	}
	for _, c := range columns {
		if err := ValidateIdentifier(c); err != nil {
			return "", err
		}
		defs = append(defs, fmt.Sprintf("%s TEXT", QuoteIdentifier(c)))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		QuoteQualified(namespace, table),
		strings.Join(defs, ", "),
	), nil
}

// CreateIndex returns a CREATE INDEX IF NOT EXISTS statement on a single
// column. The index name is derived from the table and column names and
// truncated to the identifier length limit.
func CreateIndex(namespace, table, column string) (string, error) {
	if err := ValidateIdentifier(namespace); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(column); err != nil {
		return "", err
	}
	name := "idx_" + table + "_" + column
	if len(name) > maxIdentifierLen {
		name = name[:maxIdentifierLen]
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
		QuoteIdentifier(name),
		QuoteQualified(namespace, table),
		QuoteIdentifier(column),
	), nil
}

// DropTable returns a DROP TABLE IF EXISTS statement. Used only by the
// provisioning rollback path and administrative tooling.
func DropTable(namespace, table string) (string, error) {
	if err := ValidateIdentifier(namespace); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(table); err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", QuoteQualified(namespace, table)), nil
}
