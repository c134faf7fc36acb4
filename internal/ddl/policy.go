package ddl

import (
	"fmt"
	"strings"

	"fairdata/internal/domain"
)

// Database roles the isolation engine reconciles against. These map to
// the principal classes at the service boundary.
const (
	RoleAnon          = "fairdata_anon"
	RoleAuthenticated = "fairdata_authenticated"
	RoleService       = "fairdata_service"
)

// PrincipalSettingKey is the session setting the owner-scoped policies
// read. Gateway transactions SET LOCAL this key to the caller's id.
const PrincipalSettingKey = "fairdata.principal_id"

// Managed policy names. Reapplication drops exactly these before
// recreating them, so securing a relation twice ends in the same state
// as securing it once.
const (
	PolicyOwnerSelect = "owner_select"
	PolicyOwnerInsert = "owner_insert"
	PolicyServiceAll  = "service_all"
)

// ManagedPolicies lists every policy name the isolation engine owns.
var ManagedPolicies = []string{PolicyOwnerSelect, PolicyOwnerInsert, PolicyServiceAll}

// ownerPredicate is the row predicate shared by the owner-scoped
// policies: the row's owner column must equal the caller's principal id.
func ownerPredicate() string {
	return fmt.Sprintf("%s = current_setting(%s, true)::uuid",
		QuoteIdentifier(domain.OwnerColumn),
		QuoteLiteral(PrincipalSettingKey),
	)
}

// EnableRowLevelSecurity returns the ALTER TABLE statement turning on
// row-level security for the relation.
func EnableRowLevelSecurity(namespace, table string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", QuoteQualified(namespace, table)), nil
}

// DropPolicy returns a DROP POLICY IF EXISTS statement for one managed
// policy name.
func DropPolicy(policy, namespace, table string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(policy); err != nil {
		return "", err
	}
	return fmt.Sprintf("DROP POLICY IF EXISTS %s ON %s",
		QuoteIdentifier(policy), QuoteQualified(namespace, table)), nil
}

// CreateOwnerSelectPolicy returns the owner-scoped read policy: an
// authenticated principal may select a row only when it owns the row.
func CreateOwnerSelectPolicy(namespace, table string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE POLICY %s ON %s FOR SELECT TO %s USING (%s)",
		QuoteIdentifier(PolicyOwnerSelect),
		QuoteQualified(namespace, table),
		QuoteIdentifier(RoleAuthenticated),
		ownerPredicate(),
	), nil
}

// CreateOwnerInsertPolicy returns the owner-scoped insert policy: the
// inserted owner column must equal the caller's own principal id, which
// prevents owner spoofing at insert time.
func CreateOwnerInsertPolicy(namespace, table string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE POLICY %s ON %s FOR INSERT TO %s WITH CHECK (%s)",
		QuoteIdentifier(PolicyOwnerInsert),
		QuoteQualified(namespace, table),
		QuoteIdentifier(RoleAuthenticated),
		ownerPredicate(),
	), nil
}

// CreateServiceAllPolicy returns the unrestricted all-operations policy
// for the privileged service identity.
func CreateServiceAllPolicy(namespace, table string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE POLICY %s ON %s FOR ALL TO %s USING (true) WITH CHECK (true)",
		QuoteIdentifier(PolicyServiceAll),
		QuoteQualified(namespace, table),
		QuoteIdentifier(RoleService),
	), nil
}

// RevokeAll returns a REVOKE ALL statement for role on the relation.
func RevokeAll(namespace, table, role string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(role); err != nil {
		return "", err
	}
	return fmt.Sprintf("REVOKE ALL ON %s FROM %s",
		QuoteQualified(namespace, table), QuoteIdentifier(role)), nil
}

// RevokeWrites returns a REVOKE of the mutation privileges. Row-level
// policies do not substitute for table-level privilege grants, so the
// ordinary class keeps select/insert but loses direct write access;
// application-level mutation flows through the gateway's update path.
func RevokeWrites(namespace, table, role string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(role); err != nil {
		return "", err
	}
	return fmt.Sprintf("REVOKE INSERT, UPDATE, DELETE ON %s FROM %s",
		QuoteQualified(namespace, table), QuoteIdentifier(role)), nil
}

// GrantReadInsert returns the table-level SELECT, INSERT grant for the
// ordinary authenticated class.
func GrantReadInsert(namespace, table, role string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(role); err != nil {
		return "", err
	}
	return fmt.Sprintf("GRANT SELECT, INSERT ON %s TO %s",
		QuoteQualified(namespace, table), QuoteIdentifier(role)), nil
}

// GrantAll returns the full table-level grant for the service identity.
func GrantAll(namespace, table, role string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(role); err != nil {
		return "", err
	}
	return fmt.Sprintf("GRANT ALL ON %s TO %s",
		QuoteQualified(namespace, table), QuoteIdentifier(role)), nil
}

// GrantSurrogateSequence returns the sequence grant backing the
// surrogate key. Identity columns name their sequence
// <table>_<column>_seq.
func GrantSurrogateSequence(namespace, table, role string) (string, error) {
	if err := validatePair(namespace, table); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(role); err != nil {
		return "", err
	}
	seq := table + "_" + domain.SurrogateKeyColumn + "_seq"
	if len(seq) > maxIdentifierLen {
		seq = seq[:maxIdentifierLen]
	}
	return fmt.Sprintf("GRANT USAGE, SELECT ON SEQUENCE %s TO %s",
		QuoteQualified(namespace, seq), QuoteIdentifier(role)), nil
}

// UpdateRowSet builds the SET clause of a single-row update from
// already-validated column names and positional parameter offsets.
// Values are never inlined; the caller binds them as parameters.
func UpdateRowSet(columns []string, firstParam int) (string, error) {
	if len(columns) == 0 {
		return "", domain.ErrValidation("update requires at least one column")
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		if err := ValidateIdentifier(c); err != nil {
			return "", err
		}
		parts[i] = fmt.Sprintf("%s = $%d", QuoteIdentifier(c), firstParam+i)
	}
	return strings.Join(parts, ", "), nil
}

func validatePair(namespace, table string) error {
	if err := ValidateIdentifier(namespace); err != nil {
		return err
	}
	return ValidateIdentifier(table)
}
