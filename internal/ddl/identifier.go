// Package ddl centralizes identifier validation, quoting, and dynamic
// statement construction. Every data-supplied name embedded in a
// generated statement must pass through this package; no other package
// may concatenate raw caller input into executable SQL.
package ddl

import (
	"regexp"
	"strings"

	"fairdata/internal/domain"
)

// identifierRe allows alphanumeric + underscores, starting with a letter or underscore.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// sanitizeRe matches every character stripped by SanitizeIdentifier.
var sanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// maxIdentifierLen is the PostgreSQL identifier length limit.
const maxIdentifierLen = 63

// ValidateIdentifier checks that name is a safe SQL identifier:
//   - Non-empty
//   - At most 63 characters
//   - Matches [a-zA-Z_][a-zA-Z0-9_]*
func ValidateIdentifier(name string) error {
	if name == "" {
		return domain.ErrInvalidIdentifier(name, "name is required")
	}
	if len(name) > maxIdentifierLen {
		return domain.ErrInvalidIdentifier(name, "name exceeds 63 characters")
	}
	if !identifierRe.MatchString(name) {
		return domain.ErrInvalidIdentifier(name, "name must match [a-zA-Z_][a-zA-Z0-9_]*")
	}
	return nil
}

// QuoteIdentifier wraps a SQL identifier in double quotes, escaping any
// embedded double-quote characters by doubling them (standard SQL).
//
// Always quotes unconditionally; the caller should validate first.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral wraps a string value in single quotes, escaping any
// embedded single-quote characters by doubling them (standard SQL).
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// QuoteQualified quotes a schema-qualified relation name.
func QuoteQualified(namespace, name string) string {
	return QuoteIdentifier(namespace) + "." + QuoteIdentifier(name)
}

// SanitizeIdentifier derives a safe identifier from an uploaded header:
// characters outside [a-zA-Z0-9_] become underscores, the result is
// lowercased and truncated to the identifier length limit. When the
// result is empty or starts with a digit it is prefixed with "c_" so the
// output always satisfies ValidateIdentifier.
func SanitizeIdentifier(raw string) string {
	clean := strings.ToLower(sanitizeRe.ReplaceAllString(raw, "_"))
	if clean == "" || (clean[0] >= '0' && clean[0] <= '9') {
		clean = "c_" + clean
	}
	if len(clean) > maxIdentifierLen {
		clean = clean[:maxIdentifierLen]
	}
	return clean
}

// EscapeLikePattern escapes %, _ and the escape character itself so a
// user-supplied substring can be embedded in a LIKE/ILIKE pattern.
func EscapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
