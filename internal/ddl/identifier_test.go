package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdata/internal/domain"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		ident   string
		wantErr string
	}{
		{name: "valid", ident: "samples_p1"},
		{name: "leading_underscore", ident: "_fd"},
		{name: "empty", ident: "", wantErr: "name is required"},
		{name: "too_long", ident: strings.Repeat("a", 64), wantErr: "exceeds 63"},
		{name: "hyphen", ident: "my-table", wantErr: "must match"},
		{name: "semicolon", ident: "x; DROP TABLE users", wantErr: "must match"},
		{name: "quote", ident: `x"y`, wantErr: "must match"},
		{name: "leading_digit", ident: "1col", wantErr: "must match"},
		{name: "whitespace", ident: "a b", wantErr: "must match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.ident)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var invalid *domain.InvalidIdentifierError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"samples"`, QuoteIdentifier("samples"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `'hello'`, QuoteLiteral("hello"))
	assert.Equal(t, `'o''brien'`, QuoteLiteral("o'brien"))
}

func TestQuoteQualified(t *testing.T) {
	assert.Equal(t, `"_fd"."samples_p1"`, QuoteQualified("_fd", "samples_p1"))
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"patient_id", "patient_id"},
		{"Diagnosis Code", "diagnosis_code"},
		{"otu;drop", "otu_drop"},
		{"16s_reads", "c_16s_reads"},
		{"", "c_"},
		{"µ-diversity", "__diversity"},
	}
	for _, tt := range tests {
		got := SanitizeIdentifier(tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		require.NoError(t, ValidateIdentifier(got), "sanitized output must validate")
	}

	long := SanitizeIdentifier(strings.Repeat("x", 100))
	assert.Len(t, long, 63)
}

func TestEscapeLikePattern(t *testing.T) {
	assert.Equal(t, `diagn`, EscapeLikePattern("diagn"))
	assert.Equal(t, `100\%`, EscapeLikePattern("100%"))
	assert.Equal(t, `a\_b`, EscapeLikePattern("a_b"))
	assert.Equal(t, `c\\d`, EscapeLikePattern(`c\d`))
}
