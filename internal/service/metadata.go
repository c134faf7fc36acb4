package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"fairdata/internal/ddl"
	"fairdata/internal/domain"
)

// piiPatterns flag values that look like direct identifiers. Sample
// metadata carries experimental attributes only; anything resembling
// contact details or national identifiers is rejected outright.
var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[\w.+-]+@[\w-]+\.[\w.]+\b`),
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	regexp.MustCompile(`(?i)\b(ssn|social security)\b`),
	regexp.MustCompile(`\b(\+?\d[\d\s().-]{8,}\d)\b`),
}

// MetadataService manages the per-sample attribute store attached to
// data relations.
type MetadataService struct {
	repo   domain.MetadataRepository
	schema domain.SchemaRepository
}

// NewMetadataService creates a new MetadataService.
func NewMetadataService(repo domain.MetadataRepository, schema domain.SchemaRepository) *MetadataService {
	return &MetadataService{repo: repo, schema: schema}
}

// Replace overwrites the metadata for a parent relation with the given
// fields. Field names come from a closed allow-list and values are
// screened for identifier-like content before anything is stored.
func (s *MetadataService) Replace(ctx context.Context, parentTable string, fields []domain.MetadataField) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	parentTable, err = s.resolveParent(ctx, parentTable)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if !domain.AllowedMetadataFields[f.Field] {
			return domain.ErrValidation("metadata field %q is not allowed", f.Field)
		}
		if f.SampleID == "" {
			return domain.ErrValidation("sample id is required")
		}
		if v := strings.TrimSpace(f.Value); looksLikePII(v) {
			return domain.ErrValidation("metadata value for %q resembles personal data", f.Field)
		}
	}
	for i := range fields {
		fields[i].ParentTable = parentTable
	}
	return s.repo.Replace(ctx, p, parentTable, fields)
}

// Get returns all metadata attached to a parent relation.
func (s *MetadataService) Get(ctx context.Context, parentTable string) ([]domain.MetadataField, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	parentTable, err = s.resolveParent(ctx, parentTable)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, p, parentTable)
}

// Fields returns the distinct attribute names present for a parent
// relation, sorted.
func (s *MetadataService) Fields(ctx context.Context, parentTable string) ([]string, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	parentTable, err = s.resolveParent(ctx, parentTable)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.Fields(ctx, p, parentTable)
	if err != nil {
		return nil, err
	}
	sort.Strings(fields)
	return fields, nil
}

// Has reports whether any metadata exists for a parent relation.
func (s *MetadataService) Has(ctx context.Context, parentTable string) (bool, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return false, err
	}
	parentTable, err = s.resolveParent(ctx, parentTable)
	if err != nil {
		return false, err
	}
	return s.repo.Has(ctx, p, parentTable)
}

func (s *MetadataService) resolveParent(ctx context.Context, parentTable string) (string, error) {
	if err := ddl.ValidateIdentifier(parentTable); err != nil {
		return "", err
	}
	exists, err := s.schema.TableExists(ctx, parentTable, DefaultNamespace)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", &domain.UnknownRelationError{Relation: parentTable}
	}
	return parentTable, nil
}

func looksLikePII(v string) bool {
	for _, re := range piiPatterns {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
