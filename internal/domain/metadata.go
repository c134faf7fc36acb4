package domain

// MetadataField is one attribute attached to a sample in a dataset.
// Stored in the entity-attribute-value side table rather than widening
// the data relation.
type MetadataField struct {
	ParentTable string
	SampleID    string
	Field       string
	Value       string
}

// AllowedMetadataFields is the closed set of attributes accepted for
// sample metadata. Anything else is rejected before storage.
var AllowedMetadataFields = map[string]bool{
	"treatment":   true,
	"timepoint":   true,
	"condition":   true,
	"sample_type": true,
	"age_group":   true,
	"sex":         true,
	"cohort":      true,
	"group":       true,
}
