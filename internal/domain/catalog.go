package domain

import (
	"time"

	"github.com/google/uuid"
)

// DatasetEntry is a catalog record for one provisioned data relation.
// OwnerID is set once at registration from the acting principal and is
// never reassigned.
type DatasetEntry struct {
	ID          int64
	TableName   string
	MainTable   string // grouping name for datasets split across relations
	Description string
	Origin      string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

// RegisterDatasetRequest holds caller-supplied catalog fields. The owner
// is deliberately absent: it is derived from the authenticated context.
type RegisterDatasetRequest struct {
	TableName   string
	MainTable   string
	Description string
	Origin      string
}

// Principal is an identity recorded in the principal store. Token
// issuance happens elsewhere; this service only verifies and references.
type Principal struct {
	ID        uuid.UUID
	Email     string
	Role      Role
	CreatedAt time.Time
}

// ConsistencyReport lists relations whose live-schema and catalog views
// disagree. Both conditions are remediation targets.
type ConsistencyReport struct {
	Uncataloged  []string // relations in the live schema with no catalog entry
	MissingTable []string // catalog entries whose relation no longer exists
}

// Clean reports whether the schema and catalog agree.
func (r ConsistencyReport) Clean() bool {
	return len(r.Uncataloged) == 0 && len(r.MissingTable) == 0
}
