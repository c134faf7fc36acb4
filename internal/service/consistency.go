package service

import (
	"context"
	"log/slog"
	"sort"

	"fairdata/internal/domain"
)

// systemRelations are namespace-resident tables that are part of the
// platform itself and never appear in the catalog.
var systemRelations = map[string]bool{
	"metadata_tables":  true,
	"principals":       true,
	"sample_metadata":  true,
	"goose_db_version": true,
}

// ConsistencyService cross-checks the catalog against the live schema
// and reports drift in both directions.
type ConsistencyService struct {
	schema  domain.SchemaRepository
	catalog domain.CatalogRepository
	logger  *slog.Logger
}

// NewConsistencyService creates a new ConsistencyService.
func NewConsistencyService(schema domain.SchemaRepository, catalog domain.CatalogRepository, logger *slog.Logger) *ConsistencyService {
	return &ConsistencyService{schema: schema, catalog: catalog, logger: logger}
}

// Report computes the drift between catalog and schema: relations that
// exist but are uncataloged, and catalog entries whose relation is
// gone. Reporting only; nothing is repaired.
func (s *ConsistencyService) Report(ctx context.Context) (*domain.ConsistencyReport, error) {
	live, err := s.schema.ListTables(ctx, DefaultNamespace)
	if err != nil {
		return nil, err
	}
	cataloged, err := s.catalog.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	liveSet := make(map[string]bool, len(live))
	for _, t := range live {
		liveSet[t] = true
	}
	catalogSet := make(map[string]bool, len(cataloged))
	for _, t := range cataloged {
		catalogSet[t] = true
	}

	report := &domain.ConsistencyReport{}
	for _, t := range live {
		if !systemRelations[t] && !catalogSet[t] {
			report.Uncataloged = append(report.Uncataloged, t)
		}
	}
	for _, t := range cataloged {
		if !liveSet[t] {
			report.MissingTable = append(report.MissingTable, t)
		}
	}
	sort.Strings(report.Uncataloged)
	sort.Strings(report.MissingTable)
	return report, nil
}

// Sweep runs Report and logs the outcome. Used by the scheduled job.
func (s *ConsistencyService) Sweep(ctx context.Context) {
	report, err := s.Report(ctx)
	if err != nil {
		s.logger.Error("consistency sweep failed", "error", err)
		return
	}
	if report.Clean() {
		s.logger.Info("consistency sweep clean")
		return
	}
	s.logger.Warn("catalog drift detected",
		"uncataloged", report.Uncataloged,
		"missing_table", report.MissingTable)
}
