// Package api provides the HTTP handlers for the data provisioning and
// access REST API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fairdata/internal/domain"
	"fairdata/internal/middleware"
	"fairdata/internal/service"
)

// Dataset orchestrates the provision/secure/register lifecycle.
type Dataset interface {
	Create(ctx context.Context, req service.CreateDatasetRequest) (*domain.DatasetEntry, error)
}

// Gateway is the read/write path into provisioned relations.
type Gateway interface {
	ListTables(ctx context.Context, namespace string) ([]string, error)
	SearchTablesByColumn(ctx context.Context, pattern, namespace string) ([]string, error)
	ListColumns(ctx context.Context, tableName, namespace string) ([]domain.ColumnInfo, error)
	TableExists(ctx context.Context, tableName, namespace string) (bool, error)
	FetchRows(ctx context.Context, tableName, namespace string, limit int) ([]domain.Row, error)
	UpdateRow(ctx context.Context, tableName, namespace string, rowID int64, patch domain.RowPatch) (bool, error)
}

// Catalog is the dataset registry surface.
type Catalog interface {
	Register(ctx context.Context, req domain.RegisterDatasetRequest) (*domain.DatasetEntry, error)
	List(ctx context.Context) ([]domain.DatasetEntry, error)
	Owns(ctx context.Context, tableName string) (bool, error)
}

// Metadata manages per-sample attributes for a relation.
type Metadata interface {
	Replace(ctx context.Context, parentTable string, fields []domain.MetadataField) error
	Get(ctx context.Context, parentTable string) ([]domain.MetadataField, error)
	Fields(ctx context.Context, parentTable string) ([]string, error)
}

// Consistency reports catalog/schema drift.
type Consistency interface {
	Report(ctx context.Context) (*domain.ConsistencyReport, error)
}

// Principals manages the principal store.
type Principals interface {
	Create(ctx context.Context, email string, role domain.Role) (*domain.Principal, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Principal, error)
	List(ctx context.Context) ([]domain.Principal, error)
}

// Handler carries the service dependencies for all routes.
type Handler struct {
	dataset     Dataset
	gateway     Gateway
	catalog     Catalog
	metadata    Metadata
	consistency Consistency
	principals  Principals
	logger      *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(dataset Dataset, gateway Gateway, catalog Catalog, metadata Metadata, consistency Consistency, principals Principals, logger *slog.Logger) *Handler {
	return &Handler{
		dataset:     dataset,
		gateway:     gateway,
		catalog:     catalog,
		metadata:    metadata,
		consistency: consistency,
		principals:  principals,
		logger:      logger,
	}
}

// Routes registers every endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tables", h.createTable)
		r.Get("/tables", h.listTables)
		r.Get("/tables/search", h.searchTables)

		r.Route("/tables/{table}", func(r chi.Router) {
			r.Get("/columns", h.getColumns)
			r.Get("/exists", h.tableExists)
			r.Get("/rows", h.fetchRows)
			r.Patch("/rows/{rowID}", h.updateRow)
			r.Get("/owned", h.ownsTable)
			r.Put("/metadata", h.putMetadata)
			r.Get("/metadata", h.getMetadata)
			r.Get("/metadata/fields", h.getMetadataFields)
		})

		r.Post("/catalog", h.registerCatalogEntry)
		r.Get("/catalog", h.listCatalog)
		r.Get("/catalog/consistency", h.consistencyReport)

		r.Post("/principals", h.createPrincipal)
		r.Get("/principals", h.listPrincipals)
		r.Get("/principals/{id}", h.getPrincipal)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// respond writes a JSON body with the given status.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("write response failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()))
	}
}

// respondError maps a domain error onto its HTTP status and a JSON body.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()))
	}
	h.respond(w, r, status, map[string]any{
		"code":    status,
		"message": err.Error(),
	})
}

// decode parses a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}
