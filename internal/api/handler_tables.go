package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fairdata/internal/domain"
	"fairdata/internal/service"
)

type createTableRequest struct {
	TableName        string   `json:"table_name"`
	Columns          []string `json:"columns"`
	IdentifierColumn string   `json:"identifier_column"`
	MainTable        string   `json:"main_table,omitempty"`
	Description      string   `json:"description,omitempty"`
	Origin           string   `json:"origin,omitempty"`
}

// datasetEntryResponse deliberately omits the owner id: relation names
// are discoverable across tenants, principal identities are not.
// Callers check their own ownership through the owned endpoint.
type datasetEntryResponse struct {
	ID          int64     `json:"id"`
	TableName   string    `json:"table_name"`
	MainTable   string    `json:"main_table,omitempty"`
	Description string    `json:"description,omitempty"`
	Origin      string    `json:"origin,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func entryResponse(e *domain.DatasetEntry) datasetEntryResponse {
	return datasetEntryResponse{
		ID:          e.ID,
		TableName:   e.TableName,
		MainTable:   e.MainTable,
		Description: e.Description,
		Origin:      e.Origin,
		CreatedAt:   e.CreatedAt,
	}
}

// createTable provisions, secures, and catalogs a dataset in one
// failure-atomic sequence.
func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	if req.TableName == "" || req.IdentifierColumn == "" {
		h.respondError(w, r, domain.ErrValidation("table_name and identifier_column are required"))
		return
	}

	entry, err := h.dataset.Create(r.Context(), service.CreateDatasetRequest{
		Provision: domain.ProvisionRequest{
			TableName:        req.TableName,
			Columns:          req.Columns,
			IdentifierColumn: req.IdentifierColumn,
		},
		MainTable:   req.MainTable,
		Description: req.Description,
		Origin:      req.Origin,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, entryResponse(entry))
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.gateway.ListTables(r.Context(), r.URL.Query().Get("namespace"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"tables": tables})
}

func (h *Handler) searchTables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tables, err := h.gateway.SearchTablesByColumn(r.Context(), q.Get("column"), q.Get("namespace"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"tables": tables})
}

func (h *Handler) getColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := h.gateway.ListColumns(r.Context(), chi.URLParam(r, "table"), r.URL.Query().Get("namespace"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	type column struct {
		Name     string `json:"name"`
		DataType string `json:"data_type"`
		Nullable bool   `json:"nullable"`
	}
	out := make([]column, len(cols))
	for i, c := range cols {
		out[i] = column{Name: c.Name, DataType: c.DataType, Nullable: c.Nullable}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"columns": out})
}

func (h *Handler) tableExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.gateway.TableExists(r.Context(), chi.URLParam(r, "table"), r.URL.Query().Get("namespace"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"exists": exists})
}

func (h *Handler) fetchRows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, domain.ErrValidation("limit must be an integer"))
			return
		}
		limit = parsed
	}
	rows, err := h.gateway.FetchRows(r.Context(), chi.URLParam(r, "table"), q.Get("namespace"), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) updateRow(w http.ResponseWriter, r *http.Request) {
	rowID, err := strconv.ParseInt(chi.URLParam(r, "rowID"), 10, 64)
	if err != nil {
		h.respondError(w, r, domain.ErrValidation("row id must be an integer"))
		return
	}
	var patch domain.RowPatch
	if err := decode(r, &patch); err != nil {
		h.respondError(w, r, err)
		return
	}

	updated, err := h.gateway.UpdateRow(r.Context(), chi.URLParam(r, "table"), r.URL.Query().Get("namespace"), rowID, patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"updated": updated})
}

func (h *Handler) ownsTable(w http.ResponseWriter, r *http.Request) {
	owned, err := h.catalog.Owns(r.Context(), chi.URLParam(r, "table"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"owned": owned})
}
