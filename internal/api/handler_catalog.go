package api

import (
	"net/http"

	"fairdata/internal/domain"
)

type registerCatalogRequest struct {
	TableName   string `json:"table_name"`
	MainTable   string `json:"main_table,omitempty"`
	Description string `json:"description,omitempty"`
	Origin      string `json:"origin,omitempty"`
}

// registerCatalogEntry records an already-provisioned relation in the
// catalog without touching the schema.
func (h *Handler) registerCatalogEntry(w http.ResponseWriter, r *http.Request) {
	var req registerCatalogRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	entry, err := h.catalog.Register(r.Context(), domain.RegisterDatasetRequest{
		TableName:   req.TableName,
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

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.catalog.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]datasetEntryResponse, len(entries))
	for i := range entries {
		out[i] = entryResponse(&entries[i])
	}
	h.respond(w, r, http.StatusOK, map[string]any{"entries": out})
}

// consistencyReport exposes the drift check over HTTP. The service
// method itself is principal-agnostic because the scheduled sweep and
// the admin CLI run it without a request context, so anonymous callers
// are rejected here.
func (h *Handler) consistencyReport(w http.ResponseWriter, r *http.Request) {
	if p, ok := domain.PrincipalFromContext(r.Context()); !ok || p.Role == domain.RoleAnonymous {
		h.respondError(w, r, domain.ErrUnauthenticated("authenticated principal required"))
		return
	}
	report, err := h.consistency.Report(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	uncataloged := report.Uncataloged
	if uncataloged == nil {
		uncataloged = []string{}
	}
	missing := report.MissingTable
	if missing == nil {
		missing = []string{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{
		"clean":         report.Clean(),
		"uncataloged":   uncataloged,
		"missing_table": missing,
	})
}
