package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairdata/internal/domain"
)

type metadataEntry struct {
	SampleID string `json:"sample_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// putMetadata replaces the sample metadata attached to a relation.
func (h *Handler) putMetadata(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fields []metadataEntry `json:"fields"`
	}
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	fields := make([]domain.MetadataField, len(req.Fields))
	for i, f := range req.Fields {
		fields[i] = domain.MetadataField{SampleID: f.SampleID, Field: f.Field, Value: f.Value}
	}
	if err := h.metadata.Replace(r.Context(), chi.URLParam(r, "table"), fields); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, map[string]any{"stored": len(fields)})
}

func (h *Handler) getMetadata(w http.ResponseWriter, r *http.Request) {
	fields, err := h.metadata.Get(r.Context(), chi.URLParam(r, "table"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]metadataEntry, len(fields))
	for i, f := range fields {
		out[i] = metadataEntry{SampleID: f.SampleID, Field: f.Field, Value: f.Value}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"fields": out})
}

func (h *Handler) getMetadataFields(w http.ResponseWriter, r *http.Request) {
	names, err := h.metadata.Fields(r.Context(), chi.URLParam(r, "table"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	h.respond(w, r, http.StatusOK, map[string]any{"fields": names})
}
