package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fairdata/internal/domain"
)

type principalResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toPrincipalResponse(p *domain.Principal) principalResponse {
	return principalResponse{ID: p.ID.String(), Email: p.Email, Role: string(p.Role)}
}

func (h *Handler) createPrincipal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Role  string `json:"role,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	p, err := h.principals.Create(r.Context(), req.Email, domain.Role(req.Role))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, toPrincipalResponse(p))
}

func (h *Handler) getPrincipal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, domain.ErrValidation("principal id must be a uuid"))
		return
	}
	p, err := h.principals.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toPrincipalResponse(p))
}

func (h *Handler) listPrincipals(w http.ResponseWriter, r *http.Request) {
	list, err := h.principals.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]principalResponse, len(list))
	for i := range list {
		out[i] = toPrincipalResponse(&list[i])
	}
	h.respond(w, r, http.StatusOK, map[string]any{"principals": out})
}
