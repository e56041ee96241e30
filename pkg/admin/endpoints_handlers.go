package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waspceptor/waspceptor/pkg/endpoint"
	"github.com/waspceptor/waspceptor/pkg/httputil"
)

// ToggleRequest optionally sets the active state instead of flipping it.
type ToggleRequest struct {
	IsActive *bool `json:"isActive,omitempty"`
}

// handleListEndpoints handles GET /endpoints.
func (a *API) handleListEndpoints(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, a.registry.List())
}

// handleCreateEndpoint handles POST /endpoints.
func (a *API) handleCreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var draft endpoint.Draft
	if err := httputil.DecodeJSON(w, r, a.maxBody, &draft); err != nil {
		a.writeBodyError(w, err, ErrCodeInvalidJSON)
		return
	}

	def, err := a.registry.Create(draft)
	if err != nil {
		a.writeDomainError(w, err, "create endpoint")
		return
	}
	a.log.Info("endpoint created", "id", def.ID, "method", def.Method, "path", def.Path)
	httputil.WriteCreated(w, def)
}

// handleGetEndpoint handles GET /endpoints/{id}.
func (a *API) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, err := a.registry.Get(id)
	if err != nil {
		a.writeDomainError(w, err, "get endpoint", "id", id)
		return
	}
	httputil.WriteOK(w, def)
}

// handleUpdateEndpoint handles PUT and PATCH /endpoints/{id}. Both merge
// only the fields present in the body.
func (a *API) handleUpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch endpoint.Patch
	if err := httputil.DecodeJSON(w, r, a.maxBody, &patch); err != nil {
		a.writeBodyError(w, err, ErrCodeInvalidJSON)
		return
	}

	def, err := a.registry.Update(id, patch)
	if err != nil {
		a.writeDomainError(w, err, "update endpoint", "id", id)
		return
	}
	a.log.Info("endpoint updated", "id", id)
	httputil.WriteOK(w, def)
}

// handleToggleEndpoint handles POST /endpoints/{id}/toggle.
func (a *API) handleToggleEndpoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ToggleRequest
	if err := httputil.DecodeOptionalJSON(w, r, a.maxBody, &req); err != nil {
		a.writeBodyError(w, err, ErrCodeInvalidJSON)
		return
	}

	var (
		def endpoint.Definition
		err error
	)
	if req.IsActive != nil {
		def, err = a.registry.Update(id, endpoint.Patch{IsActive: req.IsActive})
	} else {
		def, err = a.registry.Toggle(id)
	}
	if err != nil {
		a.writeDomainError(w, err, "toggle endpoint", "id", id)
		return
	}
	a.log.Info("endpoint toggled", "id", id, "active", def.IsActive)
	httputil.WriteOK(w, def)
}

// handleDeleteEndpoint handles DELETE /endpoints/{id}.
func (a *API) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := a.registry.Delete(id)
	if err != nil {
		a.writeDomainError(w, err, "delete endpoint", "id", id)
		return
	}
	a.log.Info("endpoint deleted", "id", id, "logsRemoved", removed)
	httputil.WriteNoContent(w)
}
