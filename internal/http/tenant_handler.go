package httpapi

import (
	"net/http"

	"unithub/internal/domain"
	"unithub/internal/service"
)

// TenantHandler 租客 CRUD
type TenantHandler struct {
	tenants *service.TenantService
}

func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	tenants, err := h.tenants.List(r.Context(), ownerID)
	if err != nil {
		writeQueryError(w, service.OpListTenants, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(tenants))
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	tenant, err := h.tenants.Get(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpGetTenant, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(tenant))
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.TenantInput
	if !decodeAction(w, r, &in) {
		return
	}
	tenant, err := h.tenants.Create(r.Context(), ownerID, in)
	if err != nil {
		writeActionError(w, service.OpCreateTenant, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(tenant))
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.TenantInput
	if !decodeAction(w, r, &in) {
		return
	}
	tenant, err := h.tenants.Update(r.Context(), ownerID, pathID(r), in)
	if err != nil {
		writeActionError(w, service.OpUpdateTenant, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(tenant))
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if err := h.tenants.Delete(r.Context(), ownerID, pathID(r)); err != nil {
		writeActionError(w, service.OpDeleteTenant, err)
		return
	}
	writeJSON(w, http.StatusOK, Action[any](nil))
}
