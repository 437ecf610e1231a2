package httpapi

import (
	"net/http"

	"unithub/internal/domain"
	"unithub/internal/service"
)

type MaintenanceHandler struct {
	requests *service.MaintenanceService
}

func NewMaintenanceHandler(requests *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{requests: requests}
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	requests, err := h.requests.List(r.Context(), service.ListMaintenanceRequestsRequest{
		OwnerID:  ownerID,
		TenantID: q.Get("tenantId"),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	})
	if err != nil {
		writeQueryError(w, service.OpListMaintenanceRequests, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(requests))
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	m, err := h.requests.Get(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpGetMaintenanceRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(m))
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.MaintenanceRequestInput
	if !decodeAction(w, r, &in) {
		return
	}
	m, err := h.requests.Create(r.Context(), ownerID, in)
	if err != nil {
		writeActionError(w, service.OpCreateMaintenanceRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(m))
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.MaintenanceRequestInput
	if !decodeAction(w, r, &in) {
		return
	}
	m, err := h.requests.Update(r.Context(), ownerID, pathID(r), in)
	if err != nil {
		writeActionError(w, service.OpUpdateMaintenanceRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(m))
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if err := h.requests.Delete(r.Context(), ownerID, pathID(r)); err != nil {
		writeActionError(w, service.OpDeleteMaintenanceRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, Action[any](nil))
}

func (h *MaintenanceHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerOf(w, r); !ok {
		return
	}
	var req service.CategorizeRequest
	if !decodeAction(w, r, &req) {
		return
	}
	out, err := h.requests.Categorize(r.Context(), req)
	if err != nil {
		writeActionError(w, service.OpCategorizeMaintenance, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(out))
}

func (h *MaintenanceHandler) SuggestVendors(w http.ResponseWriter, r *http.Request) {
	if _, ok := ownerOf(w, r); !ok {
		return
	}
	var req service.SuggestVendorsRequest
	if !decodeAction(w, r, &req) {
		return
	}
	out, err := h.requests.SuggestVendors(r.Context(), req)
	if err != nil {
		writeActionError(w, service.OpSuggestVendors, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(out))
}
