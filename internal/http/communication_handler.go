package httpapi

import (
	"net/http"

	"unithub/internal/domain"
	"unithub/internal/service"
)

type CommunicationHandler struct {
	logs *service.CommunicationService
}

func NewCommunicationHandler(logs *service.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{logs: logs}
}

func (h *CommunicationHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	logs, err := h.logs.List(r.Context(), service.ListCommunicationLogsRequest{
		OwnerID:  ownerID,
		TenantID: q.Get("tenantId"),
		Type:     q.Get("type"),
	})
	if err != nil {
		writeQueryError(w, service.OpListCommunicationLogs, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(logs))
}

func (h *CommunicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	l, err := h.logs.Get(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpGetCommunicationLog, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(l))
}

func (h *CommunicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.CommunicationLogInput
	if !decodeAction(w, r, &in) {
		return
	}
	l, err := h.logs.Create(r.Context(), ownerID, in)
	if err != nil {
		writeActionError(w, service.OpCreateCommunicationLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(l))
}

func (h *CommunicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.CommunicationLogInput
	if !decodeAction(w, r, &in) {
		return
	}
	l, err := h.logs.Update(r.Context(), ownerID, pathID(r), in)
	if err != nil {
		writeActionError(w, service.OpUpdateCommunicationLog, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(l))
}

func (h *CommunicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if err := h.logs.Delete(r.Context(), ownerID, pathID(r)); err != nil {
		writeActionError(w, service.OpDeleteCommunicationLog, err)
		return
	}
	writeJSON(w, http.StatusOK, Action[any](nil))
}
