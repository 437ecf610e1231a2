package httpapi

import (
	"errors"
	"net/http"

	"unithub/internal/domain"
	"unithub/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RentPaymentHandler 租金记录：CRUD、标记已付、导出、催缴提醒
type RentPaymentHandler struct {
	payments *service.RentPaymentService
}

func NewRentPaymentHandler(payments *service.RentPaymentService) *RentPaymentHandler {
	return &RentPaymentHandler{payments: payments}
}

func listRentPaymentsRequest(r *http.Request, ownerID string) service.ListRentPaymentsRequest {
	q := r.URL.Query()
	return service.ListRentPaymentsRequest{
		OwnerID:  ownerID,
		TenantID: q.Get("tenantId"),
		Status:   q.Get("status"),
	}
}

func (h *RentPaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	payments, err := h.payments.List(r.Context(), listRentPaymentsRequest(r, ownerID))
	if err != nil {
		writeQueryError(w, service.OpListRentPayments, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(payments))
}

func (h *RentPaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	p, err := h.payments.Get(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeQueryError(w, service.OpGetRentPayment, err)
		return
	}
	writeJSON(w, http.StatusOK, Query(p))
}

func (h *RentPaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.RentPaymentInput
	if !decodeAction(w, r, &in) {
		return
	}
	p, err := h.payments.Create(r.Context(), ownerID, in)
	if err != nil {
		writeActionError(w, service.OpCreateRentPayment, err)
		return
	}
	writeJSON(w, http.StatusCreated, Action(p))
}

func (h *RentPaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var in domain.RentPaymentInput
	if !decodeAction(w, r, &in) {
		return
	}
	p, err := h.payments.Update(r.Context(), ownerID, pathID(r), in)
	if err != nil {
		writeActionError(w, service.OpUpdateRentPayment, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(p))
}

// MarkPaid body 可为空（默认今天付款）
func (h *RentPaymentHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	var req service.MarkPaidRequest
	if err := readBodyJSON(r, maxJSONBodyBytes, &req); err != nil && !errors.Is(err, errEmptyBody) {
		writeJSON(w, http.StatusBadRequest, ActionFail(msgInvalidBody))
		return
	}
	p, err := h.payments.MarkPaid(r.Context(), ownerID, pathID(r), req)
	if err != nil {
		writeActionError(w, service.OpMarkRentPaymentPaid, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(p))
}

func (h *RentPaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	if err := h.payments.Delete(r.Context(), ownerID, pathID(r)); err != nil {
		writeActionError(w, service.OpDeleteRentPayment, err)
		return
	}
	writeJSON(w, http.StatusOK, Action[any](nil))
}

// Export 与 List 使用相同的查询参数
func (h *RentPaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	data, err := h.payments.Export(r.Context(), listRentPaymentsRequest(r, ownerID))
	if err != nil {
		writeQueryError(w, service.OpExportRentPayments, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment("rent-payments.xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *RentPaymentHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	reminder, err := h.payments.GenerateReminder(r.Context(), ownerID, pathID(r))
	if err != nil {
		writeActionError(w, service.OpGenerateRentReminder, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(reminder))
}
