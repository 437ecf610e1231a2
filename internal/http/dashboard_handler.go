package httpapi

import (
	"errors"
	"net/http"

	"unithub/internal/apperr"
	"unithub/internal/service"
)

// DashboardHandler 仪表盘
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview 部分失败时 success=false，data 仍包含成功的部分
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	out, err := h.dashboard.Overview(r.Context(), ownerID)
	if err != nil {
		msg := service.Message(overviewOp(err), err)
		writeJSON(w, apperr.HTTPStatus(err), ActionResult[*service.DashboardOverview]{Error: &msg, Data: out})
		return
	}
	writeJSON(w, http.StatusOK, Action(out))
}

// overviewOp 错误消息回退文案取失败的那一项
func overviewOp(err error) service.Op {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Op != "" {
		return service.Op(ae.Op)
	}
	return service.OpDashboardStats
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerOf(w, r)
	if !ok {
		return
	}
	stats, err := h.dashboard.Stats(r.Context(), ownerID)
	if err != nil {
		writeActionError(w, service.OpDashboardStats, err)
		return
	}
	writeJSON(w, http.StatusOK, Action(stats))
}
