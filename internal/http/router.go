// Package httpapi is the UnitHub REST surface: routing, request decoding and
// the {data, error} / {success, error, data} response envelopes.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"unithub/internal/metrics"
	"unithub/internal/middleware"
	"unithub/internal/service"
)

const apiPrefix = "/api/v1"

// Services 路由依赖的业务服务
type Services struct {
	Tenants       *service.TenantService
	RentPayments  *service.RentPaymentService
	Maintenance   *service.MaintenanceService
	Documents     *service.DocumentService
	Communication *service.CommunicationService
	Dashboard     *service.DashboardService
}

// Options 中间件与附加路由配置
type Options struct {
	Auth           middleware.AuthConfig
	CORSOrigins    []string
	RateLimiter    *middleware.RateLimiter
	Metrics        *metrics.Metrics
	Readiness      map[string]ReadinessCheck
	MaxUploadBytes int64
	// Files 本地存储的文件访问（挂载在 /files/，无需鉴权）；为 nil 时不注册
	Files http.Handler
}

// Router 基于 gorilla/mux；全局中间件包在 mux 外层，CORS 预检不依赖路由匹配
type Router struct {
	router  *mux.Router
	handler http.Handler
	logger  *zap.Logger
}

func NewRouter(svc Services, opts Options, logger *zap.Logger) *Router {
	r := &Router{router: mux.NewRouter(), logger: logger}

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS(opts.CORSOrigins),
	}
	if opts.RateLimiter != nil {
		chain = append(chain, opts.RateLimiter.Limit)
	}
	r.handler = middleware.Chain(chain...)(r.router)

	// metrics 需要匹配后的路由模板，所以挂在 mux 上
	if opts.Metrics != nil {
		r.router.Use(metrics.Middleware(opts.Metrics))
	}

	health := NewHealthHandler(opts.Readiness, logger)
	r.router.HandleFunc("/health", health.Liveness).Methods(http.MethodGet)
	r.router.HandleFunc("/ready", health.Readiness).Methods(http.MethodGet)
	r.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	if opts.Files != nil {
		r.router.PathPrefix("/files/").Handler(http.StripPrefix("/files/", opts.Files)).Methods(http.MethodGet, http.MethodHead)
	}

	api := r.router.PathPrefix(apiPrefix).Subrouter()
	api.Use(middleware.Auth(opts.Auth, logger))
	r.registerTenantRoutes(api, NewTenantHandler(svc.Tenants))
	r.registerRentPaymentRoutes(api, NewRentPaymentHandler(svc.RentPayments))
	r.registerMaintenanceRoutes(api, NewMaintenanceHandler(svc.Maintenance))
	r.registerDocumentRoutes(api, NewDocumentHandler(svc.Documents, opts.MaxUploadBytes, logger))
	r.registerCommunicationRoutes(api, NewCommunicationHandler(svc.Communication))
	r.registerDashboardRoutes(api, NewDashboardHandler(svc.Dashboard))

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, QueryFail("Endpoint not found"))
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, QueryFail("Method not allowed"))
	})
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerTenantRoutes(api *mux.Router, h *TenantHandler) {
	api.HandleFunc("/tenants", h.List).Methods(http.MethodGet)
	api.HandleFunc("/tenants", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/tenants/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/tenants/{id}", h.Delete).Methods(http.MethodDelete)
}

func (r *Router) registerRentPaymentRoutes(api *mux.Router, h *RentPaymentHandler) {
	api.HandleFunc("/rent-payments", h.List).Methods(http.MethodGet)
	api.HandleFunc("/rent-payments", h.Create).Methods(http.MethodPost)
	// export 必须先于 {id} 注册
	api.HandleFunc("/rent-payments/export", h.Export).Methods(http.MethodGet)
	api.HandleFunc("/rent-payments/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/rent-payments/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/rent-payments/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/rent-payments/{id}/mark-paid", h.MarkPaid).Methods(http.MethodPost)
	api.HandleFunc("/rent-payments/{id}/reminder", h.Reminder).Methods(http.MethodPost)
}

func (r *Router) registerMaintenanceRoutes(api *mux.Router, h *MaintenanceHandler) {
	api.HandleFunc("/maintenance-requests", h.List).Methods(http.MethodGet)
	api.HandleFunc("/maintenance-requests", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/maintenance-requests/categorize", h.Categorize).Methods(http.MethodPost)
	api.HandleFunc("/maintenance-requests/suggest-vendors", h.SuggestVendors).Methods(http.MethodPost)
	api.HandleFunc("/maintenance-requests/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/maintenance-requests/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/maintenance-requests/{id}", h.Delete).Methods(http.MethodDelete)
}

func (r *Router) registerDocumentRoutes(api *mux.Router, h *DocumentHandler) {
	api.HandleFunc("/documents", h.List).Methods(http.MethodGet)
	api.HandleFunc("/documents", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/documents/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/documents/{id}/download", h.Download).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}/extract", h.Extract).Methods(http.MethodPost)
}

func (r *Router) registerCommunicationRoutes(api *mux.Router, h *CommunicationHandler) {
	api.HandleFunc("/communication-logs", h.List).Methods(http.MethodGet)
	api.HandleFunc("/communication-logs", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/communication-logs/{id}", h.Get).Methods(http.MethodGet)
	api.HandleFunc("/communication-logs/{id}", h.Update).Methods(http.MethodPut)
	api.HandleFunc("/communication-logs/{id}", h.Delete).Methods(http.MethodDelete)
}

func (r *Router) registerDashboardRoutes(api *mux.Router, h *DashboardHandler) {
	api.HandleFunc("/dashboard", h.Overview).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/stats", h.Stats).Methods(http.MethodGet)
}
