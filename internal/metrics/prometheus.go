// Package metrics provides Prometheus metrics for the UnitHub API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	aiCallsTotal     *prometheus.CounterVec
	aiCallDuration   *prometheus.HistogramVec
	storageOpsTotal  *prometheus.CounterVec
}

var (
	globalMetrics *Metrics
	once          sync.Once
)

// NewMetrics creates and registers Prometheus metrics once per process.
func NewMetrics() *Metrics {
	once.Do(func() {
		globalMetrics = &Metrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "unithub_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			requestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "unithub_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
				},
				[]string{"method", "route"},
			),
			requestsInFlight: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "unithub_http_requests_in_flight",
					Help: "Number of HTTP requests currently being processed",
				},
			),
			aiCallsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "unithub_ai_calls_total",
					Help: "Total number of text-generation calls by operation and outcome",
				},
				[]string{"operation", "outcome"},
			),
			aiCallDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "unithub_ai_call_duration_seconds",
					Help:    "Text-generation call duration in seconds",
					Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
				},
				[]string{"operation"},
			),
			storageOpsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "unithub_storage_operations_total",
					Help: "Total number of object storage operations",
				},
				[]string{"operation", "outcome"},
			),
		}
	})
	return globalMetrics
}

// RecordHTTPRequest records metrics for an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAICall outcome: ok | cached | error
func (m *Metrics) RecordAICall(operation, outcome string, duration time.Duration) {
	m.aiCallsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != "cached" {
		m.aiCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

func (m *Metrics) RecordStorageOp(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.storageOpsTotal.WithLabelValues(operation, outcome).Inc()
}

// Handler 暴露 /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records HTTP metrics labelled by the matched route template,
// keeping ids out of label values.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.requestsInFlight.Inc()
			defer m.requestsInFlight.Dec()

			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.RecordHTTPRequest(r.Method, routeTemplate(r), rw.statusCode, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
