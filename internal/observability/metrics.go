package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the portal's Prometheus metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	renderedTotal   *prometheus.CounterVec
	renderFailures  *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
}

// NewMetrics initialises the registry with HTTP and document metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "HTTP requests by route and status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	rendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_documents_rendered_total",
		Help: "Documents rendered by kind and output format.",
	}, []string{"kind", "format"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_document_render_failures_total",
		Help: "Document renders that returned an error.",
	}, []string{"kind", "format"})
	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portal_document_render_seconds",
		Help:    "Time spent rendering a document.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"kind"})
	registry.MustRegister(requests, duration, rendered, failures, renderDuration)
	// Pre-create the series so dashboards see zeroes before the first render.
	for _, kind := range []string{"purchase_order", "sor", "stock"} {
		renderDuration.WithLabelValues(kind)
	}
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		renderedTotal:   rendered,
		renderFailures:  failures,
		renderDuration:  renderDuration,
	}
}

// Handler returns the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records route and status for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRender records one document render. kind is purchase_order, sor or
// stock; format is pdf, html or xlsx.
func (m *Metrics) ObserveRender(kind, format string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.renderFailures.WithLabelValues(kind, format).Inc()
		return
	}
	m.renderedTotal.WithLabelValues(kind, format).Inc()
	m.renderDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Registerer exposes the registry for custom collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
