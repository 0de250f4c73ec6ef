package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Metrics bundles the Prometheus instruments used across the
// application. One instance is created at startup and shared.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AnalysesTotal     *prometheus.CounterVec
	RowsNormalized    prometheus.Counter
	BatchSourcesTotal prometheus.Counter
}

// NewMetrics creates the registry and registers all instruments plus
// the standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "costpulse_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "costpulse_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "costpulse_analyses_total",
			Help: "Completed analyses by outcome",
		}, []string{"outcome"}),
		RowsNormalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "costpulse_rows_normalized_total",
			Help: "Raw rows pushed through normalization",
		}),
		BatchSourcesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "costpulse_batch_sources_total",
			Help: "Sources processed by batch analysis",
		}),
	}
}

// ObserveAnalysis counts one finished analysis by outcome
// ("success" or "error").
func (m *Metrics) ObserveAnalysis(outcome string) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
}

// AddRowsNormalized counts raw rows handed to the normalizer.
func (m *Metrics) AddRowsNormalized(n int) {
	m.RowsNormalized.Add(float64(n))
}

// AddBatchSources counts sources submitted for batch analysis.
func (m *Metrics) AddBatchSources(n int) {
	m.BatchSourcesTotal.Add(float64(n))
}

// Handler returns the /metrics scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware instruments requests with the counter and latency
// histogram. Route patterns are not available here, so the raw path
// is recorded; mount this inside chi so patterns stay low-cardinality.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		m.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
