package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	evidenceSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidence_source_failures_total",
			Help: "Total number of failed evidence source fetches",
		},
		[]string{"source"},
	)

	evidenceSourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evidence_source_duration_seconds",
			Help:    "Duration of evidence source fetches in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	textGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "text_generation_total",
			Help: "Total number of text generation calls",
		},
		[]string{"provider", "task", "outcome"},
	)

	textGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "text_generation_duration_seconds",
			Help:    "Duration of text generation calls in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "task"},
	)

	crmUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_updates_total",
			Help: "Total number of CRM update attempts by result status",
		},
		[]string{"status"},
	)

	followUpsDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "followups_due",
			Help: "Leads whose next follow-up is today or earlier",
		},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps label cardinality bounded: /leads/{id} instead of
// one series per lead.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func RecordSourceFailure(source string, _ error) {
	evidenceSourceFailures.WithLabelValues(source).Inc()
}

func ObserveSourceDuration(source string, took time.Duration) {
	evidenceSourceDuration.WithLabelValues(source).Observe(took.Seconds())
}

func RecordGeneration(provider, task, outcome string, took time.Duration) {
	textGenerations.WithLabelValues(provider, task, outcome).Inc()
	textGenerationDuration.WithLabelValues(provider, task).Observe(took.Seconds())
}

func RecordCrmUpdate(status string) {
	crmUpdates.WithLabelValues(status).Inc()
}

func SetFollowUpsDue(n int) {
	followUpsDue.Set(float64(n))
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
