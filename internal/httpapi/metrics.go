package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"smartderm/internal/pipeline"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartderm",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartderm",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smartderm",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)

	pipelineEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartderm",
			Subsystem: "pipeline",
			Name:      "events_total",
			Help:      "Model pipeline events (attempt, retry, fallback, success, abort, exhausted) by model",
		},
		[]string{"event", "model"},
	)

	supersededTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartderm",
			Subsystem: "http",
			Name:      "superseded_total",
			Help:      "Requests dropped because a newer one for the same screen started",
		},
		[]string{"screen"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, pipelineEventsTotal, supersededTotal)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus. The route pattern is
// read after routing so labels stay low-cardinality.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inflightPath := "other"
		if strings.HasPrefix(r.URL.Path, "/api/") {
			inflightPath = "/api"
		}
		httpInflight.WithLabelValues(inflightPath).Inc()
		defer httpInflight.WithLabelValues(inflightPath).Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		path := routePatternOrPath(r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// MetricsPublisher counts pipeline events in Prometheus.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(e pipeline.Event) {
	model := e.Model
	if model == "" {
		model = "none"
	}
	pipelineEventsTotal.WithLabelValues(e.Name, model).Inc()
}

// incSuperseded is called when a late completion is discarded.
func incSuperseded(screen string) { supersededTotal.WithLabelValues(screen).Inc() }

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
