package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/routekit/core/pipeline"
	"github.com/dmitrymomot/routekit/core/response"
	"github.com/dmitrymomot/routekit/core/state"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Registry receives the collectors (default: a new registry).
	Registry  *prometheus.Registry
	Namespace string
	Subsystem string
	// Buckets of the duration histogram (default: prometheus.DefBuckets).
	Buckets []float64
	Skip    Skipper
}

// Metrics holds per-route HTTP collectors. Routes are labelled by pattern,
// never by raw path, so label cardinality stays bounded.
type Metrics struct {
	registry *prometheus.Registry
	skip     Skipper

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMetrics registers the collectors. Registering twice on one registry panics.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "routekit"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "http"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)
	return &Metrics{
		registry: cfg.Registry,
		skip:     cfg.Skip,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of dispatched requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of dispatched requests in seconds",
				Buckets:   cfg.Buckets,
			},
			[]string{"method", "route"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being dispatched",
			},
		),
	}
}

// Requests returns the request counter.
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

// Duration returns the duration histogram.
func (m *Metrics) Duration() *prometheus.HistogramVec { return m.duration }

// InFlight returns the in-flight gauge.
func (m *Metrics) InFlight() prometheus.Gauge { return m.inFlight }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records every request passing through the pipeline.
func (m *Metrics) Middleware() pipeline.NewMiddleware {
	return pipeline.MiddlewareFunc(func(s *state.State, r *http.Request, next pipeline.Next) (*response.Response, error) {
		if m.skip.skip(s, r) {
			return next(s, r)
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		resp, err := next(s, r)

		status := dispatchStatus(resp, err)
		route := routeLabel(s)
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		return resp, err
	})
}
