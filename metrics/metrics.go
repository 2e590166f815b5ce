package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects backend call metrics on its own registry.
type Recorder struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "retaildash",
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Total number of calls made to the inventory backend.",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "retaildash",
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Duration of calls made to the inventory backend.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "retaildash",
				Name:      "active_dashboards",
				Help:      "Number of dashboards currently held in memory.",
			},
		),
	}
	r.registry.MustRegister(r.requestsTotal, r.requestDuration, r.activeSessions)
	return r
}

// ObserveBackendCall records one backend call. outcome is "ok" or "error".
func (r *Recorder) ObserveBackendCall(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SetActiveDashboards updates the dashboard gauge.
func (r *Recorder) SetActiveDashboards(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
