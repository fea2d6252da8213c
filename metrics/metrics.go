package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the application collectors.
type Metrics struct {
	// HTTP request totals by method, path and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and path.
	HTTPRequestDuration *prometheus.HistogramVec

	// Booking creation attempts by outcome
	// (created, conflict, validation, not_found, error).
	BookingsTotal *prometheus.CounterVec
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg; tests pass their own
// registry to avoid duplicate-registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking creation attempts",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
	)

	return m
}

var defaultMetrics *Metrics

// Init sets up the default instance; call once from main.
func Init() *Metrics {
	if defaultMetrics == nil {
		defaultMetrics = New()
	}
	return defaultMetrics
}

// Get returns the default instance, initializing it if needed.
func Get() *Metrics {
	return Init()
}
