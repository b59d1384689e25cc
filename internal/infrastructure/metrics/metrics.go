package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics owns the process-wide request counters. The registry lives here and
// is injected from the composition root instead of being referenced as an
// ambient global.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	ErrorsTotal     prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fileflux",
				Subsystem: "manager",
				Name:      "http_request_total",
				Help:      "Total HTTP Requests",
			},
			[]string{"method", "endpoint"},
		),
		ErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fileflux",
				Subsystem: "manager",
				Name:      "http_error_total",
				Help:      "Total HTTP Errors",
			},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fileflux",
				Subsystem: "manager",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "endpoint"},
		),
	}
}

// RecordRequest counts a request before its handler runs.
func (m *Metrics) RecordRequest(method, endpoint string) {
	m.RequestsTotal.WithLabelValues(method, endpoint).Inc()
}

// RecordResponse counts errors and observes latency after the handler ran.
func (m *Metrics) RecordResponse(method, endpoint string, status int, durationSec float64) {
	if status >= 400 && status < 600 {
		m.ErrorsTotal.Inc()
	}
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}
