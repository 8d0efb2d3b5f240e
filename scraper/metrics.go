package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for fetches and table processing.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ErrorsTotal     *prometheus.CounterVec
	RowsTotal       *prometheus.CounterVec
	DroppedTotal    *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starscraper_requests_total",
			Help: "Page fetches by outcome (fetched, cached).",
		},
		[]string{"outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starscraper_request_duration_seconds",
			Help:    "HTTP latency of page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starscraper_errors_total",
			Help: "Failed fetches by error type.",
		},
		[]string{"error_type"},
	)
	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starscraper_rows_total",
			Help: "Rows written per dataset.",
		},
		[]string{"dataset"},
	)
	dropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starscraper_rows_dropped_total",
			Help: "Rows removed by the cleaning pass, by reason.",
		},
		[]string{"reason"},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal, rows, dropped)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ErrorsTotal:     errorsTotal,
		RowsTotal:       rows,
		DroppedTotal:    dropped,
	}
}

// IncRequest increments the requests counter for an outcome.
func (m *Metrics) IncRequest(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(kind Kind) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(string(kind)).Inc()
}

// AddRows counts rows written for a dataset.
func (m *Metrics) AddRows(dataset string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsTotal.WithLabelValues(dataset).Add(float64(n))
}

// AddDropped counts rows removed for a reason.
func (m *Metrics) AddDropped(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DroppedTotal.WithLabelValues(reason).Add(float64(n))
}
