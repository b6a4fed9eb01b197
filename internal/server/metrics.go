package server

import (
	"net/http"
	"time"

	"github.com/aleister1102/docdiff/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "docdiff"

// OutcomeSuccess labels comparisons that returned a result
const OutcomeSuccess = "success"

// Metrics holds the comparison collectors on a private registry so several
// servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	segments *prometheus.HistogramVec
}

// NewMetrics creates and registers the comparison collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "comparisons_total",
			Help:      "Comparison requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "compare_duration_seconds",
			Help:      "Wall time of comparison requests, extraction included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"endpoint"}),
		segments: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "compare_segments",
			Help:      "Edit-script segments per successful comparison.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}, []string{"unit"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.segments,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveComparison records one finished comparison request. outcome is
// OutcomeSuccess or an error category.
func (m *Metrics) ObserveComparison(endpoint, outcome string, started time.Time, result *models.ComparisonResult) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
	if result != nil {
		m.segments.WithLabelValues(string(result.Summary.Unit)).Observe(float64(result.Summary.TotalParts))
	}
}
