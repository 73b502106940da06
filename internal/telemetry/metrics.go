package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	QuotesGenerated *prometheus.HistogramVec
}

// NewMetrics creates metrics registered on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates metrics registered on the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartship_requests_total",
				Help: "Total number of requests by operation, provider, and status",
			},
			[]string{"operation", "provider", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartship_request_duration_seconds",
				Help:    "Request duration in seconds by operation and provider",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "provider"},
		),
		ProviderErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartship_provider_errors_total",
				Help: "Total provider API errors by provider and error kind",
			},
			[]string{"provider", "error_kind"},
		),
		QuotesGenerated: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartship_quotes_per_request",
				Help:    "Number of quotes returned per quote request",
				Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
			},
			[]string{"source"},
		),
	}
}

// RecordRequest records a request metric.
func (m *Metrics) RecordRequest(operation, provider, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(operation, provider, status).Inc()
	m.RequestDuration.WithLabelValues(operation, provider).Observe(duration)
}

// RecordError records a provider error metric.
func (m *Metrics) RecordError(provider, errorKind string) {
	m.ProviderErrors.WithLabelValues(provider, errorKind).Inc()
}

// RecordQuotes records how many quotes a request produced. Source is
// "ratecard" for the internal calculator or "live" for provider rates.
func (m *Metrics) RecordQuotes(source string, count int) {
	m.QuotesGenerated.WithLabelValues(source).Observe(float64(count))
}
