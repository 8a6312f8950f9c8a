package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

const (
	ResultSuccess       = "success"
	ResultProviderError = "provider_error"
	ResultBuildError    = "build_error"
)

// Metrics holds the collectors for the refresh loop and the request channel.
type Metrics struct {
	RefreshTotal        *prometheus.CounterVec
	RefreshDuration     prometheus.Histogram
	RatesUpdatedSeconds prometheus.Gauge

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_rates_refresh_total",
				Help: "Number of rate refresh cycles by result",
			},
			[]string{"result"},
		),

		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "currency_rates_refresh_duration_seconds",
				Help:    "Duration of a refresh cycle including the provider call",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),

		RatesUpdatedSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "currency_rates_updated_timestamp_seconds",
				Help: "Unix time of the currently published rate snapshot",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "currency_requests_total",
				Help: "Number of handled requests by action and status",
			},
			[]string{"action", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "currency_request_duration_seconds",
				Help:    "Request handling time",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"action"},
		),
	}
}

func (m *Metrics) RecordRefresh(result string, duration time.Duration) {
	m.RefreshTotal.WithLabelValues(result).Inc()
	m.RefreshDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordPublished(updatedAt time.Time) {
	m.RatesUpdatedSeconds.Set(float64(updatedAt.Unix()))
}

func (m *Metrics) RecordRequest(action, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(action, status).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(duration.Seconds())
}
