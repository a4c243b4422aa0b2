package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics the background workers report.
// HTTP metrics live in the adapter middleware.
type Metrics struct {
	// Payment metrics
	PaymentAttempts *prometheus.CounterVec
	PaymentRetries  prometheus.Counter
	PaymentDuration prometheus.Histogram

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	OutboxBacklog   prometheus.Gauge

	// Rate metrics
	RatesRecorded  *prometheus.CounterVec
	StaleCorridors prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PaymentAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_payment_attempts_total",
				Help: "Total payment charge attempts by outcome",
			},
			[]string{"outcome"},
		),
		PaymentRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "remit_payment_retries_total",
			Help: "Total payment charge retries",
		}),
		PaymentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "remit_payment_duration_seconds",
			Help:    "Duration of payment charge attempts",
			Buckets: prometheus.DefBuckets,
		}),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "remit_outbox_backlog",
			Help: "Unpublished outbox events at last poll",
		}),

		RatesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remit_rates_recorded_total",
				Help: "Total rate samples recorded by source",
			},
			[]string{"source"},
		),
		StaleCorridors: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "remit_stale_corridors",
			Help: "Number of corridors with a stale rate feed",
		}),
	}
}
