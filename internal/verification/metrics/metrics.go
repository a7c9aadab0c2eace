package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the verifications counter.
const (
	OutcomeAuthentic           = "authentic"
	OutcomeNoRecord            = "no_record"
	OutcomeRegistryUnavailable = "registry_unavailable"
	OutcomeUnreadable          = "unreadable"
)

// Metrics holds Prometheus metrics for the verification orchestrator.
type Metrics struct {
	Verifications  *prometheus.CounterVec
	VerifyDuration prometheus.Histogram
}

// New creates and registers all verification metrics.
func New() *Metrics {
	return &Metrics{
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_verifications_total",
			Help: "Total verification calls by outcome",
		}, []string{"outcome"}),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_verify_duration_ms",
			Help:    "End-to-end latency of verify calls in milliseconds",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

// RecordVerification counts one verify call and its latency.
func (m *Metrics) RecordVerification(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
	m.VerifyDuration.Observe(float64(d.Microseconds()) / 1000.0)
}
