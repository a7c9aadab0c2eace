package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for registry client operations.
type Metrics struct {
	LookupRetries  prometheus.Counter
	LookupDuration prometheus.Histogram
	AppendConflict prometheus.Counter
}

// New creates and registers all registry metrics.
func New() *Metrics {
	return &Metrics{
		LookupRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veridoc_registry_lookup_retries_total",
			Help: "Total number of registry lookup attempts retried after an unavailable error",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veridoc_registry_lookup_duration_ms",
			Help:    "Latency of registry lookups in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		AppendConflict: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veridoc_registry_append_conflicts_total",
			Help: "Total number of appends rejected because the fingerprint already had a record",
		}),
	}
}

// ObserveLookup records one lookup latency sample.
func (m *Metrics) ObserveLookup(d time.Duration) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(float64(d.Microseconds()) / 1000.0)
}

// IncrementRetries counts one retried lookup attempt.
func (m *Metrics) IncrementRetries() {
	if m == nil {
		return
	}
	m.LookupRetries.Inc()
}

// IncrementAppendConflict counts one rejected duplicate append.
func (m *Metrics) IncrementAppendConflict() {
	if m == nil {
		return
	}
	m.AppendConflict.Inc()
}
