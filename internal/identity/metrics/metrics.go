package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for identity resolution.
type Metrics struct {
	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	ResolutionFailures *prometheus.CounterVec
}

// New creates and registers all identity resolution metrics.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_enrichment_cache_hits_total",
			Help: "Identity lookups answered from the scope cache",
		}, []string{"kind"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_enrichment_cache_misses_total",
			Help: "Identity lookups that issued a directory call",
		}, []string{"kind"}),
		ResolutionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veridoc_identity_resolution_duration_ms",
			Help:    "Latency of directory resolutions in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"kind"}),
		ResolutionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veridoc_identity_resolution_failures_total",
			Help: "Directory resolutions that ended in an error",
		}, []string{"kind"}),
	}
}

// RecordHit counts a cache hit for the kind.
func (m *Metrics) RecordHit(kind string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(kind).Inc()
}

// RecordMiss counts a cache miss for the kind.
func (m *Metrics) RecordMiss(kind string) {
	if m == nil {
		return
	}
	m.CacheMisses.WithLabelValues(kind).Inc()
}

// ObserveResolution records one directory call's latency and outcome.
func (m *Metrics) ObserveResolution(kind string, d time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.ResolutionDuration.WithLabelValues(kind).Observe(float64(d.Microseconds()) / 1000.0)
	if failed {
		m.ResolutionFailures.WithLabelValues(kind).Inc()
	}
}
