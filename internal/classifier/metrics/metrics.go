package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the classification gateway.
type Metrics struct {
	Attempts  *prometheus.CounterVec
	Fallbacks *prometheus.CounterVec
	CacheHits prometheus.Counter
	Latency   *prometheus.HistogramVec
}

// New creates and registers all classifier metrics.
func New() *Metrics {
	return &Metrics{
		Attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinela_classifier_attempts_total",
			Help: "Provider call attempts by operation and outcome",
		}, []string{"op", "outcome"}),
		Fallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinela_classifier_fallbacks_total",
			Help: "Offline fallback activations by operation",
		}, []string{"op"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentinela_classifier_cache_hits_total",
			Help: "Classification served from the Redis cache",
		}),
		Latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinela_classifier_latency_seconds",
			Help:    "Provider call latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
}

func (m *Metrics) RecordAttempt(op, outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) RecordFallback(op string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) ObserveLatency(op string, seconds float64) {
	if m == nil {
		return
	}
	m.Latency.WithLabelValues(op).Observe(seconds)
}
