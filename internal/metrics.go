package internal

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheMetrics receives cache lifecycle events.
type CacheMetrics interface {
	Hit(cache string)
	Miss(cache string)
	Invalidated()
}

// DurationObserver records how long a wrapped operation took.
type DurationObserver interface {
	ObserveDuration(op string, d time.Duration, err error)
}

// NoopMetrics drops every event.
type NoopMetrics struct{}

func (NoopMetrics) Hit(string) {}
func (NoopMetrics) Miss(string) {}
func (NoopMetrics) Invalidated() {}
func (NoopMetrics) ObserveDuration(string, time.Duration, error) {}

// Metrics is the Prometheus implementation of CacheMetrics and DurationObserver.
type Metrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	invalidations prometheus.Counter
	duration      *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sagectl",
			Name:      "cache_hits_total",
			Help:      "Cache lookups answered from a valid entry.",
		}, []string{"cache"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sagectl",
			Name:      "cache_misses_total",
			Help:      "Cache lookups that had to load.",
		}, []string{"cache"}),
		invalidations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "sagectl",
			Name:      "cache_invalidations_total",
			Help:      "Explicit reloads that cleared every cache entry.",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sagectl",
			Name:      "operation_duration_seconds",
			Help:      "Duration of fetch and transform operations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"op", "status"}),
	}
}

func (m *Metrics) Hit(cache string) { m.hits.WithLabelValues(cache).Inc() }
func (m *Metrics) Miss(cache string) { m.misses.WithLabelValues(cache).Inc() }
func (m *Metrics) Invalidated() { m.invalidations.Inc() }

func (m *Metrics) ObserveDuration(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.duration.WithLabelValues(op, status).Observe(d.Seconds())
}
