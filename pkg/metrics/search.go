package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SearchMetrics records fuzzy search activity.
type SearchMetrics struct {
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
	failures prometheus.Counter
}

// NewSearchMetrics registers the search metrics on the provided registerer.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	if reg == nil {
		return &SearchMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_duration_seconds",
		Help:    "Duration of fuzzy listing searches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scorer"})
	results := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_results",
		Help:    "Number of listings returned per search.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_failures_total",
		Help: "Searches that failed because the listing store was unavailable.",
	})
	reg.MustRegister(duration, results, failures)
	return &SearchMetrics{
		duration: duration,
		results:  results,
		failures: failures,
	}
}

// ObserveSearch records a completed search.
func (s *SearchMetrics) ObserveSearch(scorer string, elapsed time.Duration, results int) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(scorer)).Observe(elapsed.Seconds())
	s.results.Observe(float64(results))
}

// IncFailure counts a failed search.
func (s *SearchMetrics) IncFailure() {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.Inc()
}

// Failures exposes the failure counter.
func (s *SearchMetrics) Failures() prometheus.Counter {
	if s == nil {
		return nil
	}
	return s.failures
}
