// Package metrics provides observability for prerequisite resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the prerequisite resolver. All methods are nil-safe
// so wiring metrics stays optional in tests.
type Metrics struct {
	// Resolution outcomes: satisfied, requires_external, lookup_failed.
	Resolutions *prometheus.CounterVec

	// Lookup latency across the applications collaborator.
	LookupLatency prometheus.Histogram
}

// New registers and returns the resolver metrics.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "licentia_prereq_resolutions_total",
			Help: "Total prerequisite resolutions by outcome and category",
		}, []string{"outcome", "category"}),

		LookupLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "licentia_prereq_lookup_duration_seconds",
			Help:    "Duration of applications-by-person lookups",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementResolution records a resolution outcome.
func (m *Metrics) IncrementResolution(outcome, category string) {
	if m != nil {
		m.Resolutions.WithLabelValues(outcome, category).Inc()
	}
}

// ObserveLookupLatency records one collaborator round trip.
func (m *Metrics) ObserveLookupLatency(d time.Duration) {
	if m != nil {
		m.LookupLatency.Observe(d.Seconds())
	}
}
