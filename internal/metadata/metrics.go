package metadata

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the cache counters.
type Metrics struct {
	ExternalCalls *prometheus.CounterVec
	CacheHits     *prometheus.CounterVec
}

// NewMetrics creates the cache counters and registers them with reg when it
// is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExternalCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hpcgate",
				Subsystem: "metadata",
				Name:      "external_calls_total",
				Help:      "Total number of collaborator calls by query kind, including retries",
			},
			[]string{"kind"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hpcgate",
				Subsystem: "metadata",
				Name:      "cache_hits_total",
				Help:      "Total number of lookups answered from the cache or a coalesced call",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ExternalCalls, m.CacheHits)
	}
	return m
}
