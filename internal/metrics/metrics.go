// Package metrics defines the Prometheus instrumentation for uidex.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain metrics, incremented by the search facade and the embedding layer.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uidex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "uidex",
			Name:      "search_duration_seconds",
			Help:      "Search latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uidex",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding backend requests",
		},
		[]string{"provider", "status"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "uidex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by result",
		},
		[]string{"result"}, // "hit" / "miss" / "remote_hit"
	)
)

var registered bool

// Register registers the domain metrics with the default registry. Called
// once from the composition root; commands that never serve /metrics skip
// it and the collectors stay inert.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	registered = true
}
