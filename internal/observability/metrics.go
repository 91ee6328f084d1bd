// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts outbound music-provider API calls by endpoint and outcome.
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonality_provider_requests_total",
		Help: "Total number of music provider API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// TokenCacheHits counts access-token broker cache hits and misses.
	TokenCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonality_token_cache_total",
		Help: "Access token cache lookups by result (hit, miss, refresh_failed)",
	}, []string{"result"})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonality_redis_error_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tonality_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PollVotes counts votes cast by kind (new or switched).
	PollVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tonality_poll_votes_total",
		Help: "Total number of poll votes cast by kind",
	}, []string{"kind"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
