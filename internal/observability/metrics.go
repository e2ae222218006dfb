package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rethinkclub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rethinkclub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionsTotal counts reaction toggles by resulting action.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rethinkclub_reactions_total",
		Help: "Total number of reaction toggles by resulting action",
	}, []string{"action"})

	// FeedRequestsTotal counts feed page requests by annotation outcome.
	FeedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rethinkclub_feed_requests_total",
		Help: "Total number of feed page requests",
	}, []string{"annotated"})

	// AIRequestsTotal counts AI requests by mode and outcome (upstream or fallback).
	AIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rethinkclub_ai_requests_total",
		Help: "Total number of AI requests by mode and outcome",
	}, []string{"mode", "outcome"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
