package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "techhive_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EngagementEventsTotal counts engagement writes by kind and outcome.
	EngagementEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techhive_engagement_events_total",
		Help: "Total number of engagement ledger writes (votes, likes)",
	}, []string{"kind", "outcome"})

	// ReportsResolvedTotal counts reports resolved through moderation actions.
	ReportsResolvedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "techhive_reports_resolved_total",
		Help: "Total number of comment reports resolved by moderators",
	})

	// ProfileFanoutPostsUpdated counts posts rewritten by profile sync fan-outs.
	ProfileFanoutPostsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "techhive_profile_fanout_posts_updated_total",
		Help: "Total number of posts whose author snapshots were refreshed by a profile sync",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techhive_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "techhive_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
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

// RecordEngagementEvent increments the engagement counter for the kind and outcome.
func RecordEngagementEvent(kind, outcome string) {
	EngagementEventsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordWebSocketEvent increments the WebSocket events counter for the event type.
func RecordWebSocketEvent(eventType string) {
	WebSocketEventsTotal.WithLabelValues(eventType).Inc()
}
