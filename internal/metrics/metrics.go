package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "request_transitions_total",
			Help: "Workflow operations on leave and overtime requests by outcome",
		},
		[]string{"action", "outcome"},
	)

	notificationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "request_notification_failures_total",
			Help: "Decision notifications that could not be enqueued",
		},
	)

	outboxPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events relayed to kafka by result",
		},
		[]string{"result"},
	)

	outboxBacklog = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "outbox_events",
			Help: "Outbox rows by delivery status",
		},
		[]string{"status"},
	)

	databaseConnectionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_open",
			Help: "Number of open database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequestsTotal,
		httpRequestDuration,
		transitionsTotal,
		notificationFailuresTotal,
		outboxPublishedTotal,
		outboxBacklog,
		databaseConnectionsOpen,
		databaseConnectionsIdle,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func Registry() *prometheus.Registry {
	return registry
}

func RecordHTTPRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// Transitions exposes the workflow counter for assertions.
func Transitions() *prometheus.CounterVec {
	return transitionsTotal
}

func RecordTransition(action, outcome string) {
	transitionsTotal.WithLabelValues(action, outcome).Inc()
}

func RecordNotificationFailure() {
	notificationFailuresTotal.Inc()
}

func RecordOutboxPublish(result string) {
	outboxPublishedTotal.WithLabelValues(result).Inc()
}

func SetOutboxBacklog(counts map[string]int64) {
	for status, n := range counts {
		outboxBacklog.WithLabelValues(status).Set(float64(n))
	}
}

// OutboxBacklog exposes the backlog gauge for assertions.
func OutboxBacklog() *prometheus.GaugeVec {
	return outboxBacklog
}

func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsOpen.Set(float64(stats.OpenConnections))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	return nil
}
