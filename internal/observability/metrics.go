// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizsite_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache-aside lookups by outcome (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizsite_cache_lookups_total",
		Help: "Cache-aside lookups by outcome",
	}, []string{"outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizsite_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// LoginAttempts counts authentication attempts by method and result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizsite_login_attempts_total",
		Help: "Login attempts by method (password, github, google) and result",
	}, []string{"method", "result"})

	// LicenseActivations counts public activation calls by result.
	LicenseActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizsite_license_activations_total",
		Help: "License activation attempts by result",
	}, []string{"result"})

	// ContactSubmissions counts accepted contact form messages.
	ContactSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizsite_contact_submissions_total",
		Help: "Accepted contact form submissions",
	})

	// RequestFeedClients is the number of connected admin live-feed sockets.
	RequestFeedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bizsite_request_feed_clients",
		Help: "Connected admin request feed WebSocket clients",
	})
)

const queryStartKey = "observability:query_start"

// RegisterQueryMetrics installs GORM callbacks that observe query latency.
func RegisterQueryMetrics(db *gorm.DB) error {
	cb := db.Callback()
	start := func(tx *gorm.DB) { tx.InstanceSet(queryStartKey, time.Now()) }
	finish := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			began, ok := v.(time.Time)
			if !ok {
				return
			}
			DatabaseQueryLatency.WithLabelValues(op, tx.Statement.Table).Observe(time.Since(began).Seconds())
		}
	}

	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", start); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", finish("create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", start); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", finish("query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", start); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", finish("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", start); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("metrics:after_delete", finish("delete"))
}
