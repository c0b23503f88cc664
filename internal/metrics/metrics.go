// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WordPress Upstream Metrics
	WordPressRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordpress_requests_total",
			Help: "Total number of WordPress REST API requests",
		},
		[]string{"endpoint", "result"}, // result: "success", "error", "not_found", "rate_limited"
	)

	WordPressRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordpress_request_duration_seconds",
			Help:    "WordPress REST API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	WordPressStaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordpress_stale_served_total",
			Help: "Total number of responses served from the snapshot store after an upstream failure",
		},
		[]string{"endpoint"},
	)

	// Feed Session Metrics
	FeedSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_sessions_active",
			Help: "Current number of live feed sessions",
		},
	)

	FeedSessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_sessions_expired_total",
			Help: "Total number of feed sessions removed for idleness or capacity",
		},
	)

	FeedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of page fetches issued by feed controllers",
		},
		[]string{"kind", "result"}, // kind: "initial", "more"; result: "success", "empty", "failure"
	)

	FeedStaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_stale_results_total",
			Help: "Total number of fetch results discarded because a newer filter superseded them",
		},
	)

	FeedTriggersIgnored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_triggers_ignored_total",
			Help: "Total number of pagination triggers dropped by the re-entrancy guard",
		},
		[]string{"state"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "posts", "post", "categories"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	// Snapshot Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"operation", "result"},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Total number of value log GC runs",
		},
		[]string{"result"}, // "ok", "error"
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordWordPressRequest records one upstream call.
func RecordWordPressRequest(endpoint, result string, duration time.Duration) {
	WordPressRequests.WithLabelValues(endpoint, result).Inc()
	WordPressRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordStaleServed records a stale-if-error response.
func RecordStaleServed(endpoint string) {
	WordPressStaleServed.WithLabelValues(endpoint).Inc()
}

// RecordFeedFetch records the outcome of a feed page fetch.
func RecordFeedFetch(kind, result string) {
	FeedFetches.WithLabelValues(kind, result).Inc()
}

// RecordFeedStaleResult records a discarded fetch result.
func RecordFeedStaleResult() {
	FeedStaleResults.Inc()
}

// RecordFeedTriggerIgnored records a dropped pagination trigger.
func RecordFeedTriggerIgnored(state string) {
	FeedTriggersIgnored.WithLabelValues(state).Inc()
}

// SetFeedSessions sets the live session gauge.
func SetFeedSessions(n int) {
	FeedSessionsActive.Set(float64(n))
}

// RecordFeedSessionsExpired adds n expired sessions.
func RecordFeedSessionsExpired(n int) {
	if n > 0 {
		FeedSessionsExpired.Add(float64(n))
	}
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordStoreOperation records a snapshot store operation.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}
