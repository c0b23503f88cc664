// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto at
package init, so importing the package is enough to expose them on /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

Upstream Metrics:
  - wordpress_requests_total: WordPress REST calls (counter)
    Labels: endpoint, result
  - wordpress_request_duration_seconds: WordPress latency (histogram)
    Labels: endpoint
  - wordpress_stale_served_total: Responses served from the snapshot store
    because the upstream failed (counter)
    Labels: endpoint

Feed Metrics:
  - feed_sessions_active: Live feed sessions (gauge)
  - feed_sessions_expired_total: Sessions removed by the sweeper (counter)
  - feed_fetches_total: Page fetches issued by feed controllers (counter)
    Labels: kind (initial, more), result (success, empty, failure)
  - feed_stale_results_total: Fetch results discarded because the filter
    changed while they were in flight (counter)
  - feed_triggers_ignored_total: Pagination triggers dropped by the guard (counter)
    Labels: state

Cache Metrics:
  - cache_hits_total / cache_misses_total (counter)
    Labels: cache_type (posts, post, categories)
  - cache_entries (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Snapshot Store Metrics:
  - store_operations_total: Labels: operation, result
  - store_gc_runs_total: Labels: result (rewritten, nothing, error)

WebSocket Metrics:
  - websocket_connections (gauge)
  - websocket_messages_sent_total / websocket_messages_received_total (counter)
  - websocket_errors_total: Labels: error_type

# Usage

	start := time.Now()
	// ... handle request
	metrics.RecordAPIRequest("GET", "/api/v1/posts", "200", time.Since(start))

	metrics.RecordFeedFetch("more", "success")
*/
package metrics
