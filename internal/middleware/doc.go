// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package middleware provides chi-compatible HTTP middleware for request
instrumentation.

Components:

  - PrometheusMetrics: request count, latency histogram and in-flight gauge,
    labelled by chi route pattern
  - AccessLog: one zerolog line per request, level chosen by status class

Both wrap the ResponseWriter with chi's WrapResponseWriter, which preserves
http.Hijacker so websocket upgrades pass through untouched.

Usage:

	r := chi.NewRouter()
	r.Use(api.RequestIDWithLogging())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog("/metrics", "/api/v1/health/live"))

The request ID middleware must run first so AccessLog lines carry the
request_id field from the logging context.
*/
package middleware
