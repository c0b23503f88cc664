// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package api provides the HTTP surface of Pressfeed.

Routes are mounted on a Chi router (see Router.Setup):

	GET    /api/v1/health[/live|/ready]   liveness, readiness, dependency status
	GET    /api/v1/posts                  paged post listing (?page, ?per_page, ?category)
	GET    /api/v1/posts/{slug}           one post with its related posts (?limit, ?debug=scores)
	GET    /api/v1/categories             category list
	POST   /api/v1/feeds                  open a feed session ({"category_id": 3} optional)
	GET    /api/v1/feeds/{id}             session state
	POST   /api/v1/feeds/{id}/more        load the next page (?wait=true blocks until applied)
	PUT    /api/v1/feeds/{id}/filter      change the category filter
	DELETE /api/v1/feeds/{id}             close the session
	GET    /api/v1/feeds/{id}/ws          WebSocket stream of session state
	GET    /metrics                       Prometheus exposition

Every JSON response uses the APIResponse envelope. Listing and category
responses are cacheable: they carry Cache-Control and a weak ETag, and a
matching If-None-Match is answered with 304. Everything else is no-store.

WordPress failures map to status codes in respondUpstreamError: 404 for a
missing post, 503 while the circuit breaker is open or WordPress throttles,
504 on timeout and 502 otherwise.
*/
package api
