// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

// Package main serves the Pressfeed HTTP API.
//
// @title Pressfeed API
// @version 1.0
// @description News feed service in front of a WordPress REST API.
// @description
// @description ## Features
// @description
// @description - **Post listings**: paged WordPress posts with category filtering, cached for 60s
// @description - **Related posts**: articles ranked by shared tags (weight 2) and categories (weight 1)
// @description - **Feed sessions**: server-held infinite scroll driven over HTTP or WebSocket
// @description - **Stale-if-error**: last known good responses are served while WordPress is down
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Session creation and WebSocket upgrades are limited to 30 per minute.
// @description
// @description ## Caching
// @description
// @description Listings carry `Cache-Control: public, max-age=N` and a weak `ETag`; send
// @description `If-None-Match` to receive 304. Errors and feed sessions are `no-store`.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {},
// @description     "request_id": "..."
// @description   },
// @description   "meta": {
// @description     "timestamp": "2026-03-14T09:30:00Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/pressfeed/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health, liveness and readiness endpoints
//
// @tag.name Posts
// @tag.description WordPress posts, articles with related posts, and categories
//
// @tag.name Feeds
// @tag.description Infinite-scroll feed sessions: create, paginate, filter, delete
//
// @tag.name Realtime
// @tag.description WebSocket stream of feed session state
package main
