// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package main is the entry point for the Pressfeed server.

Pressfeed fronts a WordPress site's REST API with a paged news feed, related
post recommendations and live feed sessions that clients can drive over HTTP
or a WebSocket.

# Application Architecture

	RootSupervisor ("pressfeed")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (BadgerDB value log)
	├── FeedSupervisor ("feed-layer")
	│   ├── Feed session sweeper
	│   └── WebSocket hub
	└── APISupervisor ("api-layer")
	    └── HTTP server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog, JSON or console
 3. Snapshot store: BadgerDB, in memory when STORE_PATH is empty
 4. WordPress client chain: rate-limited HTTP client, circuit breaker,
    in-memory cache with stale-if-error fallback to the snapshot store
 5. Feed session registry and WebSocket hub
 6. HTTP handlers and router
 7. Supervisor tree

# Configuration

	WORDPRESS_URL=https://www.duplos.cl   # site to front
	WORDPRESS_PAGE_SIZE=10                # posts per feed page
	FEED_RELATED_LIMIT=3                  # related posts per article
	FEED_SESSION_IDLE_TTL=30m             # idle feed sessions are dropped
	STORE_PATH=/data/pressfeed            # empty for in-memory
	HTTP_PORT=8080
	CORS_ORIGINS=https://news.example.com
	LOG_LEVEL=info
	LOG_FORMAT=json
	CONFIG_PATH=/etc/pressfeed/config.yaml

When a config file is in use, changes to logging.level are applied without a
restart.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree: the HTTP server drains open
requests, WebSocket clients receive a close frame, feed sessions are closed
and the snapshot store is flushed.
*/
package main
