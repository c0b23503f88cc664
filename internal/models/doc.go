// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package models defines data structures for the Pressfeed application.

This package is the single source of truth for the shapes that flow between the
WordPress client, the feed controller, the snapshot store and the HTTP API.

Key Components:

  - Post: a flattened WordPress post with tag and category ids plus display payload
  - Category: a WordPress category as listed by /categories
  - PostPage: one page of posts with the X-WP-Total/X-WP-TotalPages headers
  - WPPost, WPCategory: wire formats of the WordPress REST API v2

Model Categories:

1. Domain Models:
  - Post and Category are immutable once fetched. The feed and the relevance
    scorer only read ID, Tags and Categories; everything else is opaque
    display payload passed through to clients.

2. Wire Models:
  - WPPost mirrors the /wp-json/wp/v2/posts response with _embed, including
    wp:featuredmedia, author and wp:term. ToPost flattens it.

JSON Serialization:

All models use goccy/go-json compatible struct tags. Optional fields use
omitempty so the API does not emit empty media or avatar fields.

Thread Safety:

Models carry no synchronization. Callers that share a Post across goroutines
must not mutate its slices.
*/
package models
