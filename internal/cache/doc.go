// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package cache provides a thread-safe in-memory TTL cache for WordPress
responses.

The WordPress client keeps three caches:

  - posts: list pages keyed by GenerateKey("posts", query), short TTL
  - post: single posts keyed by slug, short TTL
  - categories: the category list, long TTL

Expired entries are dropped lazily on Get and periodically by a background
loop that stops on Close. Every lookup is mirrored into the cache_hits_total
and cache_misses_total Prometheus counters, labelled by cache name.

Usage:

	c := cache.New[[]models.Category]("categories", time.Hour)
	defer c.Close()

	if cats, ok := c.Get("all"); ok {
	    return cats, nil
	}
*/
package cache
