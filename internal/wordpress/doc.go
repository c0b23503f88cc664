// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package wordpress is the client for the WordPress REST API (wp/v2).

Clients are layered, each satisfying API:

	raw := wordpress.NewClient(&cfg.WordPress)                          // HTTP, 429 retry, rate limit
	cb := wordpress.NewCircuitBreakerClient(raw, wordpress.DefaultBreakerSettings())
	api := wordpress.NewCachedClient(cb, snapshots, wordpress.CacheConfig{ // TTL cache + stale-if-error
	    PostsTTL:      cfg.WordPress.PostsCacheTTL,
	    CategoriesTTL: cfg.WordPress.CategoriesCacheTTL,
	})
	src := wordpress.NewFeedSource(api) // feed.Source

Listings request _embed so featured media, author and taxonomy terms arrive
with each post and are flattened into models.Post. Paging past the last page
makes WordPress answer HTTP 400 rest_post_invalid_page_number; the client turns
that into an empty page so a feed session reaches its end instead of failing.
*/
package wordpress
