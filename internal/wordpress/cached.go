// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/pressfeed/internal/cache"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/models"
)

// SnapshotStore persists last-known-good responses. *store.Store satisfies it.
type SnapshotStore interface {
	Put(ctx context.Context, key string, v interface{}) error
	Load(ctx context.Context, key string, v interface{}) (time.Time, error)
}

// CacheConfig sets the revalidation windows of CachedClient.
type CacheConfig struct {
	PostsTTL      time.Duration
	CategoriesTTL time.Duration
}

// CachedClient serves repeated reads from memory and falls back to the
// snapshot store when the wrapped API fails.
type CachedClient struct {
	next       API
	snapshots  SnapshotStore
	posts      *cache.Cache[models.PostPage]
	post       *cache.Cache[models.Post]
	categories *cache.Cache[[]models.Category]
}

// NewCachedClient wraps next. snapshots may be nil, which disables the
// stale-if-error fallback.
func NewCachedClient(next API, snapshots SnapshotStore, cfg CacheConfig) *CachedClient {
	return &CachedClient{
		next:       next,
		snapshots:  snapshots,
		posts:      cache.New[models.PostPage]("posts", cfg.PostsTTL),
		post:       cache.New[models.Post]("post", cfg.PostsTTL),
		categories: cache.New[[]models.Category]("categories", cfg.CategoriesTTL),
	}
}

// Close stops the cache cleanup loops.
func (c *CachedClient) Close() {
	c.posts.Close()
	c.post.Close()
	c.categories.Close()
}

// Invalidate drops every in-memory entry. Snapshots are kept.
func (c *CachedClient) Invalidate() {
	c.posts.Clear()
	c.post.Clear()
	c.categories.Clear()
}

// GetPosts implements API.
func (c *CachedClient) GetPosts(ctx context.Context, q PostQuery) (*models.PostPage, error) {
	key := cache.GenerateKey("posts", q)
	if page, ok := c.posts.Get(key); ok {
		return &page, nil
	}

	page, err := c.next.GetPosts(ctx, q)
	if err != nil {
		var stale models.PostPage
		if c.loadStale(ctx, "posts", key, err, &stale) {
			return &stale, nil
		}
		return nil, err
	}

	c.posts.Set(key, *page)
	c.saveSnapshot(ctx, key, page)
	return page, nil
}

// GetPostBySlug implements API.
func (c *CachedClient) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	key := "post:" + slug
	if post, ok := c.post.Get(key); ok {
		return &post, nil
	}

	post, err := c.next.GetPostBySlug(ctx, slug)
	if err != nil {
		var stale models.Post
		if c.loadStale(ctx, "post", key, err, &stale) {
			return &stale, nil
		}
		return nil, err
	}

	c.post.Set(key, *post)
	c.saveSnapshot(ctx, key, post)
	return post, nil
}

// GetCategories implements API.
func (c *CachedClient) GetCategories(ctx context.Context) ([]models.Category, error) {
	const key = "categories"
	if cats, ok := c.categories.Get(key); ok {
		return cats, nil
	}

	cats, err := c.next.GetCategories(ctx)
	if err != nil {
		var stale []models.Category
		if c.loadStale(ctx, "categories", key, err, &stale) {
			return stale, nil
		}
		return nil, err
	}

	c.categories.Set(key, cats)
	c.saveSnapshot(ctx, key, cats)
	return cats, nil
}

// Ping implements API. It is never cached.
func (c *CachedClient) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

// shouldServeStale reports whether upstreamErr is an outage rather than an
// answer. Not-found, other 4xx and caller cancellation are passed through.
func shouldServeStale(ctx context.Context, upstreamErr error) bool {
	if ctx.Err() != nil {
		return false
	}
	if IsClientError(upstreamErr) {
		return false
	}
	return !errors.Is(upstreamErr, context.Canceled)
}

func (c *CachedClient) loadStale(ctx context.Context, endpoint, key string, upstreamErr error, v interface{}) bool {
	if c.snapshots == nil || !shouldServeStale(ctx, upstreamErr) {
		return false
	}

	savedAt, err := c.snapshots.Load(ctx, key, v)
	if err != nil {
		return false
	}

	metrics.RecordStaleServed(endpoint)
	logging.Ctx(ctx).Warn().
		Err(upstreamErr).
		Str("endpoint", endpoint).
		Dur("age", time.Since(savedAt)).
		Msg("WordPress unavailable, serving stale snapshot")
	return true
}

func (c *CachedClient) saveSnapshot(ctx context.Context, key string, v interface{}) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Put(ctx, key, v); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("Failed to save snapshot")
	}
}
