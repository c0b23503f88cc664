// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/store"
)

var errUpstream = errors.New("upstream down")

// fakeAPI is a scriptable API that counts calls.
type fakeAPI struct {
	mu    sync.Mutex
	err   error
	calls map[string]int
	posts []models.Post
	cats  []models.Category
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls: make(map[string]int),
		posts: []models.Post{{ID: 1, Slug: "one"}, {ID: 2, Slug: "two"}},
		cats:  []models.Category{{ID: 3, Name: "Cultura"}},
	}
}

func (f *fakeAPI) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) GetPosts(_ context.Context, q PostQuery) (*models.PostPage, error) {
	if err := f.record("posts"); err != nil {
		return nil, err
	}
	return &models.PostPage{Posts: f.posts, Page: q.Page, PerPage: q.PerPage, TotalPages: 1}, nil
}

func (f *fakeAPI) GetPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	if err := f.record("post"); err != nil {
		return nil, err
	}
	for i := range f.posts {
		if f.posts[i].Slug == slug {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeAPI) GetCategories(_ context.Context) ([]models.Category, error) {
	if err := f.record("categories"); err != nil {
		return nil, err
	}
	return f.cats, nil
}

func (f *fakeAPI) Ping(_ context.Context) error {
	return f.record("ping")
}

func newCachedWithStore(t *testing.T, next API) *CachedClient {
	t.Helper()
	s, err := store.Open(store.DefaultConfig())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	c := NewCachedClient(next, s, CacheConfig{PostsTTL: time.Minute, CategoriesTTL: time.Hour})
	t.Cleanup(c.Close)
	return c
}

func TestCachedClient_CachesReads(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c := newCachedWithStore(t, api)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.GetPosts(ctx, PostQuery{Page: 1, PerPage: 10}); err != nil {
			t.Fatal(err)
		}
		if _, err := c.GetCategories(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := c.GetPostBySlug(ctx, "one"); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"posts", "categories", "post"} {
		if got := api.count(name); got != 1 {
			t.Errorf("%s upstream calls = %d, want 1", name, got)
		}
	}

	// A different query is a different key.
	if _, err := c.GetPosts(ctx, PostQuery{Page: 2, PerPage: 10}); err != nil {
		t.Fatal(err)
	}
	if got := api.count("posts"); got != 2 {
		t.Errorf("posts calls after new page = %d, want 2", got)
	}
}

func TestCachedClient_ServesStaleOnOutage(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c := newCachedWithStore(t, api)
	ctx := context.Background()

	if _, err := c.GetPosts(ctx, PostQuery{Page: 1, PerPage: 10}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetCategories(ctx); err != nil {
		t.Fatal(err)
	}

	c.Invalidate()
	api.setErr(errUpstream)

	page, err := c.GetPosts(ctx, PostQuery{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("GetPosts during outage: %v", err)
	}
	if len(page.Posts) != 2 {
		t.Errorf("stale posts = %d, want 2", len(page.Posts))
	}

	cats, err := c.GetCategories(ctx)
	if err != nil || len(cats) != 1 || cats[0].Name != "Cultura" {
		t.Errorf("stale categories = %v, %v", cats, err)
	}

	// Nothing was ever stored for page 5.
	if _, err := c.GetPosts(ctx, PostQuery{Page: 5, PerPage: 10}); !errors.Is(err, errUpstream) {
		t.Errorf("uncached page err = %v, want upstream error", err)
	}
}

func TestCachedClient_NotFoundIsNotMaskedByStale(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c := newCachedWithStore(t, api)

	if _, err := c.GetPostBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCachedClient_NoStoreReturnsError(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.setErr(errUpstream)

	c := NewCachedClient(api, nil, CacheConfig{PostsTTL: time.Minute, CategoriesTTL: time.Minute})
	defer c.Close()

	if _, err := c.GetCategories(context.Background()); !errors.Is(err, errUpstream) {
		t.Errorf("err = %v, want upstream error", err)
	}
}

func TestCachedClient_PingIsNotCached(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c := newCachedWithStore(t, api)

	_ = c.Ping(context.Background())
	_ = c.Ping(context.Background())
	if got := api.count("ping"); got != 2 {
		t.Errorf("ping calls = %d, want 2", got)
	}
}

func TestShouldServeStale(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want bool
	}{
		{"outage", context.Background(), errUpstream, true},
		{"server error", context.Background(), &APIError{StatusCode: 502}, true},
		{"rate limited", context.Background(), ErrRateLimited, true},
		{"not found", context.Background(), ErrNotFound, false},
		{"client error", context.Background(), &APIError{StatusCode: 400}, false},
		{"caller canceled", canceled, context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldServeStale(tt.ctx, tt.err); got != tt.want {
				t.Errorf("shouldServeStale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeedSource(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	src := NewFeedSource(api)

	cat := 4
	posts, err := src.FetchPage(context.Background(), 1, 10, &cat)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("len = %d, want 2", len(posts))
	}

	api.setErr(errUpstream)
	if _, err := src.FetchPage(context.Background(), 2, 10, nil); !errors.Is(err, errUpstream) {
		t.Errorf("err = %v, want upstream error", err)
	}
}
