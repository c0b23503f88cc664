// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pressfeed/internal/config"
	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/wordpress"
)

func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// fakeWordPress serves posts from memory. Pages are sliced by PerPage.
type fakeWordPress struct {
	mu         sync.Mutex
	posts      []models.Post
	categories []models.Category
	err        error
	pingErr    error
	queries    []wordpress.PostQuery
}

func (f *fakeWordPress) GetPosts(_ context.Context, q wordpress.PostQuery) (*models.PostPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	var matched []models.Post
	for _, p := range f.posts {
		if q.Category == nil || hasCategory(p, *q.Category) {
			matched = append(matched, p)
		}
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	start := (q.Page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	totalPages := (len(matched) + perPage - 1) / perPage
	return &models.PostPage{
		Posts:      append([]models.Post(nil), matched[start:end]...),
		Page:       q.Page,
		PerPage:    perPage,
		Total:      len(matched),
		TotalPages: totalPages,
	}, nil
}

func (f *fakeWordPress) GetPostBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, wordpress.ErrNotFound
}

func (f *fakeWordPress) GetCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeWordPress) Ping(context.Context) error {
	return f.pingErr
}

func (f *fakeWordPress) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeWordPress) lastQuery() wordpress.PostQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return wordpress.PostQuery{}
	}
	return f.queries[len(f.queries)-1]
}

func hasCategory(p models.Post, id int) bool {
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// samplePosts returns n posts, newest first. Even ids are in category 2,
// odd ids in category 3, and every post shares tag 7 with its neighbours.
func samplePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range posts {
		id := i + 1
		cat := 3
		if id%2 == 0 {
			cat = 2
		}
		posts[i] = models.Post{
			ID:         id,
			Slug:       "post-" + strconv.Itoa(id),
			Title:      "Post " + strconv.Itoa(id),
			Excerpt:    "<p>excerpt</p>",
			Content:    "<p>body</p>",
			Date:       base.Add(-time.Duration(i) * time.Hour),
			Categories: []int{cat},
			Tags:       []int{7, 100 + id},
		}
	}
	return posts
}

type fakeBreaker string

func (b fakeBreaker) State() string { return string(b) }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.WordPress.PageSize = 4
	cfg.WordPress.PostsCacheTTL = time.Minute
	cfg.WordPress.CategoriesCacheTTL = time.Hour
	cfg.Feed.FetchTimeout = 2 * time.Second
	return cfg
}

// newTestHandler wires a handler to wp with a real registry fed from wp.
func newTestHandler(t *testing.T, wp *fakeWordPress) *Handler {
	t.Helper()
	cfg := testConfig()

	src := feed.SourceFunc(func(ctx context.Context, page, pageSize int, filter *int) ([]models.Post, error) {
		res, err := wp.GetPosts(ctx, wordpress.PostQuery{Page: page, PerPage: pageSize, Category: filter})
		if err != nil {
			return nil, err
		}
		return res.Posts, nil
	})
	reg := feed.NewRegistry(src, feed.RegistryConfig{
		IdleTTL:       time.Hour,
		SweepInterval: time.Hour,
		MaxSessions:   100,
		Controller: feed.ControllerConfig{
			PageSize:     cfg.WordPress.PageSize,
			FetchTimeout: cfg.Feed.FetchTimeout,
		},
	})
	t.Cleanup(reg.Close)

	return NewHandler(HandlerDeps{
		WordPress: wp,
		Registry:  reg,
		Config:    cfg,
		Version:   "test",
	})
}

// newTestServer serves the full router for h.
func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	srv := httptest.NewServer(NewRouter(h, NewChiMiddleware(mwCfg)).Setup())
	t.Cleanup(srv.Close)
	return srv
}

// envelope is APIResponse with Data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

var errBoom = errors.New("boom")
