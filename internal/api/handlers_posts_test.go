// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/wordpress"
)

func TestPosts(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{posts: samplePosts(10)}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts?page=2&per_page=3", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("ETag") == "" || resp.Header.Get("Cache-Control") != "public, max-age=60" {
		t.Errorf("cache headers = %v", resp.Header)
	}

	env := decodeEnvelope(t, resp.Body)
	var posts []models.Post
	decodeData(t, env, &posts)
	if len(posts) != 3 || posts[0].ID != 4 || posts[2].ID != 6 {
		t.Fatalf("posts = %+v", posts)
	}
	for _, p := range posts {
		if p.Content != "" {
			t.Errorf("post %d: listing must not include content", p.ID)
		}
	}

	pg := env.Meta.Pagination
	if pg == nil || pg.Page != 2 || pg.PerPage != 3 || pg.Count != 3 || pg.Total != 10 || pg.TotalPages != 4 || !pg.HasMore {
		t.Errorf("pagination = %+v", pg)
	}
}

func TestPosts_CategoryAndDefaults(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{posts: samplePosts(10)}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts?category=2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	q := wp.lastQuery()
	if q.Page != 1 || q.PerPage != 4 || q.Category == nil || *q.Category != 2 {
		t.Errorf("query = %+v", q)
	}

	var posts []models.Post
	decodeData(t, decodeEnvelope(t, resp.Body), &posts)
	for _, p := range posts {
		if p.ID%2 != 0 {
			t.Errorf("post %d is not in category 2", p.ID)
		}
	}
}

func TestPosts_BadParams(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{posts: samplePosts(3)}
	srv := newTestServer(t, newTestHandler(t, wp))

	tests := []struct {
		query    string
		wantCode string
	}{
		{"page=abc", ErrCodeBadRequest},
		{"page=0", ErrCodeValidationFailed},
		{"page=1001", ErrCodeValidationFailed},
		{"per_page=101", ErrCodeValidationFailed},
		{"category=0", ErrCodeValidationFailed},
		{"category=news", ErrCodeBadRequest},
	}
	for _, tt := range tests {
		resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts?"+tt.query, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", tt.query, resp.StatusCode)
			continue
		}
		env := decodeEnvelope(t, resp.Body)
		if env.Error == nil || env.Error.Code != tt.wantCode {
			t.Errorf("%s: error = %+v, want %s", tt.query, env.Error, tt.wantCode)
		}
	}
}

func TestPost_WithRelated(t *testing.T) {
	t.Parallel()

	posts := samplePosts(8)
	// post-2 shares its extra tag with post-6, so post-6 ranks first
	posts[5].Tags = append(posts[5].Tags, 102)
	wp := &fakeWordPress{posts: posts}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts/post-2?debug=scores", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var detail PostDetail
	decodeData(t, decodeEnvelope(t, resp.Body), &detail)

	if detail.Post.ID != 2 || detail.Post.Content == "" {
		t.Errorf("post = %+v", detail.Post)
	}
	if detail.Description != "excerpt" {
		t.Errorf("description = %q, want excerpt without markup", detail.Description)
	}
	// pool is page 1 of category 2 with page size 4: posts 2, 4, 6, 8
	if len(detail.Related) != 3 {
		t.Fatalf("related = %+v", detail.Related)
	}
	if detail.Related[0].ID != 6 {
		t.Errorf("first related = %d, want 6", detail.Related[0].ID)
	}
	for _, r := range detail.Related {
		if r.ID == 2 {
			t.Error("post is related to itself")
		}
	}
	if len(detail.Scores) != 3 || detail.Scores[0].ID != 6 || detail.Scores[0].Score != 5 || detail.Scores[1].Score != 3 {
		t.Errorf("scores = %+v", detail.Scores)
	}
}

func TestPost_LimitAndNoScores(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{posts: samplePosts(8)}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts/post-3?limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var detail PostDetail
	decodeData(t, decodeEnvelope(t, resp.Body), &detail)
	if len(detail.Related) != 1 || detail.Scores != nil {
		t.Errorf("detail = %+v", detail)
	}
}

func TestPost_FallsBackToLatest(t *testing.T) {
	t.Parallel()

	posts := samplePosts(4)
	posts[0].Categories = nil
	wp := &fakeWordPress{posts: posts}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts/post-1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if q := wp.lastQuery(); q.Category != nil {
		t.Errorf("related pool query = %+v, want latest posts", q)
	}
	var detail PostDetail
	decodeData(t, decodeEnvelope(t, resp.Body), &detail)
	if len(detail.Related) != 3 {
		t.Errorf("related = %+v, want 3 sharing tag 7", detail.Related)
	}
}

func TestPost_Errors(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{posts: samplePosts(2)}
	srv := newTestServer(t, newTestHandler(t, wp))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/posts/missing-post", http.StatusNotFound},
		{"/api/v1/posts/Bad%20Slug", http.StatusBadRequest},
		{"/api/v1/posts/post-1?limit=21", http.StatusBadRequest},
		{"/api/v1/posts/post-1?debug=all", http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := doRequest(t, http.MethodGet, srv.URL+tt.path, "")
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
		}
		if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
			t.Errorf("%s: Cache-Control = %q", tt.path, cc)
		}
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{categories: []models.Category{{ID: 2, Name: "Política", Slug: "politica", Count: 40}}}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/categories", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", cc)
	}
	var cats []models.Category
	decodeData(t, decodeEnvelope(t, resp.Body), &cats)
	if len(cats) != 1 || cats[0].Slug != "politica" {
		t.Errorf("categories = %+v", cats)
	}

	empty := newTestServer(t, newTestHandler(t, &fakeWordPress{}))
	resp = doRequest(t, http.MethodGet, empty.URL+"/api/v1/categories", "")
	env := decodeEnvelope(t, resp.Body)
	if string(env.Data) != "[]" {
		t.Errorf("empty categories data = %s, want []", env.Data)
	}
}

func TestRespondUpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("get: %w", wordpress.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"timeout", fmt.Errorf("get: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"breaker open", gobreaker.ErrOpenState, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"half open", gobreaker.ErrTooManyRequests, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"throttled", wordpress.ErrRateLimited, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"bad request", &wordpress.APIError{StatusCode: 400, Code: "rest_invalid_param", Message: "Invalid parameter(s): page"}, http.StatusBadRequest, ErrCodeBadRequest},
		{"server error", &wordpress.APIError{StatusCode: 500, Message: "oops"}, http.StatusBadGateway, ErrCodeUpstreamFailed},
		{"other", errBoom, http.StatusBadGateway, ErrCodeUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			respondUpstreamError(NewResponseWriter(rec, req), req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, rec.Body)
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestRespondUpstreamError_Canceled(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	respondUpstreamError(NewResponseWriter(rec, req), req, context.Canceled)
	if rec.Body.Len() != 0 {
		t.Errorf("canceled request wrote %q", rec.Body.String())
	}
}

func TestPosts_UpstreamFailure(t *testing.T) {
	t.Parallel()

	wp := &fakeWordPress{err: gobreaker.ErrOpenState}
	srv := newTestServer(t, newTestHandler(t, wp))

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/posts", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}
