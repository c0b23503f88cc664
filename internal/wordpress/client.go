// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pressfeed/internal/config"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/models"
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// categoriesPerPage matches the category strip of the site header.
const categoriesPerPage = 20

// DefaultAuthorName is shown when a post has no embedded author.
const DefaultAuthorName = "Redacción"

// API is the WordPress surface the rest of the service depends on.
// Client, CircuitBreakerClient and CachedClient all satisfy it.
type API interface {
	GetPosts(ctx context.Context, q PostQuery) (*models.PostPage, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	Ping(ctx context.Context) error
}

// PostQuery selects one page of the post listing.
type PostQuery struct {
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	Category *int `json:"category,omitempty"`
}

// normalize fills zero values with defaults.
func (q PostQuery) normalize(defaultPerPage int) PostQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.Category != nil && *q.Category <= 0 {
		q.Category = nil
	}
	return q
}

// Client talks to the WordPress REST API.
//
// Features:
//   - Outbound token-bucket rate limiting
//   - Retry on HTTP 429 with exponential backoff, honoring Retry-After
//   - Bounded error body reads
//   - Pagination totals from X-WP-Total and X-WP-TotalPages
//
// Safe for concurrent use.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a client for the site described by cfg.
func NewClient(cfg *config.WordPressConfig) *Client {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	return &Client{
		baseURL:  cfg.BaseURL(),
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		baseDelay:  time.Second,
	}
}

// PageSize returns the default page size.
func (c *Client) PageSize() int { return c.pageSize }

// GetPosts fetches one page of posts, newest first, with embedded media,
// author and terms. Paging past the last page yields an empty page.
func (c *Client) GetPosts(ctx context.Context, q PostQuery) (*models.PostPage, error) {
	q = q.normalize(c.pageSize)

	query := url.Values{}
	query.Set("_embed", "1")
	query.Set("per_page", strconv.Itoa(q.PerPage))
	query.Set("page", strconv.Itoa(q.Page))
	if q.Category != nil {
		query.Set("categories", strconv.Itoa(*q.Category))
	}

	page := &models.PostPage{Page: q.Page, PerPage: q.PerPage, Posts: []models.Post{}}

	var raw []models.WPPost
	header, err := c.getJSON(ctx, "posts", "/posts", query, &raw)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInvalidPageNumber {
			logging.Ctx(ctx).Debug().Int("page", q.Page).Msg("WordPress page past end, returning empty page")
			return page, nil
		}
		return nil, err
	}

	page.Total = headerInt(header, "X-WP-Total")
	page.TotalPages = headerInt(header, "X-WP-TotalPages")
	page.Posts = convertPosts(raw)
	return page, nil
}

// GetPostBySlug returns the post with the given slug, or ErrNotFound.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	query := url.Values{}
	query.Set("_embed", "1")
	query.Set("slug", slug)

	var raw []models.WPPost
	if _, err := c.getJSON(ctx, "post", "/posts", query, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	post := convertPost(&raw[0])
	return &post, nil
}

// GetCategories returns the most used categories, by post count descending.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	query := url.Values{}
	query.Set("per_page", strconv.Itoa(categoriesPerPage))
	query.Set("orderby", "count")
	query.Set("order", "desc")

	var raw []models.WPCategory
	if _, err := c.getJSON(ctx, "categories", "/categories", query, &raw); err != nil {
		return nil, err
	}

	cats := make([]models.Category, len(raw))
	for i := range raw {
		cats[i] = raw[i].ToCategory()
	}
	return cats, nil
}

// Ping checks that the REST namespace answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.getJSON(ctx, "ping", "", nil, nil)
	return err
}

// getJSON issues a GET and decodes a 2xx body into result when non-nil.
// The endpoint label is used for metrics.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, result interface{}) (http.Header, error) {
	start := time.Now()
	header, err := c.doGet(ctx, path, query, result)

	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "canceled"
	case errors.Is(err, ErrRateLimited):
		status = "rate_limited"
	default:
		status = "error"
	}
	metrics.RecordWordPressRequest(endpoint, status, time.Since(start))

	return header, err
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, result interface{}) (http.Header, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pressfeed/1.0")

	resp, err := c.doRequestWithRateLimit(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.Header, decodeAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.Header, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// doRequestWithRateLimit executes req, waiting on the outbound limiter before
// every attempt and retrying HTTP 429 with exponential backoff (1s, 2s, 4s...).
// A Retry-After header in seconds overrides the computed delay.
func (c *Client) doRequestWithRateLimit(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))
		resp.Body.Close()

		if attempt == c.maxRetries {
			break
		}

		retryDelay := c.baseDelay * (1 << attempt)
		if retryAfter != "" {
			if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
				retryDelay = time.Duration(seconds) * time.Second
			}
		}

		logging.Ctx(ctx).Warn().
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("WordPress API rate limited (HTTP 429), retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("%w after %d retries", ErrRateLimited, c.maxRetries)
}

// decodeAPIError reads at most maxErrorBodySize bytes and extracts the
// WordPress error code when the body is a REST error object.
func decodeAPIError(resp *http.Response) error {
	body := readBodyForError(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}

	var wpErr models.WPError
	if err := json.Unmarshal(body, &wpErr); err == nil && wpErr.Code != "" {
		apiErr.Code = wpErr.Code
		apiErr.Message = wpErr.Message
	}
	return apiErr
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

func headerInt(h http.Header, name string) int {
	v, err := strconv.Atoi(h.Get(name))
	if err != nil {
		return 0
	}
	return v
}

func convertPosts(raw []models.WPPost) []models.Post {
	posts := make([]models.Post, len(raw))
	for i := range raw {
		posts[i] = convertPost(&raw[i])
	}
	return posts
}

func convertPost(wp *models.WPPost) models.Post {
	p := wp.ToPost()
	if p.AuthorName == "" {
		p.AuthorName = DefaultAuthorName
	}
	return p
}
