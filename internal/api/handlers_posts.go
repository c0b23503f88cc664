// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/wordpress"
)

// PostDetail is the body of GET /posts/{slug}. Description is the
// plain-text excerpt for page metadata.
type PostDetail struct {
	Post        models.Post          `json:"post"`
	Description string               `json:"description"`
	Related     []models.PostSummary `json:"related"`
	Scores      []RelatedScore       `json:"scores,omitempty"`
}

// RelatedScore is one ranked candidate in the ?debug=scores view.
type RelatedScore struct {
	ID    int    `json:"id"`
	Slug  string `json:"slug"`
	Score int    `json:"score"`
}

// Posts proxies one page of the WordPress post listing. Content is omitted
// from list items.
//
// @Summary List posts
// @Description Proxies one page of the WordPress post listing, newest first. Content is omitted from list items.
// @Tags Posts
// @Accept json
// @Produce json
// @Param page query int false "Page number (1-1000)" default(1)
// @Param per_page query int false "Posts per page (1-100)"
// @Param category query int false "Category id filter"
// @Success 200 {object} APIResponse{data=[]models.Post} "Posts retrieved successfully"
// @Failure 400 {object} APIResponse "Invalid query parameters"
// @Failure 502 {object} APIResponse "WordPress is unavailable"
// @Failure 503 {object} APIResponse "Circuit breaker open"
// @Router /posts [get]
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := getIntParam(r, "page", 1)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	perPage, err := getIntParam(r, "per_page", h.config.WordPress.PageSize)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	category, err := getOptionalIntParam(r, "category")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	req := PostsRequest{Page: page, PerPage: perPage, Category: category}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(rw, apiErr)
		return
	}

	result, err := h.wp.GetPosts(r.Context(), wordpress.PostQuery{
		Page:     req.Page,
		PerPage:  req.PerPage,
		Category: req.Category,
	})
	if err != nil {
		respondUpstreamError(rw, r, err)
		return
	}

	posts := make([]models.Post, len(result.Posts))
	for i := range result.Posts {
		posts[i] = result.Posts[i]
		posts[i].Content = ""
	}

	rw.Cacheable(h.config.WordPress.PostsCacheTTL).SuccessWithPagination(posts, &PaginationMeta{
		Page:       result.Page,
		PerPage:    result.PerPage,
		Count:      len(posts),
		Total:      result.Total,
		TotalPages: result.TotalPages,
		HasMore:    result.HasMore(),
	})
}

// Post returns one article by slug with related posts ranked against the
// first page of its primary category, or the latest posts when it has none.
// ?debug=scores adds the full ranking.
//
// @Summary Get post by slug
// @Description Returns one article with its plain-text description and related posts ranked by shared tags and categories.
// @Tags Posts
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param limit query int false "Related posts to return (1-20)"
// @Param debug query string false "Set to scores to include the full ranking" Enums(scores)
// @Success 200 {object} APIResponse{data=PostDetail} "Post retrieved successfully"
// @Failure 400 {object} APIResponse "Invalid slug or parameters"
// @Failure 404 {object} APIResponse "Post not found"
// @Failure 502 {object} APIResponse "WordPress is unavailable"
// @Router /posts/{slug} [get]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := PostRequest{
		Slug:  chi.URLParam(r, "slug"),
		Limit: limit,
		Debug: r.URL.Query().Get("debug"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(rw, apiErr)
		return
	}

	post, err := h.wp.GetPostBySlug(r.Context(), req.Slug)
	if err != nil {
		respondUpstreamError(rw, r, err)
		return
	}

	pool := h.relatedPool(r, post)
	detail := PostDetail{
		Post:        *post,
		Description: post.Description(),
		Related:     models.Summaries(h.scorer.RelatedN(post, pool, req.Limit)),
	}
	if req.Debug == "scores" {
		ranked := h.scorer.Rank(post, pool)
		detail.Scores = make([]RelatedScore, len(ranked))
		for i := range ranked {
			detail.Scores[i] = RelatedScore{ID: ranked[i].Post.ID, Slug: ranked[i].Post.Slug, Score: ranked[i].Score}
		}
	}

	rw.Cacheable(h.config.WordPress.PostsCacheTTL).Success(detail)
}

// relatedPool fetches the candidates for related posts. Failures degrade to
// an empty pool; the article itself is still served.
func (h *Handler) relatedPool(r *http.Request, post *models.Post) []models.Post {
	q := wordpress.PostQuery{Page: 1, PerPage: h.config.WordPress.PageSize}
	if cat := post.PrimaryCategory(); cat > 0 {
		q.Category = &cat
	}

	page, err := h.wp.GetPosts(r.Context(), q)
	if err == nil && len(page.Posts) > 0 {
		return page.Posts
	}
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int("post_id", post.ID).Msg("Related pool fetch failed")
	}
	if q.Category == nil {
		return nil
	}

	q.Category = nil
	page, err = h.wp.GetPosts(r.Context(), q)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int("post_id", post.ID).Msg("Latest posts fallback failed")
		return nil
	}
	return page.Posts
}

// Categories returns the most used categories.
//
// @Summary List categories
// @Description Returns the most used categories, ordered by post count.
// @Tags Posts
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Category} "Categories retrieved successfully"
// @Failure 502 {object} APIResponse "WordPress is unavailable"
// @Router /categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cats, err := h.wp.GetCategories(r.Context())
	if err != nil {
		respondUpstreamError(rw, r, err)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	rw.Cacheable(h.config.WordPress.CategoriesCacheTTL).Success(cats)
}
