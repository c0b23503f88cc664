// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

// Request structs validated with go-playground/validator tags. Handlers parse
// query and body values into these and call validateRequest before doing
// any work.

// PostsRequest holds the query parameters of GET /posts.
type PostsRequest struct {
	Page     int  `query:"page" validate:"min=1,max=1000"`
	PerPage  int  `query:"per_page" validate:"min=1,max=100"`
	Category *int `query:"category" validate:"omitempty,min=1"`
}

// PostRequest holds the parameters of GET /posts/{slug}.
type PostRequest struct {
	Slug  string `query:"slug" validate:"required,wpslug,max=200"`
	Limit int    `query:"limit" validate:"min=0,max=20"`
	Debug string `query:"debug" validate:"omitempty,oneof=scores"`
}

// FeedFilterRequest is the body of POST /feeds and PUT /feeds/{id}/filter.
// A null or missing category_id clears the filter.
type FeedFilterRequest struct {
	CategoryID *int `json:"category_id" validate:"omitempty,min=1"`
}

// FeedIDRequest validates the {id} path segment.
type FeedIDRequest struct {
	ID string `query:"id" validate:"required,uuid"`
}
