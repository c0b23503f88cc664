// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"context"

	"github.com/tomtom215/pressfeed/internal/models"
)

// FeedSource adapts an API to feed.Source.
type FeedSource struct {
	api API
}

// NewFeedSource returns a feed.Source backed by api.
func NewFeedSource(api API) *FeedSource {
	return &FeedSource{api: api}
}

// FetchPage returns the posts of one listing page. A nil filter lists every
// category.
func (s *FeedSource) FetchPage(ctx context.Context, page, pageSize int, filter *int) ([]models.Post, error) {
	p, err := s.api.GetPosts(ctx, PostQuery{Page: page, PerPage: pageSize, Category: filter})
	if err != nil {
		return nil, err
	}
	return p.Posts, nil
}
