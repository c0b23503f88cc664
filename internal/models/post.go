// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package models

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DescriptionLength is the rune limit of Post.Description.
const DescriptionLength = 160

var markupPattern = regexp.MustCompile(`<[^>]*>?`)

// Post is a single article as served by Pressfeed.
//
// Only ID, Tags and Categories take part in feed de-duplication and relevance
// scoring. The remaining fields are display payload.
type Post struct {
	ID         int       `json:"id"`
	Slug       string    `json:"slug"`
	Date       time.Time `json:"date"`
	Link       string    `json:"link"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Content    string    `json:"content,omitempty"`
	Author     int       `json:"author"`
	Categories []int     `json:"categories"`
	Tags       []int     `json:"tags"`

	AuthorName       string `json:"author_name,omitempty"`
	AuthorAvatarURL  string `json:"author_avatar_url,omitempty"`
	FeaturedMediaID  int    `json:"featured_media,omitempty"`
	FeaturedMediaURL string `json:"featured_media_url,omitempty"`
	FeaturedMediaAlt string `json:"featured_media_alt,omitempty"`
	Terms            []Term `json:"terms,omitempty"`
}

// PrimaryCategory returns the first category id of the post, or 0.
func (p *Post) PrimaryCategory() int {
	if len(p.Categories) == 0 {
		return 0
	}
	return p.Categories[0]
}

// Description returns the excerpt as plain text cut to DescriptionLength
// runes, for page metadata.
func (p *Post) Description() string {
	text := strings.TrimSpace(html.UnescapeString(markupPattern.ReplaceAllString(p.Excerpt, "")))
	if utf8.RuneCountInString(text) <= DescriptionLength {
		return text
	}
	return string([]rune(text)[:DescriptionLength])
}

// PostSummary is the compact form used for related-post lists.
type PostSummary struct {
	ID               int       `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Link             string    `json:"link"`
	Date             time.Time `json:"date"`
	FeaturedMediaURL string    `json:"featured_media_url,omitempty"`
}

// Summary returns the compact form of p.
func (p *Post) Summary() PostSummary {
	return PostSummary{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		Link:             p.Link,
		Date:             p.Date,
		FeaturedMediaURL: p.FeaturedMediaURL,
	}
}

// Summaries returns the compact form of each post.
func Summaries(posts []Post) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i := range posts {
		out[i] = posts[i].Summary()
	}
	return out
}

// Term is an embedded taxonomy term (category or tag).
type Term struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Category is a WordPress category.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count,omitempty"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// HasMore reports whether pages remain after this one. When the upstream did
// not send X-WP-TotalPages it falls back to "the page was full".
func (p *PostPage) HasMore() bool {
	if p.TotalPages > 0 {
		return p.Page < p.TotalPages
	}
	return p.PerPage > 0 && len(p.Posts) >= p.PerPage
}

// PostIDs returns the ids of posts in order.
func PostIDs(posts []Post) []int {
	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	return ids
}
