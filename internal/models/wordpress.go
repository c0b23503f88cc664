// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package models

import (
	"sort"
	"time"
)

// wpDateLayout is the format WordPress uses for the "date" field (site local
// time, no zone designator).
const wpDateLayout = "2006-01-02T15:04:05"

// WPRendered wraps the {"rendered": "..."} objects used for title, excerpt and content.
type WPRendered struct {
	Rendered string `json:"rendered"`
}

// WPPost is the /wp-json/wp/v2/posts wire format with _embed.
type WPPost struct {
	ID            int         `json:"id"`
	Date          string      `json:"date"`
	Slug          string      `json:"slug"`
	Link          string      `json:"link"`
	Title         WPRendered  `json:"title"`
	Excerpt       WPRendered  `json:"excerpt"`
	Content       WPRendered  `json:"content"`
	Author        int         `json:"author"`
	FeaturedMedia int         `json:"featured_media"`
	Categories    []int       `json:"categories"`
	Tags          []int       `json:"tags"`
	Embedded      *WPEmbedded `json:"_embedded,omitempty"`
}

// WPEmbedded holds the _embedded resources requested with ?_embed.
type WPEmbedded struct {
	FeaturedMedia []WPMedia  `json:"wp:featuredmedia,omitempty"`
	Author        []WPAuthor `json:"author,omitempty"`
	Terms         [][]Term   `json:"wp:term,omitempty"`
}

// WPMedia is an embedded featured media item.
type WPMedia struct {
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// WPAuthor is an embedded author.
type WPAuthor struct {
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatar_urls,omitempty"`
}

// WPCategory is the /wp-json/wp/v2/categories wire format.
type WPCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// WPError is the error body WordPress returns with non-2xx responses.
type WPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}

// ToPost flattens the wire format into a Post. Nil id slices become empty
// slices so clients always see arrays.
func (wp *WPPost) ToPost() Post {
	p := Post{
		ID:              wp.ID,
		Slug:            wp.Slug,
		Link:            wp.Link,
		Title:           wp.Title.Rendered,
		Excerpt:         wp.Excerpt.Rendered,
		Content:         wp.Content.Rendered,
		Author:          wp.Author,
		FeaturedMediaID: wp.FeaturedMedia,
		Categories:      wp.Categories,
		Tags:            wp.Tags,
	}
	if p.Categories == nil {
		p.Categories = []int{}
	}
	if p.Tags == nil {
		p.Tags = []int{}
	}
	if t, err := time.Parse(wpDateLayout, wp.Date); err == nil {
		p.Date = t
	} else if t, err := time.Parse(time.RFC3339, wp.Date); err == nil {
		p.Date = t
	}

	if wp.Embedded == nil {
		return p
	}
	if len(wp.Embedded.FeaturedMedia) > 0 {
		p.FeaturedMediaURL = wp.Embedded.FeaturedMedia[0].SourceURL
		p.FeaturedMediaAlt = wp.Embedded.FeaturedMedia[0].AltText
	}
	if len(wp.Embedded.Author) > 0 {
		p.AuthorName = wp.Embedded.Author[0].Name
		p.AuthorAvatarURL = largestAvatar(wp.Embedded.Author[0].AvatarURLs)
	}
	for _, group := range wp.Embedded.Terms {
		p.Terms = append(p.Terms, group...)
	}
	return p
}

// ToCategory converts the wire format into a Category.
func (wc *WPCategory) ToCategory() Category {
	return Category{ID: wc.ID, Name: wc.Name, Slug: wc.Slug, Count: wc.Count}
}

// largestAvatar picks the avatar with the largest size key ("24", "48", "96").
func largestAvatar(urls map[string]string) string {
	if len(urls) == 0 {
		return ""
	}
	keys := make([]string, 0, len(urls))
	for k := range urls {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] > keys[j]
	})
	return urls[keys[0]]
}
