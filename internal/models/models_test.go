// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

const embeddedPostJSON = `{
  "id": 4242,
  "date": "2026-03-14T09:30:00",
  "slug": "nueva-ley",
  "link": "https://www.duplos.cl/nueva-ley/",
  "title": {"rendered": "Nueva ley"},
  "excerpt": {"rendered": "<p>Resumen</p>"},
  "content": {"rendered": "<p>Cuerpo</p>"},
  "author": 3,
  "featured_media": 99,
  "categories": [5, 8],
  "tags": [1, 2],
  "_embedded": {
    "wp:featuredmedia": [{"source_url": "https://cdn.example/img.jpg", "alt_text": "Portada"}],
    "author": [{"name": "Ana", "avatar_urls": {"24": "a24", "48": "a48", "96": "a96"}}],
    "wp:term": [
      [{"id": 5, "name": "Politica", "slug": "politica", "taxonomy": "category"}],
      [{"id": 1, "name": "Congreso", "slug": "congreso", "taxonomy": "post_tag"}]
    ]
  }
}`

func TestWPPost_ToPost_Embedded(t *testing.T) {
	t.Parallel()

	var wp WPPost
	if err := json.Unmarshal([]byte(embeddedPostJSON), &wp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := wp.ToPost()

	if p.ID != 4242 || p.Slug != "nueva-ley" {
		t.Errorf("unexpected identity: id=%d slug=%q", p.ID, p.Slug)
	}
	if p.Title != "Nueva ley" || p.Excerpt != "<p>Resumen</p>" {
		t.Errorf("rendered fields not flattened: %q / %q", p.Title, p.Excerpt)
	}
	want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date, want)
	}
	if p.FeaturedMediaURL != "https://cdn.example/img.jpg" || p.FeaturedMediaAlt != "Portada" {
		t.Errorf("featured media = %q / %q", p.FeaturedMediaURL, p.FeaturedMediaAlt)
	}
	if p.AuthorName != "Ana" {
		t.Errorf("AuthorName = %q", p.AuthorName)
	}
	if p.AuthorAvatarURL != "a96" {
		t.Errorf("AuthorAvatarURL = %q, want largest avatar", p.AuthorAvatarURL)
	}
	if len(p.Terms) != 2 || p.Terms[1].Taxonomy != "post_tag" {
		t.Errorf("Terms = %+v", p.Terms)
	}
	if p.PrimaryCategory() != 5 {
		t.Errorf("PrimaryCategory = %d, want 5", p.PrimaryCategory())
	}
}

func TestWPPost_ToPost_Bare(t *testing.T) {
	t.Parallel()

	wp := WPPost{ID: 1, Date: "not-a-date"}
	p := wp.ToPost()

	if p.Tags == nil || p.Categories == nil {
		t.Error("expected non-nil id slices")
	}
	if !p.Date.IsZero() {
		t.Errorf("expected zero date for unparseable input, got %v", p.Date)
	}
	if p.PrimaryCategory() != 0 {
		t.Errorf("PrimaryCategory = %d, want 0", p.PrimaryCategory())
	}
	if p.AuthorName != "" || p.FeaturedMediaURL != "" {
		t.Error("expected empty embedded fields")
	}
}

func TestPostPage_HasMore(t *testing.T) {
	t.Parallel()

	posts := func(n int) []Post { return make([]Post, n) }

	tests := []struct {
		name string
		page PostPage
		want bool
	}{
		{"totals say more", PostPage{Posts: posts(10), Page: 1, PerPage: 10, TotalPages: 3}, true},
		{"last page by totals", PostPage{Posts: posts(10), Page: 3, PerPage: 10, TotalPages: 3}, false},
		{"no totals, full page", PostPage{Posts: posts(10), Page: 1, PerPage: 10}, true},
		{"no totals, short page", PostPage{Posts: posts(4), Page: 1, PerPage: 10}, false},
		{"empty", PostPage{Page: 1, PerPage: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.page.HasMore(); got != tt.want {
				t.Errorf("HasMore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostIDs(t *testing.T) {
	t.Parallel()

	ids := PostIDs([]Post{{ID: 3}, {ID: 1}, {ID: 2}})
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("PostIDs = %v", ids)
	}
}

func TestPost_Description(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ñ", DescriptionLength+20)

	tests := []struct {
		name    string
		excerpt string
		want    string
	}{
		{"plain", "Resumen", "Resumen"},
		{"markup stripped", "<p>El <strong>Congreso</strong> aprobó</p>\n", "El Congreso aprobó"},
		{"entities decoded", "<p>Sube el IPC &#8211; otra vez&hellip;</p>", "Sube el IPC \u2013 otra vez\u2026"},
		{"unclosed tag", "Texto <a href=\"x\"", "Texto"},
		{"empty", "", ""},
		{"cut by runes", "<p>" + long + "</p>", long[:DescriptionLength*2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Post{Excerpt: tt.excerpt}
			if got := p.Description(); got != tt.want {
				t.Errorf("Description() = %q, want %q", got, tt.want)
			}
		})
	}
}
