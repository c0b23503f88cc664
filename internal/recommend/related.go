// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package recommend

import (
	"sort"

	"github.com/tomtom215/pressfeed/internal/models"
)

// Default scoring parameters.
const (
	DefaultTagWeight      = 2
	DefaultCategoryWeight = 1
	DefaultLimit          = 3
)

// Config contains the scorer parameters.
type Config struct {
	// TagWeight is added once per shared tag.
	TagWeight int `json:"tag_weight"`

	// CategoryWeight is added once per shared category.
	CategoryWeight int `json:"category_weight"`

	// Limit is the maximum number of related posts returned.
	Limit int `json:"limit"`
}

// DefaultConfig returns the default scorer parameters.
func DefaultConfig() Config {
	return Config{
		TagWeight:      DefaultTagWeight,
		CategoryWeight: DefaultCategoryWeight,
		Limit:          DefaultLimit,
	}
}

// Scored pairs a candidate with its relevance score.
type Scored struct {
	Post  models.Post `json:"post"`
	Score int         `json:"score"`
}

// Scorer ranks candidates against a focal post.
type Scorer struct {
	tagWeight      int
	categoryWeight int
	limit          int
}

// NewScorer creates a scorer. Non-positive values fall back to the defaults.
func NewScorer(cfg Config) *Scorer {
	if cfg.TagWeight <= 0 {
		cfg.TagWeight = DefaultTagWeight
	}
	if cfg.CategoryWeight <= 0 {
		cfg.CategoryWeight = DefaultCategoryWeight
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	return &Scorer{
		tagWeight:      cfg.TagWeight,
		categoryWeight: cfg.CategoryWeight,
		limit:          cfg.Limit,
	}
}

// Limit returns the scorer's default result size.
func (s *Scorer) Limit() int {
	return s.limit
}

// Score computes the relevance of candidate to focal.
func (s *Scorer) Score(focal, candidate *models.Post) int {
	return s.score(newTermSets(focal), candidate)
}

func (s *Scorer) score(focal termSets, candidate *models.Post) int {
	return s.tagWeight*overlap(focal.tags, candidate.Tags) +
		s.categoryWeight*overlap(focal.categories, candidate.Categories)
}

// Rank scores every candidate in pool except focal, drops non-positive scores
// and sorts by descending score. Ties keep pool order.
func (s *Scorer) Rank(focal *models.Post, pool []models.Post) []Scored {
	scored := make([]Scored, 0, len(pool))
	if len(focal.Tags) == 0 && len(focal.Categories) == 0 {
		return scored
	}

	sets := newTermSets(focal)
	for i := range pool {
		if pool[i].ID == focal.ID {
			continue
		}
		if score := s.score(sets, &pool[i]); score > 0 {
			scored = append(scored, Scored{Post: pool[i], Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// RelatedN returns at most limit related posts. A non-positive limit uses the
// scorer default.
func (s *Scorer) RelatedN(focal *models.Post, pool []models.Post, limit int) []models.Post {
	if limit <= 0 {
		limit = s.limit
	}
	ranked := s.Rank(focal, pool)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	related := make([]models.Post, len(ranked))
	for i := range ranked {
		related[i] = ranked[i].Post
	}
	return related
}

// Related returns at most Limit() related posts.
func (s *Scorer) Related(focal *models.Post, pool []models.Post) []models.Post {
	return s.RelatedN(focal, pool, s.limit)
}

var defaultScorer = NewScorer(DefaultConfig())

// RelatedItems ranks pool against focal with the default weights. A
// non-positive limit means DefaultLimit.
func RelatedItems(focal *models.Post, pool []models.Post, limit int) []models.Post {
	return defaultScorer.RelatedN(focal, pool, limit)
}

// termSets holds a focal post's tags and categories for repeated lookups.
type termSets struct {
	tags       map[int]struct{}
	categories map[int]struct{}
}

func newTermSets(p *models.Post) termSets {
	return termSets{tags: toSet(p.Tags), categories: toSet(p.Categories)}
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// overlap counts the entries of candidate that appear in focal. Duplicate
// entries in candidate are counted each time.
func overlap(focal map[int]struct{}, candidate []int) int {
	if len(focal) == 0 || len(candidate) == 0 {
		return 0
	}
	n := 0
	for _, id := range candidate {
		if _, ok := focal[id]; ok {
			n++
		}
	}
	return n
}
