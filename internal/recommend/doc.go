// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

// Package recommend ranks related posts by tag and category overlap.
//
// # Scoring
//
// For a focal post f and a candidate c:
//
//	score(f, c) = TagWeight * |c.tags ∩ f.tags| + CategoryWeight * |c.categories ∩ f.categories|
//
// with defaults TagWeight = 2 and CategoryWeight = 1, since shared tags signal a
// closer topical relation than shared categories.
//
// Candidates with the focal id or a score of zero are dropped. The rest are
// ordered by descending score with a stable sort, so equal scores keep their
// pool order, and the result is truncated to the limit (default 3).
//
// # Usage
//
//	related := recommend.RelatedItems(post, loaded, 3)
//
//	scorer := recommend.NewScorer(recommend.Config{TagWeight: 3, CategoryWeight: 1, Limit: 5})
//	related = scorer.Related(post, loaded)
//
// # Thread Safety
//
// A Scorer is immutable after construction and safe for concurrent use. All
// functions are pure: no I/O and no shared state.
package recommend
