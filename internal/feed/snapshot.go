// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package feed

import (
	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/recommend"
)

// Snapshot is an immutable copy of a feed's state.
type Snapshot struct {
	State         State
	Items         []models.Post
	Cursor        int
	MoreAvailable bool
	Filter        *int
	Epoch         uint64
	Version       uint64
}

// Loading reports whether the loading indicator should show.
func (s *Snapshot) Loading() bool {
	return s.State.Loading()
}

// EndOfFeed reports whether the end-of-feed indicator should show.
func (s *Snapshot) EndOfFeed() bool {
	return !s.MoreAvailable && len(s.Items) > 0
}

// Empty reports whether the empty-result indicator should show.
func (s *Snapshot) Empty() bool {
	return !s.Loading() && len(s.Items) == 0
}

// FeaturedID is the id of the first post while the feed shows only its first
// page, or 0.
func (s *Snapshot) FeaturedID() int {
	if s.Cursor == FirstPage+1 && len(s.Items) > 0 {
		return s.Items[0].ID
	}
	return 0
}

// Entry is one post in a View with its related posts.
type Entry struct {
	models.Post
	Featured bool                 `json:"featured"`
	Related  []models.PostSummary `json:"related"`
}

// View is the client-facing rendering of a Snapshot.
type View struct {
	SessionID     string  `json:"session_id"`
	State         State   `json:"state"`
	Filter        *int    `json:"category_id"`
	Cursor        int     `json:"next_page"`
	MoreAvailable bool    `json:"more_available"`
	Loading       bool    `json:"loading"`
	EndOfFeed     bool    `json:"end_of_feed"`
	Empty         bool    `json:"empty"`
	FeaturedID    int     `json:"featured_id,omitempty"`
	Version       uint64  `json:"version"`
	Count         int     `json:"count"`
	Items         []Entry `json:"items"`
}

// NewView renders s. Related posts for each entry are ranked by scorer against
// the loaded sequence; a nil scorer skips them.
func NewView(sessionID string, s *Snapshot, scorer *recommend.Scorer) View {
	featured := s.FeaturedID()
	v := View{
		SessionID:     sessionID,
		State:         s.State,
		Filter:        copyFilter(s.Filter),
		Cursor:        s.Cursor,
		MoreAvailable: s.MoreAvailable,
		Loading:       s.Loading(),
		EndOfFeed:     s.EndOfFeed(),
		Empty:         s.Empty(),
		FeaturedID:    featured,
		Version:       s.Version,
		Count:         len(s.Items),
		Items:         make([]Entry, len(s.Items)),
	}
	for i := range s.Items {
		e := Entry{Post: s.Items[i], Featured: featured != 0 && s.Items[i].ID == featured}
		e.Content = ""
		if scorer != nil {
			e.Related = models.Summaries(scorer.Related(&s.Items[i], s.Items))
		} else {
			e.Related = []models.PostSummary{}
		}
		v.Items[i] = e
	}
	return v
}
