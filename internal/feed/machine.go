// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package feed

import (
	"github.com/tomtom215/pressfeed/internal/models"
)

// Machine is the feed transition table. It performs no I/O: methods that need
// a page fetched return a Request, and the caller reports the result through
// Complete. Machine is not safe for concurrent use; Controller serializes it.
//
// Invariants:
//   - items never holds two posts with the same id
//   - cursor only advances after a successful non-empty page
//   - more only becomes false on an empty page and only becomes true again
//     through a filter change
type Machine struct {
	state   State
	items   []models.Post
	seen    map[int]struct{}
	cursor  int
	more    bool
	filter  *int
	epoch   uint64
	version uint64
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{
		state:  Idle,
		seen:   make(map[int]struct{}),
		cursor: FirstPage,
	}
}

// Mount installs the first page supplied by the caller. The cursor starts at
// the second page and more is true when initial is non-empty.
func (m *Machine) Mount(initial []models.Post, filter *int) error {
	if m.state != Idle {
		return ErrAlreadyMounted
	}
	m.reset()
	m.appendUnique(initial)
	m.filter = copyFilter(filter)
	m.cursor = FirstPage + 1
	m.more = len(m.items) > 0
	m.state = Ready
	m.version++
	return nil
}

// ChangeFilter switches the active filter. When f differs from the current
// filter the feed is cleared and a page 1 request for f is returned. Any
// request issued before the change becomes stale.
func (m *Machine) ChangeFilter(f *int) (Request, bool) {
	if m.state != Idle && sameFilter(m.filter, f) {
		return Request{}, false
	}
	m.epoch++
	m.reset()
	m.filter = copyFilter(f)
	m.cursor = FirstPage
	m.more = true
	m.state = LoadingInitial
	m.version++
	return Request{Epoch: m.epoch, Kind: KindInitial, Page: FirstPage, Filter: copyFilter(f)}, true
}

// Trigger is the pagination signal. It returns a request for the page at the
// cursor only when the feed is Ready with more available; in every other
// state the trigger is dropped.
func (m *Machine) Trigger() (Request, bool) {
	if m.state != Ready || !m.more {
		return Request{}, false
	}
	m.state = LoadingMore
	m.version++
	return Request{Epoch: m.epoch, Kind: KindMore, Page: m.cursor, Filter: copyFilter(m.filter)}, true
}

// Complete applies the result of req. Results for a superseded request are
// discarded without touching state.
func (m *Machine) Complete(req Request, items []models.Post, err error) Outcome {
	if !m.matches(req) {
		return OutcomeStale
	}
	m.version++

	if err != nil {
		// The sequence, cursor and more flag are left untouched so the next
		// trigger retries the same page.
		m.state = Ready
		return OutcomeFailed
	}

	if len(items) == 0 {
		m.more = false
		m.state = Exhausted
		return OutcomeEmpty
	}

	if req.Kind == KindInitial {
		m.reset()
	}
	m.appendUnique(items)
	m.cursor = req.Page + 1
	m.more = true
	m.state = Ready
	return OutcomeApplied
}

// matches reports whether req is the request the machine is waiting on.
func (m *Machine) matches(req Request) bool {
	if req.Epoch != m.epoch {
		return false
	}
	switch req.Kind {
	case KindInitial:
		return m.state == LoadingInitial && req.Page == FirstPage
	case KindMore:
		return m.state == LoadingMore && req.Page == m.cursor
	default:
		return false
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Snapshot returns a copy of the feed state.
func (m *Machine) Snapshot() Snapshot {
	items := make([]models.Post, len(m.items))
	copy(items, m.items)
	return Snapshot{
		State:         m.state,
		Items:         items,
		Cursor:        m.cursor,
		MoreAvailable: m.more,
		Filter:        copyFilter(m.filter),
		Epoch:         m.epoch,
		Version:       m.version,
	}
}

func (m *Machine) reset() {
	m.items = nil
	m.seen = make(map[int]struct{})
}

// appendUnique appends posts whose id is not yet present, in order.
func (m *Machine) appendUnique(posts []models.Post) {
	for i := range posts {
		if _, dup := m.seen[posts[i].ID]; dup {
			continue
		}
		m.seen[posts[i].ID] = struct{}{}
		m.items = append(m.items, posts[i])
	}
}
