// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package feed

import (
	"errors"
	"strconv"
)

// State is the coarse state of a feed.
type State int

const (
	// Idle is the state before Mount.
	Idle State = iota
	// LoadingInitial means a filter change reset the feed and page 1 is in flight.
	LoadingInitial
	// LoadingMore means a pagination fetch is in flight.
	LoadingMore
	// Ready means no fetch is in flight.
	Ready
	// Exhausted means the current filter has no more pages.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LoadingInitial:
		return "loading_initial"
	case LoadingMore:
		return "loading_more"
	case Ready:
		return "ready"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Loading reports whether a fetch is in flight.
func (s State) Loading() bool {
	return s == LoadingInitial || s == LoadingMore
}

// FetchKind distinguishes filter-reset fetches from pagination fetches.
type FetchKind int

const (
	// KindInitial is the page 1 fetch after a filter change.
	KindInitial FetchKind = iota
	// KindMore is a pagination fetch.
	KindMore
)

func (k FetchKind) String() string {
	if k == KindInitial {
		return "initial"
	}
	return "more"
}

// Request describes a fetch the machine wants issued. Epoch ties the result
// back to the filter generation that asked for it.
type Request struct {
	Epoch  uint64
	Kind   FetchKind
	Page   int
	Filter *int
}

// Outcome is what Complete did with a fetch result.
type Outcome int

const (
	// OutcomeStale means the result belonged to a superseded request and was dropped.
	OutcomeStale Outcome = iota
	// OutcomeFailed means the fetch failed; the feed returned to Ready.
	OutcomeFailed
	// OutcomeEmpty means the page was empty; the feed is Exhausted.
	OutcomeEmpty
	// OutcomeApplied means the page was stored.
	OutcomeApplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failure"
	case OutcomeEmpty:
		return "empty"
	default:
		return "success"
	}
}

// FirstPage is the page number the content source starts at.
const FirstPage = 1

// Sentinel errors.
var (
	ErrAlreadyMounted  = errors.New("feed already mounted")
	ErrSessionNotFound = errors.New("feed session not found")
	ErrClosed          = errors.New("feed closed")
)

// sameFilter reports whether a and b select the same category.
func sameFilter(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FilterString renders a filter for logs and metrics.
func FilterString(f *int) string {
	if f == nil {
		return "none"
	}
	return strconv.Itoa(*f)
}

// copyFilter returns a private copy so callers cannot mutate machine state.
func copyFilter(f *int) *int {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
