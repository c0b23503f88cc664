// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package feed implements incremental, filterable news feeds.

A feed owns an ordered, de-duplicated sequence of posts, a pagination cursor,
a "more available" flag and an optional category filter. Three layers build on
each other:

  - Machine: the pure transition table. It never performs I/O. Operations that
    need a page return a Request; the caller reports the result via Complete.
  - Controller: runs a Machine against a Source on background goroutines,
    serialized by a mutex, and publishes snapshots to a Listener.
  - Registry: holds Controllers by session id, expires idle sessions and runs
    the sweeper as a supervised service.

# States

	Idle ──Mount──▶ Ready ◀──────────────┐
	                  │ Trigger           │ page applied / fetch failed
	                  ▼                   │
	             LoadingMore ─────────────┘
	                  │ empty page
	                  ▼
	              Exhausted

	any ──ChangeFilter(new)──▶ LoadingInitial ──▶ Ready | Exhausted

Triggers are only honored in Ready with more available. Triggers arriving in
any other state are dropped, not queued: the pagination signal is
edge-driven and the client re-fires it while the last item stays visible.

# Stale Results

Every Request carries the epoch of the filter generation that issued it.
ChangeFilter bumps the epoch, so a page still in flight for the previous
filter is discarded on completion. The Controller also cancels that fetch's
context.

# Failures

Source errors never propagate. They are logged, counted, and leave the feed
in Ready with cursor and sequence unchanged so the next trigger retries the
same page.
*/
package feed
