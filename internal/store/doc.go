// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

// Package store persists last-known-good WordPress responses in BadgerDB.
//
// The cached WordPress client writes every successful upstream response here
// and reads it back when the upstream fails or its circuit breaker is open,
// so readers keep getting content during an outage. Values are JSON wrapped
// in a Snapshot envelope that records when they were saved, and every key
// carries a TTL so stale content eventually disappears.
//
// An empty Config.Path opens Badger in memory, which is what tests and
// single-shot deployments use.
package store
