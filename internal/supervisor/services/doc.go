// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

// Package services adapts components without a context-aware run loop to
// suture.Service: HTTPServerService drives an *http.Server and
// StoreGCService runs snapshot store GC on a ticker. feed.Registry and
// websocket.Hub implement suture.Service themselves and are added to the
// tree directly.
package services
