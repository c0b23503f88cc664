// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"time"

	"github.com/tomtom215/pressfeed/internal/config"
	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/recommend"
	"github.com/tomtom215/pressfeed/internal/wordpress"
	ws "github.com/tomtom215/pressfeed/internal/websocket"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports the WordPress circuit breaker state
// ("closed", "half-open", "open").
type BreakerStater interface {
	State() string
}

// HandlerDeps are the collaborators of Handler. Breaker and Store are
// optional.
type HandlerDeps struct {
	WordPress wordpress.API
	Breaker   BreakerStater
	Store     Pinger
	Registry  *feed.Registry
	Hub       *ws.Hub
	Scorer    *recommend.Scorer
	Config    *config.Config
	Version   string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and readiness probes
//   - handlers_posts.go: posts, single post with related posts, categories
//   - handlers_feeds.go: feed sessions over HTTP and WebSocket
type Handler struct {
	wp        wordpress.API
	breaker   BreakerStater
	store     Pinger
	registry  *feed.Registry
	hub       *ws.Hub
	scorer    *recommend.Scorer
	config    *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps HandlerDeps) *Handler {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = recommend.NewScorer(recommend.DefaultConfig())
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Handler{
		wp:        deps.WordPress,
		breaker:   deps.Breaker,
		store:     deps.Store,
		registry:  deps.Registry,
		hub:       deps.Hub,
		scorer:    scorer,
		config:    cfg,
		version:   deps.Version,
		startTime: time.Now(),
	}
}

// waitTimeout bounds ?wait=true requests: one fetch plus slack.
func (h *Handler) waitTimeout() time.Duration {
	return h.config.Feed.FetchTimeout + 2*time.Second
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping implements Pinger.
func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}
