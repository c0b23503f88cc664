// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
)

// RegistryConfig configures session lifetime.
type RegistryConfig struct {
	// IdleTTL is how long a session may go unused before the sweeper removes it.
	IdleTTL time.Duration

	// SweepInterval is how often Serve runs Sweep.
	SweepInterval time.Duration

	// MaxSessions caps live sessions; the least recently used is evicted to
	// make room. Zero means unlimited.
	MaxSessions int

	// Controller is applied to every session.
	Controller ControllerConfig
}

// DefaultRegistryConfig returns the default registry settings.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		IdleTTL:       30 * time.Minute,
		SweepInterval: time.Minute,
		MaxSessions:   10000,
		Controller:    DefaultControllerConfig(),
	}
}

// Registry owns the live feed sessions.
type Registry struct {
	src    Source
	cfg    RegistryConfig
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Controller
	listener Listener
	removed  func(sessionID string)
}

// NewRegistry creates an empty registry.
func NewRegistry(src Source, cfg RegistryConfig) *Registry {
	def := DefaultRegistryConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	return &Registry{
		src:      src,
		cfg:      cfg,
		logger:   logging.WithComponent("feed-registry"),
		sessions: make(map[string]*Controller),
	}
}

// SetListener installs the change listener for current and future sessions.
// onRemove, when non-nil, is called after a session is deleted or expires.
func (r *Registry) SetListener(l Listener, onRemove func(sessionID string)) {
	r.mu.Lock()
	r.listener = l
	r.removed = onRemove
	sessions := make([]*Controller, 0, len(r.sessions))
	for _, c := range r.sessions {
		sessions = append(sessions, c)
	}
	r.mu.Unlock()

	for _, c := range sessions {
		c.SetListener(l)
	}
}

// Create opens a session: page 1 for filter is fetched synchronously and
// mounted. A failed first fetch is logged and the session mounts empty.
func (r *Registry) Create(ctx context.Context, filter *int) (*Controller, error) {
	id := uuid.New().String()
	c := NewController(id, r.src, r.cfg.Controller)

	fetchCtx, cancel := context.WithTimeout(logging.ContextWithSessionID(ctx, id), c.cfg.FetchTimeout)
	initial, err := r.src.FetchPage(fetchCtx, FirstPage, c.cfg.PageSize, filter)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			c.Close()
			return nil, ctx.Err()
		}
		metrics.RecordFeedFetch(KindInitial.String(), OutcomeFailed.String())
		logging.Ctx(fetchCtx).Warn().Err(err).Str("filter", FilterString(filter)).Msg("Initial page fetch failed, mounting empty feed")
		initial = nil
	}

	r.mu.Lock()
	evicted := r.evictForCapacityLocked()
	c.SetListener(r.listener)
	r.sessions[id] = c
	n := len(r.sessions)
	r.mu.Unlock()

	r.closeAll(evicted)
	metrics.SetFeedSessions(n)

	if err := c.Mount(initial, filter); err != nil {
		return nil, err
	}
	r.logger.Info().Str("session_id", id).Int("items", len(initial)).Str("filter", FilterString(filter)).Msg("Feed session created")
	return c, nil
}

// Get returns a session and marks it active.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	c, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	c.Touch()
	return c, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	c, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	r.closeAll([]*Controller{c})
	metrics.SetFeedSessions(n)
	r.logger.Debug().Str("session_id", id).Msg("Feed session deleted")
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle since before now minus IdleTTL and returns how
// many were removed.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var expired []*Controller
	for id, c := range r.sessions {
		if c.LastActive().Before(cutoff) {
			expired = append(expired, c)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	r.closeAll(expired)
	metrics.SetFeedSessions(n)
	metrics.RecordFeedSessionsExpired(len(expired))
	if len(expired) > 0 {
		r.logger.Info().Int("expired", len(expired)).Int("remaining", n).Msg("Expired idle feed sessions")
	}
	return len(expired)
}

// evictForCapacityLocked removes the least recently used sessions until one
// more fits. Must be called with mu held.
func (r *Registry) evictForCapacityLocked() []*Controller {
	if r.cfg.MaxSessions <= 0 {
		return nil
	}
	var evicted []*Controller
	for len(r.sessions) >= r.cfg.MaxSessions {
		var oldest *Controller
		var oldestAt time.Time
		for _, c := range r.sessions {
			at := c.LastActive()
			if oldest == nil || at.Before(oldestAt) {
				oldest, oldestAt = c, at
			}
		}
		delete(r.sessions, oldest.ID())
		evicted = append(evicted, oldest)
	}
	if len(evicted) > 0 {
		metrics.RecordFeedSessionsExpired(len(evicted))
		r.logger.Warn().Int("evicted", len(evicted)).Int("max_sessions", r.cfg.MaxSessions).Msg("Session limit reached, evicted least recently used")
	}
	return evicted
}

func (r *Registry) closeAll(sessions []*Controller) {
	r.mu.RLock()
	onRemove := r.removed
	r.mu.RUnlock()

	for _, c := range sessions {
		c.Close()
		if onRemove != nil {
			onRemove(c.ID())
		}
	}
}

// Close removes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Controller, 0, len(r.sessions))
	for id, c := range r.sessions {
		all = append(all, c)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	r.closeAll(all)
	metrics.SetFeedSessions(0)
}

// Serve runs the idle sweeper until ctx is cancelled. It implements
// suture.Service.
func (r *Registry) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	r.logger.Info().
		Dur("idle_ttl", r.cfg.IdleTTL).
		Dur("sweep_interval", r.cfg.SweepInterval).
		Msg("Feed session sweeper started")

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return ctx.Err()
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (r *Registry) String() string {
	return "feed-session-sweeper"
}
