// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package feed

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/models"
)

// Source yields pages of posts. filter is a category id, nil for none.
type Source interface {
	FetchPage(ctx context.Context, page, pageSize int, filter *int) ([]models.Post, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, page, pageSize int, filter *int) ([]models.Post, error)

// FetchPage implements Source.
func (f SourceFunc) FetchPage(ctx context.Context, page, pageSize int, filter *int) ([]models.Post, error) {
	return f(ctx, page, pageSize, filter)
}

// Listener receives a snapshot after every state change. Listeners run
// outside the controller lock and must not block; Version orders snapshots
// that race each other.
type Listener func(sessionID string, snap Snapshot)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// PageSize is passed to the source with every fetch.
	PageSize int

	// FetchTimeout bounds each source call.
	FetchTimeout time.Duration
}

// DefaultControllerConfig returns the default controller settings.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		PageSize:     10,
		FetchTimeout: 15 * time.Second,
	}
}

// Controller drives a Machine against a Source. Fetches run on their own
// goroutine; the machine is only touched under mu, so a controller is safe
// for concurrent use by HTTP handlers and WebSocket clients.
type Controller struct {
	id     string
	src    Source
	cfg    ControllerConfig
	logger zerolog.Logger

	mu         sync.Mutex
	m          *Machine
	inflight   context.CancelFunc
	listener   Listener
	lastActive time.Time
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates an Idle controller identified by id.
func NewController(id string, src Source, cfg ControllerConfig) *Controller {
	def := DefaultControllerConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.ContextWithSessionID(ctx, id)
	return &Controller{
		id:         id,
		src:        src,
		cfg:        cfg,
		logger:     logging.WithComponent("feed").With().Str("session_id", id).Logger(),
		m:          NewMachine(),
		lastActive: time.Now(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// ID returns the session id.
func (c *Controller) ID() string {
	return c.id
}

// SetListener installs the change listener.
func (c *Controller) SetListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// Mount installs the initial page.
func (c *Controller) Mount(initial []models.Post, filter *int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := c.m.Mount(initial, filter); err != nil {
		c.mu.Unlock()
		return err
	}
	c.lastActive = time.Now()
	snap, l := c.m.Snapshot(), c.listener
	c.mu.Unlock()

	c.logger.Debug().Int("items", len(snap.Items)).Str("filter", FilterString(filter)).Msg("Feed mounted")
	c.notify(l, snap)
	return nil
}

// Trigger requests the next page. It returns false when the trigger was
// dropped by the re-entrancy guard. done is closed once the fetch result has
// been applied or discarded.
func (c *Controller) Trigger() (done <-chan struct{}, accepted bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, false
	}
	c.lastActive = time.Now()
	req, ok := c.m.Trigger()
	if !ok {
		state := c.m.State()
		c.mu.Unlock()
		metrics.RecordFeedTriggerIgnored(state.String())
		c.logger.Debug().Str("state", state.String()).Msg("Pagination trigger ignored")
		return nil, false
	}
	return c.startLocked(req), true
}

// ChangeFilter switches the category filter. It returns false when f is
// already active. A fetch still in flight for the previous filter is
// cancelled and its result discarded.
func (c *Controller) ChangeFilter(f *int) (done <-chan struct{}, accepted bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, false
	}
	c.lastActive = time.Now()
	req, ok := c.m.ChangeFilter(f)
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.logger.Debug().Str("filter", FilterString(f)).Uint64("epoch", req.Epoch).Msg("Feed filter changed")
	return c.startLocked(req), true
}

// startLocked launches the fetch for req and releases mu.
func (c *Controller) startLocked(req Request) <-chan struct{} {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.FetchTimeout)
	c.inflight = cancel
	snap, l := c.m.Snapshot(), c.listener
	done := make(chan struct{})
	c.wg.Add(1)
	c.mu.Unlock()

	c.notify(l, snap)
	go c.fetch(ctx, cancel, req, done)
	return done
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, req Request, done chan struct{}) {
	defer c.wg.Done()
	defer close(done)
	defer cancel()

	items, err := c.src.FetchPage(ctx, req.Page, c.cfg.PageSize, req.Filter)

	c.mu.Lock()
	outcome := c.m.Complete(req, items, err)
	if outcome != OutcomeStale {
		c.inflight = nil
	}
	snap, l := c.m.Snapshot(), c.listener
	c.mu.Unlock()

	switch outcome {
	case OutcomeStale:
		metrics.RecordFeedStaleResult()
		c.logger.Debug().Int("page", req.Page).Uint64("epoch", req.Epoch).Msg("Discarded stale page result")
		return
	case OutcomeFailed:
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", req.Kind.String()).
			Int("page", req.Page).
			Str("filter", FilterString(req.Filter)).
			Msg("Feed page fetch failed")
	default:
		c.logger.Debug().
			Str("kind", req.Kind.String()).
			Int("page", req.Page).
			Int("fetched", len(items)).
			Int("items", len(snap.Items)).
			Str("state", snap.State.String()).
			Msg("Feed page applied")
	}
	metrics.RecordFeedFetch(req.Kind.String(), outcome.String())
	c.notify(l, snap)
}

func (c *Controller) notify(l Listener, snap Snapshot) {
	if l != nil {
		l(c.id, snap)
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Snapshot()
}

// Touch marks the session as active.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastActive = time.Now()
	c.mu.Unlock()
}

// LastActive returns when the session was last used.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close cancels any in-flight fetch and waits for it to finish. Later
// triggers and filter changes are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.listener = nil
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}
