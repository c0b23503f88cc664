// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/logging"
)

// FeedActionResult is the body of the pagination and filter endpoints.
// Accepted is false when the session ignored the request; Feed is then the
// unchanged state.
type FeedActionResult struct {
	Accepted bool      `json:"accepted"`
	Feed     feed.View `json:"feed"`
}

// CreateFeed opens a feed session. Page 1 is fetched before responding; an
// upstream failure still creates the session, empty.
//
// @Summary Create feed session
// @Description Opens an infinite-scroll feed session. Page 1 is fetched and mounted before the response.
// @Tags Feeds
// @Accept json
// @Produce json
// @Param request body FeedFilterRequest false "Optional category filter"
// @Success 201 {object} APIResponse{data=feed.View} "Session created"
// @Failure 400 {object} APIResponse "Invalid request body"
// @Failure 429 {object} APIResponse "Too many sessions created"
// @Failure 504 {object} APIResponse "WordPress timed out before the first page loaded"
// @Router /feeds [post]
func (h *Handler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req FeedFilterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(rw, apiErr)
		return
	}

	c, err := h.registry.Create(r.Context(), req.CategoryID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			respondUpstreamError(rw, r, err)
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Feed session creation failed")
		rw.InternalError("Could not create feed session")
		return
	}

	w.Header().Set("Location", "/api/v1/feeds/"+c.ID())
	rw.Created(h.view(c))
}

// GetFeed returns the current state of a session.
//
// @Summary Get feed session
// @Description Returns the session's loaded posts, cursor and status flags.
// @Tags Feeds
// @Accept json
// @Produce json
// @Param id path string true "Session id (UUID)"
// @Success 200 {object} APIResponse{data=feed.View} "Session state"
// @Failure 400 {object} APIResponse "Invalid session id"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /feeds/{id} [get]
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	c, ok := h.session(rw, r)
	if !ok {
		return
	}
	rw.Success(h.view(c))
}

// LoadMore is the pagination trigger. With ?wait=true it responds after the
// page has been applied; otherwise it answers 202 while the fetch runs.
//
// @Summary Load next page
// @Description Pagination trigger. Ignored (accepted=false) while loading, when exhausted, or when no more pages remain.
// @Tags Feeds
// @Accept json
// @Produce json
// @Param id path string true "Session id (UUID)"
// @Param wait query bool false "Respond after the page is applied"
// @Success 200 {object} APIResponse{data=FeedActionResult} "Page applied, or trigger ignored"
// @Success 202 {object} APIResponse{data=FeedActionResult} "Fetch started"
// @Failure 400 {object} APIResponse "Invalid session id or parameters"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /feeds/{id}/more [post]
func (h *Handler) LoadMore(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	wait, err := getBoolParam(r, "wait")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	c, ok := h.session(rw, r)
	if !ok {
		return
	}

	done, accepted := c.Trigger()
	h.respondAction(rw, r, c, done, accepted, wait)
}

// SetFilter switches the session's category filter. A null category_id
// clears it. Setting the active filter again is not accepted.
//
// @Summary Change feed filter
// @Description Resets the session to page 1 of the given category. A null category_id clears the filter.
// @Tags Feeds
// @Accept json
// @Produce json
// @Param id path string true "Session id (UUID)"
// @Param wait query bool false "Respond after the first page is applied"
// @Param request body FeedFilterRequest true "New category filter"
// @Success 200 {object} APIResponse{data=FeedActionResult} "Filter applied, or unchanged"
// @Success 202 {object} APIResponse{data=FeedActionResult} "Fetch started"
// @Failure 400 {object} APIResponse "Invalid session id or body"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /feeds/{id}/filter [put]
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	wait, err := getBoolParam(r, "wait")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	var req FeedFilterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(rw, apiErr)
		return
	}

	c, ok := h.session(rw, r)
	if !ok {
		return
	}

	done, accepted := c.ChangeFilter(req.CategoryID)
	h.respondAction(rw, r, c, done, accepted, wait)
}

// DeleteFeed tears a session down. WebSocket clients following it receive
// feed_closed.
//
// @Summary Delete feed session
// @Description Tears the session down. WebSocket clients following it receive feed_closed.
// @Tags Feeds
// @Param id path string true "Session id (UUID)"
// @Success 204 "Session deleted"
// @Failure 400 {object} APIResponse "Invalid session id"
// @Failure 404 {object} APIResponse "Session not found"
// @Router /feeds/{id} [delete]
func (h *Handler) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := h.sessionID(rw, r)
	if !ok {
		return
	}
	if err := h.registry.Delete(id); err != nil {
		respondFeedError(rw, err)
		return
	}
	rw.NoContent()
}

// FeedWebSocket upgrades to a WebSocket that streams the session.
//
// @Summary Stream feed session
// @Description Upgrades to a WebSocket. The server sends feed_state on every transition and feed_closed on teardown; clients send load_more, set_filter and ping.
// @Tags Realtime
// @Param id path string true "Session id (UUID)"
// @Success 101 "Switching protocols"
// @Failure 400 {object} APIResponse "Invalid session id"
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 503 {object} APIResponse "WebSocket hub not configured"
// @Router /feeds/{id}/ws [get]
func (h *Handler) FeedWebSocket(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.hub == nil {
		rw.ServiceUnavailable("WebSocket streaming is not enabled")
		return
	}
	c, ok := h.session(rw, r)
	if !ok {
		return
	}
	// the upgrader writes its own error response
	_ = h.hub.ServeSession(w, r, c)
}

// respondAction writes the result of a trigger or filter change.
func (h *Handler) respondAction(rw *ResponseWriter, r *http.Request, c *feed.Controller, done <-chan struct{}, accepted, wait bool) {
	if !accepted {
		rw.Success(FeedActionResult{Accepted: false, Feed: h.view(c)})
		return
	}
	if !wait {
		rw.Accepted(FeedActionResult{Accepted: true, Feed: h.view(c)})
		return
	}

	timer := time.NewTimer(h.waitTimeout())
	defer timer.Stop()

	select {
	case <-done:
		rw.Success(FeedActionResult{Accepted: true, Feed: h.view(c)})
	case <-timer.C:
		rw.Accepted(FeedActionResult{Accepted: true, Feed: h.view(c)})
	case <-r.Context().Done():
		logging.Ctx(r.Context()).Debug().Str("session_id", c.ID()).Msg("Client left while waiting for feed page")
	}
}

// sessionID validates the {id} path segment.
func (h *Handler) sessionID(rw *ResponseWriter, r *http.Request) (string, bool) {
	req := FeedIDRequest{ID: chi.URLParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(rw, apiErr)
		return "", false
	}
	return req.ID, true
}

// session resolves the {id} path segment to a live session.
func (h *Handler) session(rw *ResponseWriter, r *http.Request) (*feed.Controller, bool) {
	id, ok := h.sessionID(rw, r)
	if !ok {
		return nil, false
	}
	c, err := h.registry.Get(id)
	if err != nil {
		respondFeedError(rw, err)
		return nil, false
	}
	return c, true
}

func (h *Handler) view(c *feed.Controller) feed.View {
	snap := c.Snapshot()
	return feed.NewView(c.ID(), &snap, h.scorer)
}
