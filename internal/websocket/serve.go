// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package websocket

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
)

// ServeSession upgrades the request and streams session to the connection.
// The client receives the current snapshot immediately, then one feed_state
// message per transition. On failure the upgrader has already written an
// HTTP error response.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, session Session) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Str("session_id", session.ID()).Msg("websocket upgrade failed")
		return err
	}

	client := NewClient(h, conn, session)
	h.addClient(client)

	// The registry closes a session before announcing its removal, so a
	// client that subscribed after the announcement is caught here.
	if session.Closed() {
		h.closeClient(client)
		client.Start()
		return nil
	}

	session.Touch()
	client.replyState()
	client.Start()
	return nil
}

// checkOrigin accepts requests without an Origin header, any origin when
// "*" is configured, listed origins, and otherwise same-host origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
