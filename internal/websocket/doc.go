// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

/*
Package websocket streams feed session snapshots to browsers.

Each Client follows exactly one feed session. The Hub keeps a per-session
subscriber set and is registered as the session registry's listener, so every
applied feed transition becomes one feed_state message to that session's
clients. When the registry deletes or expires a session the hub sends
feed_closed and disconnects its clients.

Messages (JSON, {"type": ..., "data": ...}):

Server to client:

  - feed_state: the session view (items, related posts, featured id,
    loading and end-of-feed flags, version)
  - feed_closed: the session was deleted or expired
  - error: {"code", "message"} for a message the server could not apply
  - pong: reply to ping

Client to server:

  - load_more: pagination trigger
  - set_filter: {"category_id": number|null}
  - ping

Triggers the session ignores produce no transition, so the client is sent
the current feed_state instead. Snapshots carry a version; a client that
sees a lower version than one it already rendered should drop it.

Each client runs a read and a write goroutine. The write side pings every
54s and the read side expects a pong within 60s; pongs and inbound messages
keep the session from idling out.

Usage:

	hub := websocket.NewHub(websocket.HubConfig{Scorer: scorer, AllowedOrigins: origins})
	registry.SetListener(hub.Notify, hub.SessionClosed)
	supervisor.AddMessagingService(hub)

	// in the /feeds/{id}/ws handler
	_ = hub.ServeSession(w, r, controller)
*/
package websocket
