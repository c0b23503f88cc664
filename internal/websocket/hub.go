// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/recommend"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline means the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	// server to client
	MessageTypeFeedState  = "feed_state"
	MessageTypeFeedClosed = "feed_closed"
	MessageTypeError      = "error"
	MessageTypePong       = "pong"

	// client to server
	MessageTypePing      = "ping"
	MessageTypeLoadMore  = "load_more"
	MessageTypeSetFilter = "set_filter"
)

const (
	broadcastBuffer = 256
	closeBuffer     = 64
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FeedClosedData is the payload of a feed_closed message.
type FeedClosedData struct {
	SessionID string `json:"session_id"`
}

// envelope is a message addressed to every client of one session.
type envelope struct {
	sessionID string
	msg       Message
}

// HubConfig configures a Hub.
type HubConfig struct {
	// Scorer ranks related posts in feed_state views. Nil omits them.
	Scorer *recommend.Scorer

	// AllowedOrigins is checked against the Origin header on upgrade.
	// Empty means same-origin only; "*" allows any origin.
	AllowedOrigins []string
}

// Hub fans feed session snapshots out to the WebSocket clients subscribed to
// each session.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	sessions map[string]map[*Client]struct{}

	broadcast    chan envelope
	closeSession chan string

	scorer  *recommend.Scorer
	origins []string
	logger  zerolog.Logger

	// render builds a feed_state message. Notify only calls it for
	// sessions with clients.
	render func(sessionID string, snap *feed.Snapshot) Message
}

// NewHub creates a new Hub
func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		clients:      make(map[*Client]bool),
		sessions:     make(map[string]map[*Client]struct{}),
		broadcast:    make(chan envelope, broadcastBuffer),
		closeSession: make(chan string, closeBuffer),
		scorer:       cfg.Scorer,
		origins:      cfg.AllowedOrigins,
		logger:       logging.WithComponent("websocket-hub"),
	}
	h.render = h.stateMessage
	return h
}

// RunWithContext delivers queued messages until ctx is canceled, then closes
// every client and returns ctx.Err().
//
// Shutdown is checked first and session teardown before broadcasts, so a
// closed session never receives a late snapshot.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case id := <-h.closeSession:
			h.closeSessionClients(id)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case id := <-h.closeSession:
			h.closeSessionClients(id)
		case env := <-h.broadcast:
			h.broadcastToSession(env)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervisor logs.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	n := h.GetClientCount()
	h.closeAllClients()
	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// addClient subscribes c to its session.
func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	subs, ok := h.sessions[c.sessionID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.sessions[c.sessionID] = subs
	}
	subs[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	h.logger.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client connected")
}

// removeClient unsubscribes c and closes its send channel. Safe to call more
// than once.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		h.logger.Info().Str("session_id", c.sessionID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

func (h *Hub) removeLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	if subs, ok := h.sessions[c.sessionID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.sessions, c.sessionID)
		}
	}
	close(c.send)
	metrics.WSConnections.Dec()
	return true
}

// sortedLocked returns clients ordered by id so delivery order is stable.
func sortedLocked(set map[*Client]struct{}) []*Client {
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// broadcastToSession sends to every subscriber of one session. Clients whose
// send buffer is full are dropped.
func (h *Hub) broadcastToSession(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, c := range sortedLocked(h.sessions[env.sessionID]) {
		select {
		case c.send <- env.msg:
		default:
			toRemove = append(toRemove, c)
		}
	}
	for _, c := range toRemove {
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
		h.removeLocked(c)
	}
}

// closeSessionClients tells every subscriber the session is gone and then
// disconnects them.
func (h *Hub) closeSessionClients(sessionID string) {
	h.mu.Lock()
	clients := sortedLocked(h.sessions[sessionID])
	msg := Message{Type: MessageTypeFeedClosed, Data: FeedClosedData{SessionID: sessionID}}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
		}
		h.removeLocked(c)
	}
	h.mu.Unlock()

	if len(clients) > 0 {
		h.logger.Info().Str("session_id", sessionID).Int("clients_closed", len(clients)).Msg("feed session closed, websocket clients disconnected")
	}
}

// closeClient sends c a feed_closed message and disconnects it. It is a
// no-op when c is already gone.
func (h *Hub) closeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- Message{Type: MessageTypeFeedClosed, Data: FeedClosedData{SessionID: c.sessionID}}:
	default:
	}
	h.removeLocked(c)
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	all := make(map[*Client]struct{}, len(h.clients))
	for c := range h.clients {
		all[c] = struct{}{}
	}
	for _, c := range sortedLocked(all) {
		h.removeLocked(c)
	}
}

// Notify is a feed.Listener: it renders snap and queues it for the session's
// subscribers. Sessions without subscribers are skipped before rendering. It
// never blocks; a full queue drops the message.
func (h *Hub) Notify(sessionID string, snap feed.Snapshot) {
	if !h.hasSubscribers(sessionID) {
		return
	}
	h.publish(sessionID, h.render(sessionID, &snap))
}

// SessionClosed queues teardown of a session's clients. It is the registry's
// removal callback.
func (h *Hub) SessionClosed(sessionID string) {
	select {
	case h.closeSession <- sessionID:
	default:
		h.logger.Warn().Str("session_id", sessionID).Msg("session close queue full, clients will time out")
	}
}

func (h *Hub) publish(sessionID string, msg Message) {
	if !h.hasSubscribers(sessionID) {
		return
	}
	select {
	case h.broadcast <- envelope{sessionID: sessionID, msg: msg}:
	default:
		metrics.WSErrors.WithLabelValues("broadcast_full").Inc()
		h.logger.Warn().Str("session_id", sessionID).Str("message_type", msg.Type).Msg("broadcast channel full, dropping message")
	}
}

func (h *Hub) stateMessage(sessionID string, snap *feed.Snapshot) Message {
	return Message{Type: MessageTypeFeedState, Data: feed.NewView(sessionID, snap, h.scorer)}
}

func (h *Hub) hasSubscribers(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID]) > 0
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients subscribed to sessionID.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
