// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
	sendBuffer     = 256
)

// Error codes sent in error messages.
const (
	ErrCodeBadMessage     = "BAD_MESSAGE"
	ErrCodeUnknownMessage = "UNKNOWN_MESSAGE"
)

// clientIDCounter gives clients a stable delivery order.
var clientIDCounter atomic.Uint64

// Session is the part of a feed session a WebSocket client drives.
// *feed.Controller implements it.
type Session interface {
	ID() string
	Snapshot() feed.Snapshot
	Trigger() (<-chan struct{}, bool)
	ChangeFilter(f *int) (<-chan struct{}, bool)
	Touch()
	Closed() bool
}

// SetFilterData is the payload of a set_filter message.
type SetFilterData struct {
	CategoryID *int `json:"category_id" validate:"omitempty,min=1"`
}

// inboundMessage defers decoding of Data until the type is known.
type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id        uint64
	hub       *Hub
	conn      *websocket.Conn
	session   Session
	sessionID string
	send      chan Message
	logger    zerolog.Logger
}

// NewClient creates a client bound to one feed session.
func NewClient(hub *Hub, conn *websocket.Conn, session Session) *Client {
	return &Client{
		id:        clientIDCounter.Add(1),
		hub:       hub,
		conn:      conn,
		session:   session,
		sessionID: session.ID(),
		send:      make(chan Message, sendBuffer),
		logger:    hub.logger.With().Str("session_id", session.ID()).Logger(),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// SessionID returns the feed session the client follows.
func (c *Client) SessionID() string {
	return c.sessionID
}

// readPump pumps messages from the websocket connection to the session
func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		c.session.Touch()
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				c.logger.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()
		c.session.Touch()
		c.handle(data)
	}
}

// handle applies one client message. Replies go through the send queue.
func (c *Client) handle(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		c.reply(errorMessage(ErrCodeBadMessage, "message is not valid JSON"))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.reply(Message{Type: MessageTypePong})

	case MessageTypeLoadMore:
		if _, accepted := c.session.Trigger(); !accepted {
			// no transition will be broadcast, so resync this client
			c.replyState()
		}

	case MessageTypeSetFilter:
		var req SetFilterData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				metrics.WSErrors.WithLabelValues("decode").Inc()
				c.reply(errorMessage(ErrCodeBadMessage, "set_filter data must be {\"category_id\": number|null}"))
				return
			}
		}
		if verr := validation.ValidateStruct(&req); verr != nil {
			apiErr := verr.ToAPIError()
			c.reply(errorMessage(apiErr.Code, apiErr.Message))
			return
		}
		if _, accepted := c.session.ChangeFilter(req.CategoryID); !accepted {
			c.replyState()
		}

	default:
		c.reply(errorMessage(ErrCodeUnknownMessage, "unknown message type: "+msg.Type))
	}
}

func errorMessage(code, message string) Message {
	return Message{Type: MessageTypeError, Data: ErrorData{Code: code, Message: message}}
}

// reply queues msg for this client only. Sends race with hub teardown, so
// they take the hub lock and check membership first.
func (c *Client) reply(msg Message) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		metrics.WSErrors.WithLabelValues("send_buffer_full").Inc()
	}
}

func (c *Client) replyState() {
	snap := c.session.Snapshot()
	c.reply(c.hub.render(c.sessionID, &snap))
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			data, err := MarshalMessage(message)
			if err != nil {
				metrics.WSErrors.WithLabelValues("encode").Inc()
				c.logger.Error().Err(err).Str("message_type", message.Type).Msg("failed to encode message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.logger.Debug().Err(err).Msg("failed to write message")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
