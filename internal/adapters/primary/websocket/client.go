package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/infrastructure/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Upper bound for recomputing one date range.
	rangeTimeout = 2 * time.Minute
)

// RangeHandler answers a date-range event with the event to send back,
// either EventSummaryUpdated or EventError.
type RangeHandler func(ctx context.Context, start, end string) domain.Event

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan domain.Event

	// Viewer ID carried by the connection token.
	ViewerID uuid.UUID

	onRange RangeHandler
	allow   func() bool

	// ctx outlives the upgrade request and carries its logging values
	ctx context.Context

	// mu guards closed so replies never race the hub closing Send
	mu     sync.Mutex
	closed bool

	logger *slog.Logger
}

// NewClient creates a new WebSocket client. ctx supplies the logging values
// of the upgrade request; its cancellation is ignored.
func NewClient(ctx context.Context, hub *Hub, conn *websocket.Conn, viewerID uuid.UUID, onRange RangeHandler, logger *slog.Logger) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan domain.Event, 16),
		ViewerID: viewerID,
		onRange:  onRange,
		allow:    func() bool { return true },
		ctx:      logging.WithViewerID(context.WithoutCancel(ctx), viewerID.String()),
		logger:   logger.With("component", "websocket_client"),
	}
}

// LimitEvents installs a gate consulted before each date-range event.
func (c *Client) LimitEvents(allow func() bool) {
	if allow != nil {
		c.allow = allow
	}
}

// Serve registers the client and starts its pumps. It returns false when
// the hub has already stopped.
func (c *Client) Serve() bool {
	if !c.Hub.register(c) {
		_ = c.Conn.Close()
		return false
	}
	go c.WritePump()
	go c.ReadPump()
	return true
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// enqueue queues event without blocking. It reports false when the queue is
// full or already closed.
func (c *Client) enqueue(event domain.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// ReadPump reads events from the page. Events are handled one at a time, in
// arrival order. This method runs in its own goroutine.
func (c *Client) ReadPump() {
	ctx, cancel := context.WithCancel(c.ctx)
	defer func() {
		cancel()
		c.Hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.ErrorContext(ctx, "failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.ErrorContext(ctx, "failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.WarnContext(ctx, "websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(ctx, message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.ErrorContext(c.ctx, "failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.DebugContext(c.ctx, "failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.ErrorContext(c.ctx, "failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.ErrorContext(c.ctx, "failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(c.ctx, "failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the page.
type ClientMessage struct {
	Type    domain.EventType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

// handleIncomingMessage processes messages received from the page
func (c *Client) handleIncomingMessage(ctx context.Context, message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.WarnContext(ctx, "failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case domain.EventSetDateRange:
		c.handleDateRange(ctx, msg.Payload)

	case domain.EventPing:
		c.enqueue(domain.Event{Type: domain.EventPong})

	default:
		c.logger.DebugContext(ctx, "received unknown message type", "type", msg.Type)
	}
}

func (c *Client) handleDateRange(ctx context.Context, payload json.RawMessage) {
	var p domain.DateRangePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.WarnContext(ctx, "failed to unmarshal date range payload", "error", err)
		c.enqueue(errorEvent(apperrors.NewBadRequestError(err, "invalid date range payload")))
		return
	}

	if !c.allow() {
		c.enqueue(errorEvent(apperrors.NewRateLimitError()))
		return
	}

	rangeCtx, cancel := context.WithTimeout(ctx, rangeTimeout)
	defer cancel()

	reply := c.onRange(rangeCtx, p.Start, p.End)
	if !c.enqueue(reply) {
		c.logger.WarnContext(ctx, "reply dropped", "event_type", reply.Type)
	}
}

func errorEvent(err *apperrors.AppError) domain.Event {
	return domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{
		Message: err.Message,
		Code:    err.Code,
	}}
}
