package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
)

// Hub maintains the set of live dashboard pages and broadcasts events to them.
type Hub struct {
	// clients maps viewer IDs to their active connections. A viewer may
	// have several tabs open.
	clients map[uuid.UUID]map[*Client]bool

	// broadcast carries events for every connected page
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// done is closed when Run returns
	done chan struct{}

	// mu protects the clients map
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for every connected page. A full queue drops the
// event.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event", "event_type", event.Type)
	}
	return nil
}

// Run starts the hub's event loop until ctx is cancelled, then closes every
// connection's send queue. This MUST be run as a goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// register hands client to the event loop unless the hub has stopped.
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister hands client back to the event loop unless the hub has stopped.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.ViewerID] == nil {
		h.clients[client.ViewerID] = make(map[*Client]bool)
	}
	h.clients[client.ViewerID][client] = true

	h.logger.Info("client registered",
		"viewer_id", client.ViewerID,
		"total_connections", len(h.clients[client.ViewerID]),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if viewerClients, ok := h.clients[client.ViewerID]; ok {
		if _, exists := viewerClients[client]; exists {
			delete(viewerClients, client)
			if len(viewerClients) == 0 {
				delete(h.clients, client.ViewerID)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered", "viewer_id", client.ViewerID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for viewerID, viewerClients := range h.clients {
		for client := range viewerClients {
			client.CloseSend()
		}
		delete(h.clients, viewerID)
	}
	h.logger.Info("websocket hub stopped")
}

// broadcastEvent sends an event to every client
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, viewerClients := range h.clients {
		for client := range viewerClients {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if !client.enqueue(event) {
			// Client's send buffer is full, drop it
			h.logger.Warn("client send buffer full, unregistering", "viewer_id", client.ViewerID)
			h.unregisterClient(client)
		}
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, viewerClients := range h.clients {
		count += len(viewerClients)
	}
	return count
}
