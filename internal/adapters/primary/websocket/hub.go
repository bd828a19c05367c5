package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lorrc/kanban-board/internal/core/domain"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

// Hub maintains the set of active Clients and fans board events out to them.
type Hub struct {
	// clients maps preference scopes to their active connections.
	// A single viewer can have multiple connections (multiple tabs/devices).
	clients map[string]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// done is closed once Run has returned.
	done     chan struct{}
	doneOnce sync.Once

	// mu protects the clients map
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for delivery. Events with a scope reach only
// that viewer's connections; unscoped events reach everyone. A full queue
// drops the event rather than blocking the caller.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"scope", event.Scope,
		)
	}
	return nil
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.doneOnce.Do(func() { close(h.done) })
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Attach hands client to the running hub. It reports false once the hub
// has shut down; the caller then owns closing the connection.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Detach removes client. After shutdown the removal happens inline.
func (h *Hub) Detach(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
		h.unregisterClient(client)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Scope] == nil {
		h.clients[client.Scope] = make(map[*Client]bool)
	}
	h.clients[client.Scope][client] = true

	h.logger.Info("client registered",
		"scope", client.Scope,
		"total_connections", len(h.clients[client.Scope]),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	scoped, ok := h.clients[client.Scope]
	if !ok || !scoped[client] {
		return
	}
	delete(scoped, client)
	if len(scoped) == 0 {
		delete(h.clients, client.Scope)
	}

	client.CloseSend()

	h.logger.Info("client unregistered", "scope", client.Scope)
}

// recipients snapshots the clients an event should reach.
func (h *Hub) recipients(scope string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Client
	for s, scoped := range h.clients {
		if scope != "" && s != scope {
			continue
		}
		for client := range scoped {
			out = append(out, client)
		}
	}
	return out
}

func (h *Hub) broadcastEvent(event domain.Event) {
	clients := h.recipients(event.Scope)

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"scope", event.Scope,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
		default:
			h.logger.Warn("client send buffer full, unregistering", "scope", client.Scope)
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for scope, scoped := range h.clients {
		for client := range scoped {
			client.CloseSend()
		}
		delete(h.clients, scope)
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, scoped := range h.clients {
		count += len(scoped)
	}
	return count
}

// IsScopeConnected checks if a viewer scope has any active connections
func (h *Hub) IsScopeConnected(scope string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[scope]
	return ok && len(clients) > 0
}
