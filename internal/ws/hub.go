// Package ws fans newly stored readings out to connected dashboard viewers.
package ws

import (
	"sync"

	"github.com/JonasdeSouza/rusty-weather/internal/metrics"
	"github.com/JonasdeSouza/rusty-weather/internal/models"
)

// Hub owns the set of viewer connections. Registration, removal and fan-out
// all go through its channels; no other component touches the client set.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.ReadingEvent
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan models.ReadingEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.ViewersConnected.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			h.drop(client)
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(event.Reading.Topic) {
					continue
				}
				select {
				case client.send <- event:
				default:
					// Stalled viewer: unregister instead of blocking fan-out.
					h.drop(client)
					metrics.ViewersDropped.Inc()
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client if still registered. Safe to call twice; the second
// call is a no-op. Caller holds h.mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.ViewersConnected.Dec()
	}
}

// Register adds a viewer connection to the fan-out set.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a viewer connection. Idempotent.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast hands a stored reading to every registered viewer. Called by the
// ingest loop after each successful store write.
func (h *Hub) Broadcast(event models.ReadingEvent) {
	metrics.BroadcastsTotal.Inc()
	h.broadcast <- event
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
