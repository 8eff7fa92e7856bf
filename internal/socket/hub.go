// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// BookingEvent is what the admin dashboard receives over the live feed.
type BookingEvent struct {
	Event      string `json:"event"` // created, cancelled, status_changed
	BookingRef string `json:"bookingRef"`
	CarID      string `json:"carID"`
	Status     string `json:"status"`
}

// Hub manages the connected admin dashboard clients.
type Hub struct {
	// clients maps a user id to its connection.
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
	}
}

// Register adds a new client to the Hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	log.Printf("WebSocket client registered: %s", userID)
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		log.Printf("WebSocket client unregistered: %s", userID)
	}
}

// Broadcast pushes a booking event to every connected client. A dead
// connection is logged, not treated as an error; the read loop will reap it.
// The full lock is required: gorilla allows at most one concurrent writer
// per connection, and broadcasts come from both handlers and the cron job.
func (h *Hub) Broadcast(event BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal booking event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("Failed to push booking event to %s: %v", userID, err)
		}
	}
}
