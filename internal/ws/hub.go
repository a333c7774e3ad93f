// Package ws carries the realtime side of the server: the room-scoped
// broadcast hub, the per-connection protocol dispatcher and the WebSocket
// client pumps.
package ws

import (
	"log"
	"sync"
)

// Conn is one client connection as the dispatcher sees it. Send must never
// block; delivery is fire-and-forget.
type Conn interface {
	ID() string
	Send(data []byte)
}

// Multicaster is the room-scoped broadcast capability. The handler only
// talks to this interface, so tests run it against an in-memory fake.
type Multicaster interface {
	Join(roomID string, c Conn)
	Leave(roomID string, c Conn)
	// Multicast delivers data to every member of the room, skipping exclude
	// when non-nil.
	Multicast(roomID string, data []byte, exclude Conn)
}

// Hub is the concrete transport: room membership plus multicast delivery.
// Calls are synchronous under one mutex, so broadcasts enqueued while a
// room's lock is held reach every member in mutation order.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Conn]bool),
	}
}

func (h *Hub) Join(roomID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[Conn]bool)
	}
	h.rooms[roomID][c] = true
	log.Printf("Client %s joined room %s (total: %d)", c.ID(), roomID, len(h.rooms[roomID]))
}

func (h *Hub) Leave(roomID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) Multicast(roomID string, data []byte, exclude Conn) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[roomID] {
		if c != exclude {
			c.Send(data)
		}
	}
}

// RoomCount returns the number of rooms with at least one member.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// ClientCount returns the number of connections across all rooms.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.rooms {
		count += len(clients)
	}
	return count
}
