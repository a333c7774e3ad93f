// Package session owns the set of active rooms and the state inside each:
// operation history, participants and their presence.
package session

import (
	"log"
	"sync"

	"github.com/easelhq/easel/internal/board"
)

// Registry tracks every active room. Rooms are created lazily on join and
// deleted the moment their last participant leaves — there is no grace
// period and no persistence, so a deleted room's history is gone.
//
// The registry lock only guards the room map; per-operation hot paths
// (commit, undo, redo, clear, cursor) go straight to the room's own lock.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room, creating an empty one if absent.
func (g *Registry) GetOrCreate(id string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.getOrCreateLocked(id)
}

func (g *Registry) getOrCreateLocked(id string) *Room {
	if r, ok := g.rooms[id]; ok {
		return r
	}
	r := newRoom(id)
	g.rooms[id] = r
	log.Printf("Room %s created", id)
	return r
}

// Get returns the room if it exists.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// Join registers a participant, creating the room if needed, and returns
// their snapshot. announce runs under the room lock, so broadcasts enqueued
// there cannot interleave with later commits.
// The registry lock is held for the duration so a concurrent last-leave
// cannot delete the room out from under the joiner.
func (g *Registry) Join(roomID, participantID, name string, announce func(Snapshot)) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	room := g.getOrCreateLocked(roomID)
	return room.join(participantID, name, announce)
}

// Leave removes a participant. When the room empties it is deleted and its
// closing summary returned for telemetry; otherwise summary is nil.
// announce runs under the room lock with the removed participant.
func (g *Registry) Leave(roomID, participantID string, announce func(Participant)) (summary *Summary, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, exists := g.rooms[roomID]
	if !exists {
		return nil, false
	}

	remaining, removed := room.leave(participantID, announce)
	if !removed {
		return nil, false
	}

	if remaining == 0 {
		delete(g.rooms, roomID)
		s := room.summary()
		log.Printf("Room %s closed (empty), history discarded", roomID)
		return &s, true
	}
	return nil, true
}

// UpdateCursor is a no-op when the room or participant is unknown.
func (g *Registry) UpdateCursor(roomID, participantID string, pos board.Point, drawing bool) bool {
	room, ok := g.Get(roomID)
	if !ok {
		return false
	}
	return room.UpdateCursor(participantID, pos, drawing)
}

// Stats returns room statistics, or ok=false for an unknown room.
func (g *Registry) Stats(roomID string) (Stats, bool) {
	room, ok := g.Get(roomID)
	if !ok {
		return Stats{}, false
	}
	return room.Stats(), true
}

// RoomCount returns the number of active rooms.
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// ActiveRooms maps room ids to their current participant counts.
func (g *Registry) ActiveRooms() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]int, len(g.rooms))
	for id, room := range g.rooms {
		out[id] = room.Stats().ParticipantCount
	}
	return out
}
