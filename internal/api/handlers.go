// Package api exposes the read-only operational endpoints: health, usage
// stats and live room inspection. Nothing here mutates session state.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/easelhq/easel/internal/session"
	"github.com/easelhq/easel/internal/store"
	"github.com/easelhq/easel/internal/ws"
)

type API struct {
	registry *session.Registry
	hub      *ws.Hub
	store    *store.Store
}

// New builds the API handler set. store may be nil when telemetry is off.
func New(registry *session.Registry, hub *ws.Hub, st *store.Store) *API {
	return &API{
		registry: registry,
		hub:      hub,
		store:    st,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"active_rooms":   a.registry.RoomCount(),
		"active_clients": a.hub.ClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if a.store != nil {
		totals, err := a.store.GetTotals()
		if err == nil {
			stats["total_sessions"] = totals.Sessions
			stats["total_operations"] = totals.OpsCommitted
		}
	}

	jsonResponse(w, http.StatusOK, stats)
}

type roomResponse struct {
	ID           string `json:"id"`
	Participants int    `json:"participants"`
}

// RoomsRouter serves GET /api/rooms and GET /api/rooms/{id}.
func (a *API) RoomsRouter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/rooms")
	id = strings.Trim(id, "/")

	if id == "" {
		a.listRooms(w)
		return
	}
	a.roomStats(w, id)
}

func (a *API) listRooms(w http.ResponseWriter) {
	active := a.registry.ActiveRooms()

	rooms := make([]roomResponse, 0, len(active))
	for id, participants := range active {
		rooms = append(rooms, roomResponse{ID: id, Participants: participants})
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"count": len(rooms),
	})
}

func (a *API) roomStats(w http.ResponseWriter, id string) {
	stats, ok := a.registry.Stats(id)
	if !ok {
		errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"id":                id,
		"operation_count":   stats.OperationCount,
		"pointer":           stats.Pointer,
		"participant_count": stats.ParticipantCount,
		"can_undo":          stats.CanUndo,
		"can_redo":          stats.CanRedo,
	})
}
