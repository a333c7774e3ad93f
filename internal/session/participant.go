package session

import (
	"time"

	"github.com/easelhq/easel/internal/board"
)

// Participant is one connection's presence inside a room. Cursor and Drawing
// are ephemeral presence state and never enter the operation log.
type Participant struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Color    string      `json:"color"`
	Cursor   board.Point `json:"cursor"`
	Drawing  bool        `json:"drawing"`
	JoinedAt time.Time   `json:"joined_at"`

	colorIndex int
}
