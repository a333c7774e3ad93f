// Package board holds the shared drawing model: strokes, operations and the
// per-room operation history with its undo/redo pointer.
package board

import "time"

// A single point on the canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tool identifies how a stroke is painted
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolBrush || t == ToolEraser
}

// OpKind is the kind of a committed operation
type OpKind string

const (
	OpDraw  OpKind = "draw"
	OpClear OpKind = "clear"
)

// StrokeStyle is the style chosen when a stroke starts
type StrokeStyle struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Tool  Tool    `json:"tool"`
}

// Stroke is a finished drawing gesture: style plus its ordered points
type Stroke struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Tool   Tool    `json:"tool"`
}

// Operation is one committed, immutable entry in a room's history.
//
// Seq is the authoritative order key: a per-room monotonically increasing
// sequence number assigned on commit, never reused even after the log is
// truncated by a draw-after-undo. ID is an opaque identifier used only for
// client-side correlation and must not be used for ordering.
type Operation struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"seq"`
	Kind          OpKind    `json:"kind"`
	ParticipantID string    `json:"participant_id"`
	CreatedAt     time.Time `json:"created_at"`
	Stroke        *Stroke   `json:"stroke,omitempty"`
}
