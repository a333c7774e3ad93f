// Package protocol defines the wire messages exchanged with clients: a JSON
// envelope tagging one of a closed set of message kinds, with a typed
// payload per kind.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/easelhq/easel/internal/board"
	"github.com/easelhq/easel/internal/session"
)

// Kind tags a message. Client and server kinds share one namespace.
type Kind string

const (
	// Client -> server
	KindJoin         Kind = "join"
	KindStrokeStart  Kind = "stroke-start"
	KindStrokeAppend Kind = "stroke-append"
	KindStrokeEnd    Kind = "stroke-end"
	KindCursor       Kind = "cursor"
	KindUndo         Kind = "undo"
	KindRedo         Kind = "redo"
	KindClear        Kind = "clear"

	// Server -> client
	KindSnapshot          Kind = "snapshot"
	KindParticipantJoined Kind = "participant-joined"
	KindParticipantLeft   Kind = "participant-left"
	KindStrokeCommitted   Kind = "stroke-committed"
	KindCleared           Kind = "cleared"
	KindError             Kind = "error"
)

// Envelope is the outer frame of every message.
type Envelope struct {
	Kind    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode parses the outer envelope. Payload stays raw until the dispatcher
// knows the kind.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Kind == "" {
		return Envelope{}, fmt.Errorf("malformed envelope: missing type")
	}
	return env, nil
}

// Encode frames a payload under the given kind.
func Encode(kind Kind, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return json.Marshal(Envelope{Kind: kind, Payload: raw})
}

// MustEncode is Encode for payloads built by the server itself, where a
// marshal failure is a programming error.
func MustEncode(kind Kind, payload any) []byte {
	data, err := Encode(kind, payload)
	if err != nil {
		panic(err)
	}
	return data
}

// Client -> server payloads

type JoinRequest struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}

func (r *JoinRequest) Validate() error {
	if r.Room == "" {
		return fmt.Errorf("join: missing room")
	}
	return nil
}

type StrokeStart struct {
	StrokeID string      `json:"stroke_id"`
	Color    string      `json:"color"`
	Width    float64     `json:"width"`
	Tool     board.Tool  `json:"tool"`
	Point    board.Point `json:"point"`
}

func (s *StrokeStart) Validate() error {
	if s.StrokeID == "" {
		return fmt.Errorf("stroke-start: missing stroke_id")
	}
	if s.Width <= 0 {
		return fmt.Errorf("stroke-start: width must be positive")
	}
	if !s.Tool.Valid() {
		return fmt.Errorf("stroke-start: unknown tool %q", s.Tool)
	}
	return nil
}

type StrokeAppend struct {
	StrokeID string        `json:"stroke_id"`
	Points   []board.Point `json:"points"`
}

func (s *StrokeAppend) Validate() error {
	if s.StrokeID == "" {
		return fmt.Errorf("stroke-append: missing stroke_id")
	}
	if len(s.Points) == 0 {
		return fmt.Errorf("stroke-append: no points")
	}
	return nil
}

type StrokeEnd struct {
	StrokeID string `json:"stroke_id"`
}

func (s *StrokeEnd) Validate() error {
	if s.StrokeID == "" {
		return fmt.Errorf("stroke-end: missing stroke_id")
	}
	return nil
}

type CursorUpdate struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Drawing bool    `json:"drawing"`
}

// Server -> client payloads. The snapshot sent on join is session.Snapshot
// verbatim: self, everyone present and the full visible operation sequence.

type ParticipantJoined struct {
	Participant session.Participant `json:"participant"`
}

type ParticipantLeft struct {
	ParticipantID string `json:"participant_id"`
}

// StrokeEvent relays a live stroke-start or stroke-append to the other
// participants, tagged with its author.
type StrokeEvent struct {
	ParticipantID string        `json:"participant_id"`
	StrokeID      string        `json:"stroke_id"`
	Color         string        `json:"color,omitempty"`
	Width         float64       `json:"width,omitempty"`
	Tool          board.Tool    `json:"tool,omitempty"`
	Points        []board.Point `json:"points"`
}

type StrokeCommitted struct {
	Operation board.Operation `json:"operation"`
}

// HistoryStep is the result of a successful undo or redo: the affected
// operation and the new pointer.
type HistoryStep struct {
	Operation board.Operation `json:"operation"`
	Pointer   int             `json:"pointer"`
}

type Cleared struct {
	ParticipantID string `json:"participant_id"`
}

type CursorBroadcast struct {
	ParticipantID string  `json:"participant_id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Drawing       bool    `json:"drawing"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
