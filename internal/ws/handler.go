package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/easelhq/easel/internal/board"
	"github.com/easelhq/easel/internal/protocol"
	"github.com/easelhq/easel/internal/session"
)

// Recorder receives the closing summary of a room for usage telemetry.
// Recording happens off the sync path; history itself is never persisted.
type Recorder interface {
	RecordSession(session.Summary) error
}

// Handler turns decoded client intents into registry mutations and
// broadcasts. It is shared by all connections; per-connection state lives in
// Connection.
type Handler struct {
	registry  *session.Registry
	transport Multicaster
	recorder  Recorder
}

// NewHandler wires the dispatcher. recorder may be nil.
func NewHandler(registry *session.Registry, transport Multicaster, recorder Recorder) *Handler {
	return &Handler{
		registry:  registry,
		transport: transport,
		recorder:  recorder,
	}
}

// strokeBuffer accumulates one in-progress stroke between its start and
// finalize signals. It never reaches the history unless finalized.
type strokeBuffer struct {
	style  board.StrokeStyle
	points []board.Point
}

// Connection is the per-connection dispatcher state: room membership and the
// open stroke buffers. All methods run on the connection's read loop, so no
// locking is needed here.
type Connection struct {
	h    *Handler
	conn Conn

	joined        bool
	roomID        string
	participantID string
	strokes       map[string]*strokeBuffer
}

func (h *Handler) NewConnection(c Conn) *Connection {
	return &Connection{
		h:       h,
		conn:    c,
		strokes: make(map[string]*strokeBuffer),
	}
}

// HandleMessage dispatches one raw client message. Malformed payloads are
// logged and dropped; a failure here never propagates to other connections.
func (c *Connection) HandleMessage(raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Recovered handling message from %s: %v", c.conn.ID(), r)
		}
	}()

	env, err := protocol.Decode(raw)
	if err != nil {
		log.Printf("⚠️ Dropping message from %s: %v", c.conn.ID(), err)
		return
	}

	if env.Kind != protocol.KindJoin && !c.joined {
		log.Printf("⚠️ Dropping %s from %s: not in a room", env.Kind, c.conn.ID())
		return
	}

	switch env.Kind {
	case protocol.KindJoin:
		c.handleJoin(env.Payload)
	case protocol.KindStrokeStart:
		c.handleStrokeStart(env.Payload)
	case protocol.KindStrokeAppend:
		c.handleStrokeAppend(env.Payload)
	case protocol.KindStrokeEnd:
		c.handleStrokeEnd(env.Payload)
	case protocol.KindCursor:
		c.handleCursor(env.Payload)
	case protocol.KindUndo:
		c.handleUndo()
	case protocol.KindRedo:
		c.handleRedo()
	case protocol.KindClear:
		c.handleClear()
	default:
		log.Printf("⚠️ Dropping unknown message type %q from %s", env.Kind, c.conn.ID())
	}
}

func (c *Connection) handleJoin(payload json.RawMessage) {
	if c.joined {
		c.sendError("already joined a room")
		return
	}

	var req protocol.JoinRequest
	if err := unmarshal(payload, &req); err != nil {
		log.Printf("⚠️ Dropping join from %s: %v", c.conn.ID(), err)
		return
	}

	participantID := uuid.NewString()

	// Everything inside the announce runs under the room lock: the snapshot
	// send, transport membership and the joined broadcast land before any
	// later commit can be multicast, so the joiner misses nothing.
	c.h.registry.Join(req.Room, participantID, req.Name, func(snap session.Snapshot) {
		c.conn.Send(protocol.MustEncode(protocol.KindSnapshot, snap))
		c.h.transport.Join(req.Room, c.conn)
		c.h.transport.Multicast(req.Room, protocol.MustEncode(protocol.KindParticipantJoined, protocol.ParticipantJoined{
			Participant: snap.Self,
		}), c.conn)
	})

	c.joined = true
	c.roomID = req.Room
	c.participantID = participantID
}

func (c *Connection) handleStrokeStart(payload json.RawMessage) {
	var start protocol.StrokeStart
	if err := unmarshal(payload, &start); err != nil {
		log.Printf("⚠️ Dropping stroke-start from %s: %v", c.conn.ID(), err)
		return
	}

	// A restarted stroke id simply replaces the old buffer.
	c.strokes[start.StrokeID] = &strokeBuffer{
		style:  board.StrokeStyle{Color: start.Color, Width: start.Width, Tool: start.Tool},
		points: []board.Point{start.Point},
	}

	// The sender already rendered the stroke locally: others only.
	c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindStrokeStart, protocol.StrokeEvent{
		ParticipantID: c.participantID,
		StrokeID:      start.StrokeID,
		Color:         start.Color,
		Width:         start.Width,
		Tool:          start.Tool,
		Points:        []board.Point{start.Point},
	}), c.conn)
}

func (c *Connection) handleStrokeAppend(payload json.RawMessage) {
	var delta protocol.StrokeAppend
	if err := unmarshal(payload, &delta); err != nil {
		log.Printf("⚠️ Dropping stroke-append from %s: %v", c.conn.ID(), err)
		return
	}

	buf, ok := c.strokes[delta.StrokeID]
	if !ok {
		// Stale or unknown stroke id: benign race, ignore.
		return
	}
	buf.points = append(buf.points, delta.Points...)

	c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindStrokeAppend, protocol.StrokeEvent{
		ParticipantID: c.participantID,
		StrokeID:      delta.StrokeID,
		Points:        delta.Points,
	}), c.conn)
}

func (c *Connection) handleStrokeEnd(payload json.RawMessage) {
	var end protocol.StrokeEnd
	if err := unmarshal(payload, &end); err != nil {
		log.Printf("⚠️ Dropping stroke-end from %s: %v", c.conn.ID(), err)
		return
	}

	buf, ok := c.strokes[end.StrokeID]
	if !ok {
		return
	}
	delete(c.strokes, end.StrokeID)

	room, ok := c.h.registry.Get(c.roomID)
	if !ok {
		return
	}

	op := board.Operation{
		Kind:          board.OpDraw,
		ParticipantID: c.participantID,
		Stroke: &board.Stroke{
			ID:     end.StrokeID,
			Points: buf.points,
			Color:  buf.style.Color,
			Width:  buf.style.Width,
			Tool:   buf.style.Tool,
		},
	}

	// Committed strokes go to everyone, the sender included, so the sender
	// can swap its locally-predicted stroke for the authoritative record.
	room.Commit(op, func(committed board.Operation) {
		c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindStrokeCommitted, protocol.StrokeCommitted{
			Operation: committed,
		}), nil)
	})
}

func (c *Connection) handleCursor(payload json.RawMessage) {
	var cur protocol.CursorUpdate
	if err := json.Unmarshal(payload, &cur); err != nil {
		log.Printf("⚠️ Dropping cursor from %s: %v", c.conn.ID(), err)
		return
	}

	if !c.h.registry.UpdateCursor(c.roomID, c.participantID, board.Point{X: cur.X, Y: cur.Y}, cur.Drawing) {
		return
	}

	c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindCursor, protocol.CursorBroadcast{
		ParticipantID: c.participantID,
		X:             cur.X,
		Y:             cur.Y,
		Drawing:       cur.Drawing,
	}), c.conn)
}

func (c *Connection) handleUndo() {
	room, ok := c.h.registry.Get(c.roomID)
	if !ok {
		return
	}
	// Undo at the boundary is a silent no-op: no broadcast, no error.
	room.Undo(func(op board.Operation, ptr int) {
		c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindUndo, protocol.HistoryStep{
			Operation: op,
			Pointer:   ptr,
		}), nil)
	})
}

func (c *Connection) handleRedo() {
	room, ok := c.h.registry.Get(c.roomID)
	if !ok {
		return
	}
	room.Redo(func(op board.Operation, ptr int) {
		c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindRedo, protocol.HistoryStep{
			Operation: op,
			Pointer:   ptr,
		}), nil)
	})
}

func (c *Connection) handleClear() {
	room, ok := c.h.registry.Get(c.roomID)
	if !ok {
		return
	}
	room.Clear(func() {
		c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindCleared, protocol.Cleared{
			ParticipantID: c.participantID,
		}), nil)
	})
}

// Close tears the connection down: open stroke buffers are abandoned without
// committing, presence is removed and the others are told. Safe to call for
// connections that never joined.
func (c *Connection) Close() {
	if !c.joined {
		return
	}
	c.joined = false
	c.strokes = make(map[string]*strokeBuffer)

	summary, _ := c.h.registry.Leave(c.roomID, c.participantID, func(p session.Participant) {
		c.h.transport.Leave(c.roomID, c.conn)
		c.h.transport.Multicast(c.roomID, protocol.MustEncode(protocol.KindParticipantLeft, protocol.ParticipantLeft{
			ParticipantID: p.ID,
		}), c.conn)
	})

	if summary != nil && c.h.recorder != nil {
		s := *summary
		go func() {
			if err := c.h.recorder.RecordSession(s); err != nil {
				log.Printf("Failed to record session summary for room %s: %v", s.RoomID, err)
			}
		}()
	}
}

func (c *Connection) sendError(message string) {
	c.conn.Send(protocol.MustEncode(protocol.KindError, protocol.ErrorPayload{Message: message}))
}

func unmarshal(payload json.RawMessage, v interface{ Validate() error }) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return err
	}
	return v.Validate()
}
