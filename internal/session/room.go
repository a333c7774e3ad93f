package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/easelhq/easel/internal/board"
)

// Room is one collaborative session: the operation history and the
// participant set, guarded by a single mutex so that commit, undo, redo,
// clear, join, leave and cursor updates are observed as atomic steps in one
// total order per room.
//
// Log-mutating methods take an announce callback invoked while the lock is
// still held. Callers enqueue their broadcasts inside it, which pins the
// broadcast order to the mutation order.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	history      *board.History
	participants map[string]*Participant
	colors       *colorPool

	opsCommitted int64
	peak         int
}

func newRoom(id string) *Room {
	return &Room{
		ID:           id,
		CreatedAt:    time.Now().UTC(),
		history:      board.NewHistory(),
		participants: make(map[string]*Participant),
		colors:       newColorPool(),
	}
}

// Snapshot is the full state handed to a joining connection.
type Snapshot struct {
	Self         Participant       `json:"self"`
	Participants []Participant     `json:"participants"`
	Operations   []board.Operation `json:"operations"`
}

// join registers a participant and builds their snapshot. Caller holds no
// locks; announce runs under the room lock.
func (r *Room) join(id, name string, announce func(Snapshot)) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = defaultName(id)
	}

	idx := r.colors.assign()
	p := &Participant{
		ID:         id,
		Name:       name,
		Color:      palette[idx],
		JoinedAt:   time.Now().UTC(),
		colorIndex: idx,
	}
	r.participants[id] = p
	if len(r.participants) > r.peak {
		r.peak = len(r.participants)
	}

	snap := Snapshot{
		Self:         *p,
		Participants: r.participantsLocked(),
		Operations:   r.history.Visible(),
	}
	if announce != nil {
		announce(snap)
	}
	return snap
}

// leave removes a participant and reports how many remain. announce runs
// under the room lock with the removed participant, or not at all when the
// participant was unknown.
func (r *Room) leave(id string, announce func(Participant)) (remaining int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.participants[id]
	if !exists {
		return len(r.participants), false
	}
	delete(r.participants, id)
	r.colors.release(p.colorIndex)

	if announce != nil {
		announce(*p)
	}
	return len(r.participants), true
}

// Commit appends op to the history, truncating any undone tail first.
// announce runs under the room lock with the committed operation.
func (r *Room) Commit(op board.Operation, announce func(board.Operation)) board.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()

	committed := r.history.Append(op)
	r.opsCommitted++
	if announce != nil {
		announce(committed)
	}
	return committed
}

// Undo hides the last visible operation. A failed undo (nothing visible)
// returns ok=false and never calls announce: silent no-op by design.
func (r *Room) Undo(announce func(board.Operation, int)) (board.Operation, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ptr, ok := r.history.Undo()
	if ok && announce != nil {
		announce(op, ptr)
	}
	return op, ptr, ok
}

// Redo reveals the next hidden operation, mirroring Undo.
func (r *Room) Redo(announce func(board.Operation, int)) (board.Operation, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ptr, ok := r.history.Redo()
	if ok && announce != nil {
		announce(op, ptr)
	}
	return op, ptr, ok
}

// Clear irreversibly empties the history.
func (r *Room) Clear(announce func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history.Clear()
	if announce != nil {
		announce()
	}
}

// UpdateCursor mutates presence only. Unknown participants are ignored.
func (r *Room) UpdateCursor(id string, pos board.Point, drawing bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return false
	}
	p.Cursor = pos
	p.Drawing = drawing
	return true
}

// Visible returns the operations a client must render.
func (r *Room) Visible() []board.Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Visible()
}

// Participants returns a copy of the current participant set.
func (r *Room) Participants() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantsLocked()
}

func (r *Room) participantsLocked() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}

// Stats describes a room for the operational API.
type Stats struct {
	OperationCount   int  `json:"operation_count"`
	Pointer          int  `json:"pointer"`
	ParticipantCount int  `json:"participant_count"`
	CanUndo          bool `json:"can_undo"`
	CanRedo          bool `json:"can_redo"`
}

func (r *Room) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		OperationCount:   r.history.Len(),
		Pointer:          r.history.Pointer(),
		ParticipantCount: len(r.participants),
		CanUndo:          r.history.CanUndo(),
		CanRedo:          r.history.CanRedo(),
	}
}

// Summary is the telemetry record written when a room closes.
type Summary struct {
	RoomID           string
	OpenedAt         time.Time
	PeakParticipants int
	OpsCommitted     int64
}

func (r *Room) summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		RoomID:           r.ID,
		OpenedAt:         r.CreatedAt,
		PeakParticipants: r.peak,
		OpsCommitted:     r.opsCommitted,
	}
}

func defaultName(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Guest %s", id)
}
