package board

import (
	"time"

	"github.com/google/uuid"
)

// History is one room's ordered operation log plus the history pointer.
//
// The pointer marks the index of the last visible operation; operations past
// it exist in storage but are hidden until redone. History is not safe for
// concurrent use — the owning room serializes access.
type History struct {
	ops []Operation
	ptr int
	seq int64
}

func NewHistory() *History {
	return &History{
		ops: make([]Operation, 0),
		ptr: -1,
	}
}

// Append commits op. Any operations past the pointer are discarded first
// (draw after undo makes the redo branch unreachable), then op gets the next
// sequence number, a correlation id if it has none, and a commit timestamp.
// Returns the committed operation.
func (h *History) Append(op Operation) Operation {
	if h.ptr < len(h.ops)-1 {
		h.ops = h.ops[:h.ptr+1]
	}

	h.seq++
	op.Seq = h.seq
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	op.CreatedAt = time.Now().UTC()

	h.ops = append(h.ops, op)
	h.ptr = len(h.ops) - 1
	return op
}

// Undo hides the operation at the pointer and steps the pointer back.
// The operation stays in storage. Returns false when nothing is visible.
func (h *History) Undo() (Operation, int, bool) {
	if h.ptr < 0 {
		return Operation{}, h.ptr, false
	}
	op := h.ops[h.ptr]
	h.ptr--
	return op, h.ptr, true
}

// Redo reveals the operation just past the pointer, if any.
func (h *History) Redo() (Operation, int, bool) {
	if h.ptr >= len(h.ops)-1 {
		return Operation{}, h.ptr, false
	}
	h.ptr++
	return h.ops[h.ptr], h.ptr, true
}

// Clear empties the log and resets the pointer. There is no undo of a clear.
func (h *History) Clear() {
	h.ops = make([]Operation, 0)
	h.ptr = -1
}

// Visible returns a copy of all operations up to and including the pointer —
// the canonical state a joining or resynchronizing client must render.
func (h *History) Visible() []Operation {
	visible := make([]Operation, h.ptr+1)
	copy(visible, h.ops[:h.ptr+1])
	return visible
}

// Len returns the number of stored operations, hidden ones included.
func (h *History) Len() int {
	return len(h.ops)
}

// Pointer returns the index of the last visible operation, -1 when none.
func (h *History) Pointer() int {
	return h.ptr
}

func (h *History) CanUndo() bool {
	return h.ptr >= 0
}

func (h *History) CanRedo() bool {
	return h.ptr < len(h.ops)-1
}
