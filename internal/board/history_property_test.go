package board

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any sequence of append/undo/redo/clear the pointer stays within
// [-1, len-1] and the visible set is exactly the log up to the pointer.
func TestHistoryPointerBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("pointer stays within log bounds", prop.ForAll(
		func(commands []int) bool {
			h := NewHistory()
			for _, cmd := range commands {
				switch cmd % 4 {
				case 0:
					h.Append(drawOp("p"))
				case 1:
					h.Undo()
				case 2:
					h.Redo()
				case 3:
					h.Clear()
				}
				if h.Pointer() < -1 || h.Pointer() > h.Len()-1 {
					return false
				}
				if len(h.Visible()) != h.Pointer()+1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("undo then redo restores the visible set", prop.ForAll(
		func(appends int, undos int) bool {
			h := NewHistory()
			for i := 0; i < appends; i++ {
				h.Append(drawOp("p"))
			}
			for i := 0; i < undos; i++ {
				h.Undo()
			}

			before := h.Visible()
			if _, _, ok := h.Undo(); !ok {
				// Nothing visible: both undo and redo must be no-ops here.
				_, _, redone := h.Redo()
				return h.Pointer() == -1 || redone
			}
			h.Redo()

			after := h.Visible()
			if len(after) != len(before) {
				return false
			}
			for i := range after {
				if after[i].Seq != before[i].Seq {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.Property("sequence numbers are unique and increasing", prop.ForAll(
		func(commands []int) bool {
			h := NewHistory()
			var last int64
			for _, cmd := range commands {
				if cmd%3 == 0 {
					op := h.Append(drawOp("p"))
					if op.Seq <= last {
						return false
					}
					last = op.Seq
				} else if cmd%3 == 1 {
					h.Undo()
				} else {
					h.Redo()
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}
