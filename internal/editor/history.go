package editor

import "github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"

// History is the undo/redo container. Because document snapshots are
// immutable, frames are plain pointers; undo restores a previous snapshot
// byte for byte.
type History struct {
	past    []*pcb.PcbDocument
	present *pcb.PcbDocument
	future  []*pcb.PcbDocument
}

func NewHistory(initial *pcb.PcbDocument) *History {
	return &History{present: initial}
}

// Present returns the current snapshot.
func (h *History) Present() *pcb.PcbDocument {
	return h.present
}

// Record pushes the current present onto the past and installs next. Any
// redo tail is discarded. One call per user gesture, no matter how many
// entities the gesture touched.
func (h *History) Record(next *pcb.PcbDocument) {
	h.past = append(h.past, h.present)
	h.present = next
	h.future = nil
}

// Replace swaps the present snapshot without creating a frame. Used for
// derived state (DRC results, ratsnest caches, pour fills) that undo should
// step over, not through.
func (h *History) Replace(next *pcb.PcbDocument) {
	h.present = next
}

// Undo steps back one frame. At the boundary it is a no-op, never an error.
func (h *History) Undo() bool {
	if len(h.past) == 0 {
		return false
	}
	h.future = append(h.future, h.present)
	h.present = h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	return true
}

// Redo steps forward one frame. No-op at the boundary.
func (h *History) Redo() bool {
	if len(h.future) == 0 {
		return false
	}
	h.past = append(h.past, h.present)
	h.present = h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	return true
}

func (h *History) CanUndo() bool { return len(h.past) > 0 }
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth reports how many frames undo can step through.
func (h *History) Depth() int { return len(h.past) }
