package editor

import "github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"

// Selection keeps independent sets per entity kind plus one hover slot per
// kind. Selection is UI state: it never enters the document or its history.
type Selection struct {
	Instances map[pcb.InstanceID]bool
	Traces    map[pcb.TraceID]bool
	Vias      map[pcb.ViaID]bool
	Pours     map[pcb.PourID]bool

	HoverInstance pcb.InstanceID
	HoverTrace    pcb.TraceID
	HoverVia      pcb.ViaID
	HoverPour     pcb.PourID
}

func NewSelection() *Selection {
	s := &Selection{}
	s.reset()
	return s
}

func (s *Selection) reset() {
	s.Instances = make(map[pcb.InstanceID]bool)
	s.Traces = make(map[pcb.TraceID]bool)
	s.Vias = make(map[pcb.ViaID]bool)
	s.Pours = make(map[pcb.PourID]bool)
}

// Clear empties every selection set. Hover survives: it tracks the pointer,
// not the selection.
func (s *Selection) Clear() {
	s.reset()
}

// IsEmpty reports whether nothing at all is selected.
func (s *Selection) IsEmpty() bool {
	return len(s.Instances) == 0 && len(s.Traces) == 0 &&
		len(s.Vias) == 0 && len(s.Pours) == 0
}

// SelectInstance adds an instance to the selection. Non-additive selection
// clears every kind first so the result is exactly {id}.
func (s *Selection) SelectInstance(id pcb.InstanceID, additive bool) {
	if !additive {
		s.reset()
	}
	s.Instances[id] = true
}

func (s *Selection) SelectTrace(id pcb.TraceID, additive bool) {
	if !additive {
		s.reset()
	}
	s.Traces[id] = true
}

func (s *Selection) SelectVia(id pcb.ViaID, additive bool) {
	if !additive {
		s.reset()
	}
	s.Vias[id] = true
}

func (s *Selection) SelectPour(id pcb.PourID, additive bool) {
	if !additive {
		s.reset()
	}
	s.Pours[id] = true
}

// SelectAll populates every set from the board contents.
func (s *Selection) SelectAll(doc *pcb.PcbDocument) {
	s.reset()
	for id := range doc.Instances {
		s.Instances[id] = true
	}
	for id := range doc.Traces {
		s.Traces[id] = true
	}
	for id := range doc.Vias {
		s.Vias[id] = true
	}
	for id := range doc.Pours {
		s.Pours[id] = true
	}
}

// Prune drops selected and hovered ids that no longer exist in the document,
// keeping the selection valid across deletes and undo.
func (s *Selection) Prune(doc *pcb.PcbDocument) {
	for id := range s.Instances {
		if _, ok := doc.Instances[id]; !ok {
			delete(s.Instances, id)
		}
	}
	for id := range s.Traces {
		if _, ok := doc.Traces[id]; !ok {
			delete(s.Traces, id)
		}
	}
	for id := range s.Vias {
		if _, ok := doc.Vias[id]; !ok {
			delete(s.Vias, id)
		}
	}
	for id := range s.Pours {
		if _, ok := doc.Pours[id]; !ok {
			delete(s.Pours, id)
		}
	}
	if _, ok := doc.Instances[s.HoverInstance]; !ok {
		s.HoverInstance = ""
	}
	if _, ok := doc.Traces[s.HoverTrace]; !ok {
		s.HoverTrace = ""
	}
	if _, ok := doc.Vias[s.HoverVia]; !ok {
		s.HoverVia = ""
	}
	if _, ok := doc.Pours[s.HoverPour]; !ok {
		s.HoverPour = ""
	}
}

// Copy returns an independent snapshot of the selection for rendering.
func (s *Selection) Copy() Selection {
	out := Selection{
		Instances:     make(map[pcb.InstanceID]bool, len(s.Instances)),
		Traces:        make(map[pcb.TraceID]bool, len(s.Traces)),
		Vias:          make(map[pcb.ViaID]bool, len(s.Vias)),
		Pours:         make(map[pcb.PourID]bool, len(s.Pours)),
		HoverInstance: s.HoverInstance,
		HoverTrace:    s.HoverTrace,
		HoverVia:      s.HoverVia,
		HoverPour:     s.HoverPour,
	}
	for id := range s.Instances {
		out.Instances[id] = true
	}
	for id := range s.Traces {
		out.Traces[id] = true
	}
	for id := range s.Vias {
		out.Vias[id] = true
	}
	for id := range s.Pours {
		out.Pours[id] = true
	}
	return out
}
