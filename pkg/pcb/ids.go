package pcb

import "github.com/google/uuid"

// Entity identifiers are opaque, globally unique handles. Distinct types keep
// a TraceID from ever being used where a ViaID is expected.
type (
	LayerID     string
	NetID       string
	FootprintID string
	InstanceID  string
	TraceID     string
	ViaID       string
	PourID      string
	PadID       string
)

// NoNet is the sentinel net every document carries. Traces, vias and pads
// that are not assigned to an electrical net reference it; deleting a net
// re-points its members here instead of deleting them.
const NoNet NetID = "net-unrouted"

func NewLayerID() LayerID         { return LayerID(uuid.NewString()) }
func NewNetID() NetID             { return NetID(uuid.NewString()) }
func NewFootprintID() FootprintID { return FootprintID(uuid.NewString()) }
func NewInstanceID() InstanceID   { return InstanceID(uuid.NewString()) }
func NewTraceID() TraceID         { return TraceID(uuid.NewString()) }
func NewViaID() ViaID             { return ViaID(uuid.NewString()) }
func NewPourID() PourID           { return PourID(uuid.NewString()) }
func NewPadID() PadID             { return PadID(uuid.NewString()) }
