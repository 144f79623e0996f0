package pcb

// Side identifies which face of the board an instance sits on.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Opposite returns the other board face.
func (s Side) Opposite() Side {
	if s == SideTop {
		return SideBottom
	}
	return SideTop
}

// FootprintInstance is a placed component. PadNets maps the definition's pads
// to the nets they carry on this instance.
type FootprintInstance struct {
	ID         InstanceID
	Footprint  FootprintID
	Position   Position
	Rotation   Angle
	Side       Side
	Locked     bool
	RefDes     string
	Value      string
	PadNets    map[PadID]NetID
	Properties map[string]string
}

// TraceSegment is one straight piece of a trace polyline.
type TraceSegment struct {
	Start Position
	End   Position
	Width float64
}

// Trace is a copper polyline on exactly one layer. Multi-layer nets are
// expressed as multiple traces joined by vias.
type Trace struct {
	ID       TraceID
	Layer    LayerID
	Net      NetID
	Segments []TraceSegment
}

// Via is a plated through-hole connecting two copper layers at one point.
type Via struct {
	ID            ViaID
	Position      Position
	Net           NetID
	Diameter      float64
	DrillDiameter float64
	TopLayer      LayerID
	BottomLayer   LayerID
}

// FillType selects how a copper pour is filled.
type FillType string

const (
	FillSolid   FillType = "solid"
	FillHatched FillType = "hatched"
)

// PadConnection selects how pads inside a pour connect to it.
type PadConnection string

const (
	PadConnectThermal PadConnection = "thermal"
	PadConnectSolid   PadConnection = "solid"
	PadConnectNone    PadConnection = "none"
)

// CopperPour is a filled copper region on one layer. The core owns the
// outline and parameters; FilledPolys is a cache computed by the fill engine.
type CopperPour struct {
	ID                PourID
	Layer             LayerID
	Net               NetID
	Outline           []Position // at least 3 points
	Priority          int
	Fill              FillType
	Clearance         float64
	MinWidth          float64
	ThermalReliefGap  float64
	ThermalSpokeWidth float64
	PadConnection     PadConnection
	Locked            bool
	FilledPolys       [][]Position
}

// RatsnestLine is an unrouted-connection hint between two board positions.
type RatsnestLine struct {
	From Position
	To   Position
}

// Net groups pads, traces and vias under one electrical name. FullyRouted and
// Ratsnest are derived caches, not sources of truth.
type Net struct {
	ID          NetID
	Name        string
	Class       string // net class name, empty for default
	FullyRouted bool
	Ratsnest    []RatsnestLine
}

// NetClass carries per-class routing defaults.
type NetClass struct {
	Name        string
	TraceWidth  float64
	Clearance   float64
	ViaDiameter float64
	ViaDrill    float64
}

// DesignRules are board-wide limits, replaced as a whole rather than patched
// field by field.
type DesignRules struct {
	MinTraceWidth  float64
	MinClearance   float64
	MinViaDiameter float64
	MinViaDrill    float64
	MinAnnularRing float64
}

// DefaultDesignRules returns conservative two-layer hobby-fab rules.
func DefaultDesignRules() DesignRules {
	return DesignRules{
		MinTraceWidth:  0.2,
		MinClearance:   0.2,
		MinViaDiameter: 0.6,
		MinViaDrill:    0.3,
		MinAnnularRing: 0.15,
	}
}

// DrcViolationType classifies a DRC report record.
type DrcViolationType string

const (
	DrcClearance   DrcViolationType = "clearance"
	DrcTraceWidth  DrcViolationType = "trace-width"
	DrcViaDiameter DrcViolationType = "via-diameter"
	DrcViaDrill    DrcViolationType = "via-drill"
)

// DrcViolation is a report record, not a live constraint. Violations are
// wholesale replaced by each DRC run.
type DrcViolation struct {
	Type     DrcViolationType
	Message  string
	Position Position
	Location string // layer name or entity description
}

// DrcState tracks the design rule check lifecycle for a document.
type DrcState string

const (
	DrcNotRun   DrcState = "not-run"
	DrcRunning  DrcState = "running"
	DrcComplete DrcState = "complete"
)
