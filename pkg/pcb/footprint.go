package pcb

import "math"

// PadShape enumerates the supported pad geometries.
type PadShape string

const (
	PadRect      PadShape = "rect"
	PadCircle    PadShape = "circle"
	PadOval      PadShape = "oval"
	PadRoundRect PadShape = "roundrect"
)

// Pad is a single pad inside a footprint definition. Position and angle are
// relative to the footprint origin. Drill is 0 for SMD pads.
type Pad struct {
	ID       PadID
	Number   string // pad number/name as printed, e.g. "1", "A3"
	Shape    PadShape
	Position Position
	Angle    Angle
	Size     Size
	Drill    float64
}

// IsThroughHole reports whether the pad has a drilled hole.
func (p Pad) IsThroughHole() bool { return p.Drill > 0 }

// GraphicKind tags the graphic union variants.
type GraphicKind string

const (
	GraphicLine    GraphicKind = "line"
	GraphicArc     GraphicKind = "arc"
	GraphicCircle  GraphicKind = "circle"
	GraphicRect    GraphicKind = "rect"
	GraphicPolygon GraphicKind = "polygon"
	GraphicText    GraphicKind = "text"
)

// Graphic is the closed union of footprint drawing primitives. Footprint
// graphics reference layers by canonical name ("F.SilkS") rather than by
// LayerID because footprint definitions are shared across documents.
type Graphic interface {
	Kind() GraphicKind
	OnLayer() string
}

type LineGraphic struct {
	Layer string
	Start Position
	End   Position
	Width float64
}

type ArcGraphic struct {
	Layer string
	Start Position
	Mid   Position
	End   Position
	Width float64
}

type CircleGraphic struct {
	Layer  string
	Center Position
	Radius float64
	Width  float64
	Filled bool
}

type RectGraphic struct {
	Layer  string
	Start  Position
	End    Position
	Width  float64
	Filled bool
}

type PolygonGraphic struct {
	Layer  string
	Points []Position
	Width  float64
	Filled bool
}

type TextGraphic struct {
	Layer    string
	Position Position
	Angle    Angle
	Text     string
	Height   float64
}

func (g LineGraphic) Kind() GraphicKind    { return GraphicLine }
func (g ArcGraphic) Kind() GraphicKind     { return GraphicArc }
func (g CircleGraphic) Kind() GraphicKind  { return GraphicCircle }
func (g RectGraphic) Kind() GraphicKind    { return GraphicRect }
func (g PolygonGraphic) Kind() GraphicKind { return GraphicPolygon }
func (g TextGraphic) Kind() GraphicKind    { return GraphicText }

func (g LineGraphic) OnLayer() string    { return g.Layer }
func (g ArcGraphic) OnLayer() string     { return g.Layer }
func (g CircleGraphic) OnLayer() string  { return g.Layer }
func (g RectGraphic) OnLayer() string    { return g.Layer }
func (g PolygonGraphic) OnLayer() string { return g.Layer }
func (g TextGraphic) OnLayer() string    { return g.Layer }

// Footprint is a shared, read-only library definition. Many instances may
// reference one footprint; deleting an instance never deletes the definition.
type Footprint struct {
	ID       FootprintID
	Library  string
	Name     string
	Pads     map[PadID]Pad
	Graphics []Graphic
}

// PadByNumber looks up a pad by its printed number.
func (fp Footprint) PadByNumber(number string) (Pad, bool) {
	for _, pad := range fp.Pads {
		if pad.Number == number {
			return pad, true
		}
	}
	return Pad{}, false
}

// BoundingBox returns the extent of the footprint's pads around its origin.
func (fp Footprint) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()
	for _, pad := range fp.Pads {
		hw := pad.Size.Width / 2
		hh := pad.Size.Height / 2
		bbox.Expand(Position{X: pad.Position.X - hw, Y: pad.Position.Y - hh})
		bbox.Expand(Position{X: pad.Position.X + hw, Y: pad.Position.Y + hh})
	}
	if len(fp.Pads) == 0 {
		bbox.Expand(Position{})
	}
	return bbox
}

// TransformPad returns the absolute board position of a footprint-relative
// point given the instance position, rotation and side.
func TransformPad(rel Position, instPos Position, rotation Angle, side Side) Position {
	x, y := rel.X, rel.Y
	if side == SideBottom {
		x = -x
	}
	if rotation != 0 {
		rad := -float64(rotation) * math.Pi / 180
		cos := math.Cos(rad)
		sin := math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}
	return Position{X: x + instPos.X, Y: y + instPos.Y}
}
