package pcb

import "math"

// Position represents a 2D coordinate on the board. All distances in this
// package are millimeters.
type Position struct {
	X float64
	Y float64
}

// Angle represents rotation in degrees.
type Angle float64

// Normalize wraps the angle into the 0-360 range.
func (a Angle) Normalize() Angle {
	v := math.Mod(float64(a), 360)
	if v < 0 {
		v += 360
	}
	return Angle(v)
}

// Size represents dimensions in mm.
type Size struct {
	Width  float64
	Height float64
}

// BoundingBox represents a rectangular boundary.
type BoundingBox struct {
	Min Position
	Max Position
}

// NewBoundingBox creates an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1e9, Y: 1e9},
		Max: Position{X: -1e9, Y: -1e9},
	}
}

// IsEmpty checks if the bounding box is empty.
func (bb BoundingBox) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Width returns the horizontal extent in mm.
func (bb BoundingBox) Width() float64 { return bb.Max.X - bb.Min.X }

// Height returns the vertical extent in mm.
func (bb BoundingBox) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Center returns the center position of the box.
func (bb BoundingBox) Center() Position {
	return Position{X: (bb.Min.X + bb.Max.X) / 2, Y: (bb.Min.Y + bb.Max.Y) / 2}
}

// Contains checks if a position is within the bounding box.
func (bb BoundingBox) Contains(pos Position) bool {
	return pos.X >= bb.Min.X && pos.X <= bb.Max.X &&
		pos.Y >= bb.Min.Y && pos.Y <= bb.Max.Y
}

// Intersects checks if two bounding boxes intersect.
func (bb BoundingBox) Intersects(other BoundingBox) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// Expand expands the bounding box to include a position.
func (bb *BoundingBox) Expand(pos Position) {
	if pos.X < bb.Min.X {
		bb.Min.X = pos.X
	}
	if pos.Y < bb.Min.Y {
		bb.Min.Y = pos.Y
	}
	if pos.X > bb.Max.X {
		bb.Max.X = pos.X
	}
	if pos.Y > bb.Max.Y {
		bb.Max.Y = pos.Y
	}
}

// Inflate returns the box grown by margin on every side.
func (bb BoundingBox) Inflate(margin float64) BoundingBox {
	return BoundingBox{
		Min: Position{X: bb.Min.X - margin, Y: bb.Min.Y - margin},
		Max: Position{X: bb.Max.X + margin, Y: bb.Max.Y + margin},
	}
}

// ExpandBox expands to include another bounding box.
func (bb *BoundingBox) ExpandBox(other BoundingBox) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// Distance returns the Euclidean distance between two positions.
func (p Position) Distance(other Position) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two positions treated as vectors.
func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}
