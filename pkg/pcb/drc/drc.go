// Package drc runs design rule checks against a board snapshot. A run is a
// pure function of the snapshot it was given; results are delivered back to
// the document through WithDrcResult and become stale when the document's
// revision has moved on.
package drc

import (
	"context"
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// Engine checks one snapshot at a time. It holds no state between runs.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// copperShape is the unit of clearance checking: a capsule (a segment with a
// radius). Circles are capsules with coincident endpoints. A nil layer set
// means the shape spans every copper layer.
type copperShape struct {
	net    pcb.NetID
	layers map[pcb.LayerID]bool
	desc   string
	a, b   pcb.Position
	radius float64
}

func (s copperShape) center() pcb.Position {
	return pcb.Position{X: (s.a.X + s.b.X) / 2, Y: (s.a.Y + s.b.Y) / 2}
}

func sharesLayer(a, b copperShape) bool {
	if a.layers == nil || b.layers == nil {
		return true
	}
	for id := range a.layers {
		if b.layers[id] {
			return true
		}
	}
	return false
}

// Run performs every check and returns the full violation list. A cancelled
// context aborts with ctx.Err(); partial results are never delivered.
func (e *Engine) Run(ctx context.Context, doc *pcb.PcbDocument) ([]pcb.DrcViolation, error) {
	violations := []pcb.DrcViolation{}

	widths, err := e.checkWidths(ctx, doc)
	if err != nil {
		return nil, err
	}
	violations = append(violations, widths...)

	vias, err := e.checkVias(ctx, doc)
	if err != nil {
		return nil, err
	}
	violations = append(violations, vias...)

	clearances, err := e.checkClearances(ctx, doc)
	if err != nil {
		return nil, err
	}
	violations = append(violations, clearances...)

	return violations, nil
}

func (e *Engine) checkWidths(ctx context.Context, doc *pcb.PcbDocument) ([]pcb.DrcViolation, error) {
	var out []pcb.DrcViolation
	min := doc.Rules.MinTraceWidth
	for _, tr := range doc.Traces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		layer := doc.Layers[tr.Layer].Name
		for _, seg := range tr.Segments {
			if seg.Width >= min {
				continue
			}
			out = append(out, pcb.DrcViolation{
				Type:     pcb.DrcTraceWidth,
				Message:  fmt.Sprintf("trace width %.3fmm below minimum %.3fmm", seg.Width, min),
				Position: midpoint(seg.Start, seg.End),
				Location: layer,
			})
		}
	}
	return out, nil
}

func (e *Engine) checkVias(ctx context.Context, doc *pcb.PcbDocument) ([]pcb.DrcViolation, error) {
	var out []pcb.DrcViolation
	rules := doc.Rules
	for _, v := range doc.Vias {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v.Diameter < rules.MinViaDiameter {
			out = append(out, pcb.DrcViolation{
				Type:     pcb.DrcViaDiameter,
				Message:  fmt.Sprintf("via diameter %.3fmm below minimum %.3fmm", v.Diameter, rules.MinViaDiameter),
				Position: v.Position,
				Location: "via",
			})
		}
		if v.DrillDiameter < rules.MinViaDrill {
			out = append(out, pcb.DrcViolation{
				Type:     pcb.DrcViaDrill,
				Message:  fmt.Sprintf("via drill %.3fmm below minimum %.3fmm", v.DrillDiameter, rules.MinViaDrill),
				Position: v.Position,
				Location: "via",
			})
		}
		if ring := (v.Diameter - v.DrillDiameter) / 2; ring < rules.MinAnnularRing {
			out = append(out, pcb.DrcViolation{
				Type:     pcb.DrcViaDiameter,
				Message:  fmt.Sprintf("annular ring %.3fmm below minimum %.3fmm", ring, rules.MinAnnularRing),
				Position: v.Position,
				Location: "via",
			})
		}
	}
	return out, nil
}

func (e *Engine) checkClearances(ctx context.Context, doc *pcb.PcbDocument) ([]pcb.DrcViolation, error) {
	shapes := collectShapes(doc)
	var out []pcb.DrcViolation

	for i := 0; i < len(shapes); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < len(shapes); j++ {
			a, b := shapes[i], shapes[j]
			if a.net == b.net || !sharesLayer(a, b) {
				continue
			}
			required := requiredClearance(doc, a.net, b.net)
			gap := segSegDistance(a.a, a.b, b.a, b.b) - a.radius - b.radius
			if gap >= required {
				continue
			}
			out = append(out, pcb.DrcViolation{
				Type: pcb.DrcClearance,
				Message: fmt.Sprintf("clearance %.3fmm below required %.3fmm between %s and %s",
					math.Max(gap, 0), required, a.desc, b.desc),
				Position: midpoint(a.center(), b.center()),
				Location: fmt.Sprintf("%s / %s", a.desc, b.desc),
			})
		}
	}
	return out, nil
}

// requiredClearance is the board minimum raised by the larger of the two net
// classes involved.
func requiredClearance(doc *pcb.PcbDocument, a, b pcb.NetID) float64 {
	required := doc.Rules.MinClearance
	for _, id := range []pcb.NetID{a, b} {
		net, ok := doc.Nets[id]
		if !ok || net.Class == "" {
			continue
		}
		if nc, ok := doc.NetClasses[net.Class]; ok && nc.Clearance > required {
			required = nc.Clearance
		}
	}
	return required
}

func collectShapes(doc *pcb.PcbDocument) []copperShape {
	var shapes []copperShape

	for _, tr := range doc.Traces {
		layers := map[pcb.LayerID]bool{tr.Layer: true}
		for i, seg := range tr.Segments {
			shapes = append(shapes, copperShape{
				net: tr.Net, layers: layers,
				desc:   fmt.Sprintf("trace %s[%d]", tr.ID, i),
				a:      seg.Start, b: seg.End, radius: seg.Width / 2,
			})
		}
	}

	for _, v := range doc.Vias {
		shapes = append(shapes, copperShape{
			net:  v.Net,
			desc: fmt.Sprintf("via %s", v.ID),
			a:    v.Position, b: v.Position, radius: v.Diameter / 2,
		})
	}

	topID := doc.TopCopper().ID
	bottomID := doc.BottomCopper().ID
	for _, inst := range doc.Instances {
		fp, ok := doc.Footprints[inst.Footprint]
		if !ok {
			continue
		}
		for padID, pad := range fp.Pads {
			net, bound := inst.PadNets[padID]
			if !bound {
				net = pcb.NoNet
			}
			var layers map[pcb.LayerID]bool
			if !pad.IsThroughHole() {
				side := topID
				if inst.Side == pcb.SideBottom {
					side = bottomID
				}
				layers = map[pcb.LayerID]bool{side: true}
			}
			pos := pcb.TransformPad(pad.Position, inst.Position, inst.Rotation, inst.Side)
			shapes = append(shapes, copperShape{
				net: net, layers: layers,
				desc: fmt.Sprintf("pad %s.%s", inst.RefDes, pad.Number),
				a:    pos, b: pos,
				// Pads approximate as their circumscribed circle.
				radius: math.Max(pad.Size.Width, pad.Size.Height) / 2,
			})
		}
	}

	return shapes
}

func midpoint(a, b pcb.Position) pcb.Position {
	return pcb.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// pointSegDistance is the distance from p to segment ab.
func pointSegDistance(p, a, b pcb.Position) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Distance(pcb.Position{X: a.X + t*dx, Y: a.Y + t*dy})
}

// segSegDistance is the distance between segments ab and cd, zero when they
// intersect.
func segSegDistance(a, b, c, d pcb.Position) float64 {
	if segmentsIntersect(a, b, c, d) {
		return 0
	}
	return math.Min(
		math.Min(pointSegDistance(a, c, d), pointSegDistance(b, c, d)),
		math.Min(pointSegDistance(c, a, b), pointSegDistance(d, a, b)),
	)
}

func segmentsIntersect(a, b, c, d pcb.Position) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)
	if o1 != o2 && o3 != o4 {
		return true
	}
	// Collinear overlaps are caught by the endpoint distances being zero.
	return false
}

func orientation(p, q, r pcb.Position) int {
	v := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
