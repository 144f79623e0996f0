package drc

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// FillPour computes a solid fill for one pour and installs it into the
// returned snapshot's cache. The fill is the pour outline pulled toward its
// centroid by the pour clearance, so the copper stays clear of anything
// sitting right on the boundary. Filling does not advance the revision.
func FillPour(ctx context.Context, doc *pcb.PcbDocument, id pcb.PourID) (*pcb.PcbDocument, error) {
	pour, ok := doc.Pours[id]
	if !ok {
		return nil, fmt.Errorf("drc: fill unknown pour %s", id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	poly := insetPolygon(pour.Outline, pour.Clearance)
	if len(poly) < 3 {
		// Clearance swallowed the whole outline: an empty fill, not an error.
		return doc.WithPourFill(id, nil), nil
	}
	return doc.WithPourFill(id, [][]pcb.Position{poly}), nil
}

// FillAll refills every pour, highest priority first so overlapping pours
// resolve the way the board author ordered them.
func FillAll(ctx context.Context, doc *pcb.PcbDocument) (*pcb.PcbDocument, error) {
	for _, id := range sortedPourIDs(doc) {
		var err error
		doc, err = FillPour(ctx, doc, id)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func sortedPourIDs(doc *pcb.PcbDocument) []pcb.PourID {
	ids := make([]pcb.PourID, 0, len(doc.Pours))
	for id := range doc.Pours {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := doc.Pours[ids[i]], doc.Pours[ids[j]]
		if pi.Priority != pj.Priority {
			return pi.Priority > pj.Priority
		}
		return pi.ID < pj.ID
	})
	return ids
}

// insetPolygon moves every vertex toward the polygon centroid by inset. A
// vertex closer to the centroid than the inset collapses onto it and is
// dropped, which degenerates small outlines to nothing.
func insetPolygon(outline []pcb.Position, inset float64) []pcb.Position {
	if len(outline) < 3 || inset <= 0 {
		return append([]pcb.Position(nil), outline...)
	}

	var cx, cy float64
	for _, p := range outline {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(outline))
	cy /= float64(len(outline))

	var out []pcb.Position
	for _, p := range outline {
		dx, dy := p.X-cx, p.Y-cy
		dist := math.Hypot(dx, dy)
		if dist <= inset {
			continue
		}
		scale := (dist - inset) / dist
		out = append(out, pcb.Position{X: cx + dx*scale, Y: cy + dy*scale})
	}
	return out
}
