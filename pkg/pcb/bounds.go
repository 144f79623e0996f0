package pcb

// BoundingBox calculates the extent of the board. The outline wins when
// present; otherwise the box is grown from the placed content.
func (d *PcbDocument) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, p := range d.Outline {
		bbox.Expand(p)
	}
	if !bbox.IsEmpty() {
		return bbox
	}

	for _, tr := range d.Traces {
		for _, seg := range tr.Segments {
			bbox.Expand(seg.Start)
			bbox.Expand(seg.End)
		}
	}
	for _, v := range d.Vias {
		r := v.Diameter / 2
		bbox.Expand(Position{X: v.Position.X - r, Y: v.Position.Y - r})
		bbox.Expand(Position{X: v.Position.X + r, Y: v.Position.Y + r})
	}
	for _, inst := range d.Instances {
		fp, ok := d.Footprints[inst.Footprint]
		if !ok {
			continue
		}
		for _, pad := range fp.Pads {
			abs := TransformPad(pad.Position, inst.Position, inst.Rotation, inst.Side)
			hw := pad.Size.Width / 2
			hh := pad.Size.Height / 2
			bbox.Expand(Position{X: abs.X - hw, Y: abs.Y - hh})
			bbox.Expand(Position{X: abs.X + hw, Y: abs.Y + hh})
		}
	}
	for _, pour := range d.Pours {
		for _, p := range pour.Outline {
			bbox.Expand(p)
		}
	}
	return bbox
}
