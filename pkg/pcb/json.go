package pcb

import (
	"encoding/json"
	"fmt"
	"sort"
)

// The persisted document shape keeps every mapping-typed field as an ordered
// key/value array so the format round-trips through consumers without native
// ordered maps. All distances are millimeters.

type posJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type layerJSON struct {
	ID   LayerID   `json:"id"`
	Name string    `json:"name"`
	Type LayerType `json:"type"`
}

type padJSON struct {
	ID     PadID    `json:"id"`
	Number string   `json:"number"`
	Shape  PadShape `json:"shape"`
	At     posJSON  `json:"at"`
	Angle  float64  `json:"angle,omitempty"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Drill  float64  `json:"drill,omitempty"`
}

type graphicJSON struct {
	Kind   GraphicKind `json:"kind"`
	Layer  string      `json:"layer"`
	Start  *posJSON    `json:"start,omitempty"`
	Mid    *posJSON    `json:"mid,omitempty"`
	End    *posJSON    `json:"end,omitempty"`
	Center *posJSON    `json:"center,omitempty"`
	Radius float64     `json:"radius,omitempty"`
	Points []posJSON   `json:"points,omitempty"`
	Width  float64     `json:"width,omitempty"`
	Filled bool        `json:"filled,omitempty"`
	Text   string      `json:"text,omitempty"`
	Height float64     `json:"height,omitempty"`
	Angle  float64     `json:"angle,omitempty"`
}

type footprintJSON struct {
	ID       FootprintID   `json:"id"`
	Library  string        `json:"library"`
	Name     string        `json:"name"`
	Pads     []padJSON     `json:"pads"`
	Graphics []graphicJSON `json:"graphics,omitempty"`
}

type padNetJSON struct {
	Pad PadID `json:"pad"`
	Net NetID `json:"net"`
}

type kvJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type instanceJSON struct {
	ID         InstanceID   `json:"id"`
	Footprint  FootprintID  `json:"footprint"`
	At         posJSON      `json:"at"`
	Rotation   float64      `json:"rotation"`
	Side       Side         `json:"side"`
	Locked     bool         `json:"locked,omitempty"`
	RefDes     string       `json:"refdes"`
	Value      string       `json:"value,omitempty"`
	PadNets    []padNetJSON `json:"pad_nets,omitempty"`
	Properties []kvJSON     `json:"properties,omitempty"`
}

type segmentJSON struct {
	Start posJSON `json:"start"`
	End   posJSON `json:"end"`
	Width float64 `json:"width"`
}

type traceJSON struct {
	ID       TraceID       `json:"id"`
	Layer    LayerID       `json:"layer"`
	Net      NetID         `json:"net"`
	Segments []segmentJSON `json:"segments"`
}

type viaJSON struct {
	ID          ViaID   `json:"id"`
	At          posJSON `json:"at"`
	Net         NetID   `json:"net"`
	Diameter    float64 `json:"diameter"`
	Drill       float64 `json:"drill"`
	TopLayer    LayerID `json:"top_layer"`
	BottomLayer LayerID `json:"bottom_layer"`
}

type pourJSON struct {
	ID            PourID        `json:"id"`
	Layer         LayerID       `json:"layer"`
	Net           NetID         `json:"net"`
	Outline       []posJSON     `json:"outline"`
	Priority      int           `json:"priority,omitempty"`
	Fill          FillType      `json:"fill"`
	Clearance     float64       `json:"clearance"`
	MinWidth      float64       `json:"min_width"`
	ThermalGap    float64       `json:"thermal_relief_gap,omitempty"`
	ThermalSpoke  float64       `json:"thermal_spoke_width,omitempty"`
	PadConnection PadConnection `json:"pad_connection"`
	Locked        bool          `json:"locked,omitempty"`
}

type netJSON struct {
	ID    NetID  `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
}

type violationJSON struct {
	Type     DrcViolationType `json:"type"`
	Message  string           `json:"message"`
	At       posJSON          `json:"at"`
	Location string           `json:"location,omitempty"`
}

type documentJSON struct {
	Name       string          `json:"name"`
	Units      string          `json:"units"`
	Layers     []layerJSON     `json:"layers"`
	Footprints []footprintJSON `json:"footprints"`
	Instances  []instanceJSON  `json:"instances"`
	Traces     []traceJSON     `json:"traces"`
	Vias       []viaJSON       `json:"vias"`
	Pours      []pourJSON      `json:"copper_pours"`
	Nets       []netJSON       `json:"nets"`
	NetClasses []NetClass      `json:"net_classes,omitempty"`
	Rules      DesignRules     `json:"design_rules"`
	Outline    []posJSON       `json:"board_outline"`
	Drc        DrcState        `json:"drc_state"`
	Violations []violationJSON `json:"drc_violations,omitempty"`
	Meta       []kvJSON        `json:"meta,omitempty"`
}

func toPos(p Position) posJSON      { return posJSON{X: p.X, Y: p.Y} }
func fromPos(p posJSON) Position    { return Position{X: p.X, Y: p.Y} }
func toPosList(ps []Position) []posJSON {
	out := make([]posJSON, len(ps))
	for i, p := range ps {
		out[i] = toPos(p)
	}
	return out
}
func fromPosList(ps []posJSON) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = fromPos(p)
	}
	return out
}

func toGraphic(g Graphic) graphicJSON {
	switch v := g.(type) {
	case LineGraphic:
		s, e := toPos(v.Start), toPos(v.End)
		return graphicJSON{Kind: GraphicLine, Layer: v.Layer, Start: &s, End: &e, Width: v.Width}
	case ArcGraphic:
		s, m, e := toPos(v.Start), toPos(v.Mid), toPos(v.End)
		return graphicJSON{Kind: GraphicArc, Layer: v.Layer, Start: &s, Mid: &m, End: &e, Width: v.Width}
	case CircleGraphic:
		c := toPos(v.Center)
		return graphicJSON{Kind: GraphicCircle, Layer: v.Layer, Center: &c, Radius: v.Radius, Width: v.Width, Filled: v.Filled}
	case RectGraphic:
		s, e := toPos(v.Start), toPos(v.End)
		return graphicJSON{Kind: GraphicRect, Layer: v.Layer, Start: &s, End: &e, Width: v.Width, Filled: v.Filled}
	case PolygonGraphic:
		return graphicJSON{Kind: GraphicPolygon, Layer: v.Layer, Points: toPosList(v.Points), Width: v.Width, Filled: v.Filled}
	case TextGraphic:
		p := toPos(v.Position)
		return graphicJSON{Kind: GraphicText, Layer: v.Layer, Start: &p, Text: v.Text, Height: v.Height, Angle: float64(v.Angle)}
	}
	return graphicJSON{}
}

func fromGraphic(g graphicJSON) (Graphic, error) {
	pos := func(p *posJSON) Position {
		if p == nil {
			return Position{}
		}
		return fromPos(*p)
	}
	switch g.Kind {
	case GraphicLine:
		return LineGraphic{Layer: g.Layer, Start: pos(g.Start), End: pos(g.End), Width: g.Width}, nil
	case GraphicArc:
		return ArcGraphic{Layer: g.Layer, Start: pos(g.Start), Mid: pos(g.Mid), End: pos(g.End), Width: g.Width}, nil
	case GraphicCircle:
		return CircleGraphic{Layer: g.Layer, Center: pos(g.Center), Radius: g.Radius, Width: g.Width, Filled: g.Filled}, nil
	case GraphicRect:
		return RectGraphic{Layer: g.Layer, Start: pos(g.Start), End: pos(g.End), Width: g.Width, Filled: g.Filled}, nil
	case GraphicPolygon:
		return PolygonGraphic{Layer: g.Layer, Points: fromPosList(g.Points), Width: g.Width, Filled: g.Filled}, nil
	case GraphicText:
		return TextGraphic{Layer: g.Layer, Position: pos(g.Start), Text: g.Text, Height: g.Height, Angle: Angle(g.Angle)}, nil
	}
	return nil, fmt.Errorf("pcb: unknown graphic kind %q", g.Kind)
}

// ToJSON serializes the document into its persisted shape. Entity arrays are
// emitted in sorted ID order so output is deterministic.
func (d *PcbDocument) ToJSON() ([]byte, error) {
	out := documentJSON{
		Name:    d.Name,
		Units:   d.Units,
		Rules:   d.Rules,
		Outline: toPosList(d.Outline),
		Drc:     d.Drc,
	}

	for _, id := range d.LayerOrder {
		l := d.Layers[id]
		out.Layers = append(out.Layers, layerJSON{ID: l.ID, Name: l.Name, Type: l.Type})
	}

	for _, id := range sortedKeys(d.Footprints) {
		fp := d.Footprints[id]
		fj := footprintJSON{ID: fp.ID, Library: fp.Library, Name: fp.Name}
		for _, padID := range sortedKeys(fp.Pads) {
			pad := fp.Pads[padID]
			fj.Pads = append(fj.Pads, padJSON{
				ID: pad.ID, Number: pad.Number, Shape: pad.Shape,
				At: toPos(pad.Position), Angle: float64(pad.Angle),
				Width: pad.Size.Width, Height: pad.Size.Height, Drill: pad.Drill,
			})
		}
		for _, g := range fp.Graphics {
			fj.Graphics = append(fj.Graphics, toGraphic(g))
		}
		out.Footprints = append(out.Footprints, fj)
	}

	for _, id := range sortedKeys(d.Instances) {
		inst := d.Instances[id]
		ij := instanceJSON{
			ID: inst.ID, Footprint: inst.Footprint, At: toPos(inst.Position),
			Rotation: float64(inst.Rotation), Side: inst.Side, Locked: inst.Locked,
			RefDes: inst.RefDes, Value: inst.Value,
		}
		for _, padID := range sortedKeys(inst.PadNets) {
			ij.PadNets = append(ij.PadNets, padNetJSON{Pad: padID, Net: inst.PadNets[padID]})
		}
		for _, key := range sortedKeys(inst.Properties) {
			ij.Properties = append(ij.Properties, kvJSON{Key: key, Value: inst.Properties[key]})
		}
		out.Instances = append(out.Instances, ij)
	}

	for _, id := range sortedKeys(d.Traces) {
		tr := d.Traces[id]
		tj := traceJSON{ID: tr.ID, Layer: tr.Layer, Net: tr.Net}
		for _, seg := range tr.Segments {
			tj.Segments = append(tj.Segments, segmentJSON{Start: toPos(seg.Start), End: toPos(seg.End), Width: seg.Width})
		}
		out.Traces = append(out.Traces, tj)
	}

	for _, id := range sortedKeys(d.Vias) {
		v := d.Vias[id]
		out.Vias = append(out.Vias, viaJSON{
			ID: v.ID, At: toPos(v.Position), Net: v.Net,
			Diameter: v.Diameter, Drill: v.DrillDiameter,
			TopLayer: v.TopLayer, BottomLayer: v.BottomLayer,
		})
	}

	for _, id := range sortedKeys(d.Pours) {
		p := d.Pours[id]
		out.Pours = append(out.Pours, pourJSON{
			ID: p.ID, Layer: p.Layer, Net: p.Net, Outline: toPosList(p.Outline),
			Priority: p.Priority, Fill: p.Fill, Clearance: p.Clearance, MinWidth: p.MinWidth,
			ThermalGap: p.ThermalReliefGap, ThermalSpoke: p.ThermalSpokeWidth,
			PadConnection: p.PadConnection, Locked: p.Locked,
		})
	}

	for _, id := range sortedKeys(d.Nets) {
		n := d.Nets[id]
		out.Nets = append(out.Nets, netJSON{ID: n.ID, Name: n.Name, Class: n.Class})
	}

	for _, name := range sortedKeys(d.NetClasses) {
		out.NetClasses = append(out.NetClasses, d.NetClasses[name])
	}

	if d.Drc == DrcComplete {
		// An empty array means "run, clean"; it must survive serialization.
		out.Violations = make([]violationJSON, 0, len(d.Violations))
		for _, v := range d.Violations {
			out.Violations = append(out.Violations, violationJSON{
				Type: v.Type, Message: v.Message, At: toPos(v.Position), Location: v.Location,
			})
		}
	}

	for _, key := range sortedKeys(d.Meta) {
		out.Meta = append(out.Meta, kvJSON{Key: key, Value: d.Meta[key]})
	}

	return json.MarshalIndent(out, "", "  ")
}

// FromJSON rebuilds a document from its persisted shape. Dangling references
// are rejected: a file that points at missing layers or nets does not load.
func FromJSON(data []byte) (*PcbDocument, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("pcb: decode document: %w", err)
	}

	d := &PcbDocument{
		Name:       in.Name,
		Units:      in.Units,
		Layers:     make(map[LayerID]Layer),
		Footprints: make(map[FootprintID]Footprint),
		Instances:  make(map[InstanceID]FootprintInstance),
		Traces:     make(map[TraceID]Trace),
		Vias:       make(map[ViaID]Via),
		Pours:      make(map[PourID]CopperPour),
		Nets:       make(map[NetID]Net),
		NetClasses: make(map[string]NetClass),
		Rules:      in.Rules,
		Outline:    fromPosList(in.Outline),
		Drc:        in.Drc,
		Meta:       make(map[string]string),
	}
	if d.Units == "" {
		d.Units = "mm"
	}
	if d.Drc == "" {
		d.Drc = DrcNotRun
	}
	// A run in flight cannot survive serialization.
	if d.Drc == DrcRunning {
		d.Drc = DrcNotRun
	}

	for _, l := range in.Layers {
		d.Layers[l.ID] = Layer{ID: l.ID, Name: l.Name, Type: l.Type}
		d.LayerOrder = append(d.LayerOrder, l.ID)
	}
	// The stack always carries an outer copper pair; a file without one has
	// no top or bottom layer to route, place or drop vias on.
	if cu := d.CopperLayers(); len(cu) < 2 {
		return nil, fmt.Errorf("pcb: layer stack has %d copper layers, need at least 2", len(cu))
	}
	for _, n := range in.Nets {
		d.Nets[n.ID] = Net{ID: n.ID, Name: n.Name, Class: n.Class}
	}
	if _, ok := d.Nets[NoNet]; !ok {
		d.Nets[NoNet] = Net{ID: NoNet}
	}
	for _, nc := range in.NetClasses {
		d.NetClasses[nc.Name] = nc
	}

	for _, fj := range in.Footprints {
		fp := Footprint{ID: fj.ID, Library: fj.Library, Name: fj.Name, Pads: make(map[PadID]Pad)}
		for _, pj := range fj.Pads {
			fp.Pads[pj.ID] = Pad{
				ID: pj.ID, Number: pj.Number, Shape: pj.Shape,
				Position: fromPos(pj.At), Angle: Angle(pj.Angle),
				Size: Size{Width: pj.Width, Height: pj.Height}, Drill: pj.Drill,
			}
		}
		for _, gj := range fj.Graphics {
			g, err := fromGraphic(gj)
			if err != nil {
				return nil, err
			}
			fp.Graphics = append(fp.Graphics, g)
		}
		d.Footprints[fp.ID] = fp
	}

	for _, ij := range in.Instances {
		inst := FootprintInstance{
			ID: ij.ID, Footprint: ij.Footprint, Position: fromPos(ij.At),
			Rotation: Angle(ij.Rotation), Side: ij.Side, Locked: ij.Locked,
			RefDes: ij.RefDes, Value: ij.Value,
			PadNets:    make(map[PadID]NetID),
			Properties: make(map[string]string),
		}
		fp, ok := d.Footprints[inst.Footprint]
		if !ok {
			return nil, fmt.Errorf("%w: instance %s", ErrUnknownFootprint, inst.RefDes)
		}
		for _, pn := range ij.PadNets {
			if _, ok := fp.Pads[pn.Pad]; !ok {
				return nil, fmt.Errorf("pcb: instance %s references unknown pad %s", inst.RefDes, pn.Pad)
			}
			if _, ok := d.Nets[pn.Net]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownNet, pn.Net)
			}
			inst.PadNets[pn.Pad] = pn.Net
		}
		for _, kv := range ij.Properties {
			inst.Properties[kv.Key] = kv.Value
		}
		d.Instances[inst.ID] = inst
	}

	for _, tj := range in.Traces {
		if _, ok := d.Layers[tj.Layer]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, tj.Layer)
		}
		if _, ok := d.Nets[tj.Net]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNet, tj.Net)
		}
		tr := Trace{ID: tj.ID, Layer: tj.Layer, Net: tj.Net}
		for _, sj := range tj.Segments {
			tr.Segments = append(tr.Segments, TraceSegment{Start: fromPos(sj.Start), End: fromPos(sj.End), Width: sj.Width})
		}
		d.Traces[tr.ID] = tr
	}

	for _, vj := range in.Vias {
		for _, layer := range []LayerID{vj.TopLayer, vj.BottomLayer} {
			if _, ok := d.Layers[layer]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, layer)
			}
		}
		if _, ok := d.Nets[vj.Net]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNet, vj.Net)
		}
		d.Vias[vj.ID] = Via{
			ID: vj.ID, Position: fromPos(vj.At), Net: vj.Net,
			Diameter: vj.Diameter, DrillDiameter: vj.Drill,
			TopLayer: vj.TopLayer, BottomLayer: vj.BottomLayer,
		}
	}

	for _, pj := range in.Pours {
		if _, ok := d.Layers[pj.Layer]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, pj.Layer)
		}
		if _, ok := d.Nets[pj.Net]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNet, pj.Net)
		}
		d.Pours[pj.ID] = CopperPour{
			ID: pj.ID, Layer: pj.Layer, Net: pj.Net, Outline: fromPosList(pj.Outline),
			Priority: pj.Priority, Fill: pj.Fill, Clearance: pj.Clearance, MinWidth: pj.MinWidth,
			ThermalReliefGap: pj.ThermalGap, ThermalSpokeWidth: pj.ThermalSpoke,
			PadConnection: pj.PadConnection, Locked: pj.Locked,
		}
	}

	if in.Drc == DrcComplete {
		d.Violations = make([]DrcViolation, 0, len(in.Violations))
		for _, vj := range in.Violations {
			d.Violations = append(d.Violations, DrcViolation{
				Type: vj.Type, Message: vj.Message, Position: fromPos(vj.At), Location: vj.Location,
			})
		}
	}

	for _, kv := range in.Meta {
		d.Meta[kv.Key] = kv.Value
	}

	return d, nil
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
