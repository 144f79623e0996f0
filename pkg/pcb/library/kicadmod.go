package library

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/sexpr"
)

// ParseKicadMod reads one KiCad footprint file (.kicad_mod) into a shared
// footprint definition. Both the modern (footprint ...) and the legacy
// (module ...) headers are accepted.
func ParseKicadMod(r io.Reader, libraryName string) (pcb.Footprint, error) {
	nodes, err := sexpr.Parse(r)
	if err != nil {
		return pcb.Footprint{}, fmt.Errorf("library: parse footprint: %w", err)
	}
	if len(nodes) == 0 {
		return pcb.Footprint{}, fmt.Errorf("library: empty footprint file")
	}

	root := nodes[0]
	if key := root.Key(); key != "footprint" && key != "module" {
		return pcb.Footprint{}, fmt.Errorf("library: expected footprint, got %q", key)
	}

	name, err := root.Arg(1)
	if err != nil {
		return pcb.Footprint{}, fmt.Errorf("library: footprint has no name: %w", err)
	}
	// Names may arrive in library:name form.
	if idx := strings.IndexByte(name, ':'); idx > 0 {
		if libraryName == "" {
			libraryName = name[:idx]
		}
		name = name[idx+1:]
	}

	fp := pcb.Footprint{
		ID:      pcb.NewFootprintID(),
		Library: libraryName,
		Name:    name,
		Pads:    make(map[pcb.PadID]pcb.Pad),
	}

	for _, node := range root.FindAll("pad") {
		pad, err := parsePad(node)
		if err != nil {
			return pcb.Footprint{}, fmt.Errorf("library: footprint %s: %w", name, err)
		}
		fp.Pads[pad.ID] = pad
	}

	for _, child := range root.Children {
		if !child.IsList() {
			continue
		}
		g, ok, err := parseGraphic(child)
		if err != nil {
			return pcb.Footprint{}, fmt.Errorf("library: footprint %s: %w", name, err)
		}
		if ok {
			fp.Graphics = append(fp.Graphics, g)
		}
	}

	return fp, nil
}

// ParseKicadModFile loads a footprint from disk, deriving the library name
// from the file's directory (Resistor_SMD.pretty -> Resistor_SMD).
func ParseKicadModFile(path string) (pcb.Footprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcb.Footprint{}, fmt.Errorf("library: open footprint: %w", err)
	}
	defer f.Close()

	libName := ""
	dir := strings.TrimSuffix(path, "/")
	if idx := strings.LastIndexByte(dir, '/'); idx >= 0 {
		parent := dir[:idx]
		if jdx := strings.LastIndexByte(parent, '/'); jdx >= 0 {
			parent = parent[jdx+1:]
		}
		libName = strings.TrimSuffix(parent, ".pretty")
	}
	return ParseKicadMod(f, libName)
}

// parsePad extracts one pad.
// Format: (pad "number" type shape (at x y [angle]) (size w h) [(drill d)] (layers ...))
func parsePad(node *sexpr.Node) (pcb.Pad, error) {
	pad := pcb.Pad{ID: pcb.NewPadID()}

	number, err := node.Arg(1)
	if err != nil {
		return pad, fmt.Errorf("pad number: %w", err)
	}
	pad.Number = number

	shape, err := node.Arg(3)
	if err != nil {
		return pad, fmt.Errorf("pad %s shape: %w", number, err)
	}
	switch shape {
	case "circle":
		pad.Shape = pcb.PadCircle
	case "rect":
		pad.Shape = pcb.PadRect
	case "oval":
		pad.Shape = pcb.PadOval
	case "roundrect":
		pad.Shape = pcb.PadRoundRect
	default:
		// Trapezoid and custom pads degrade to their bounding rect.
		pad.Shape = pcb.PadRect
	}

	at, ok := node.Find("at")
	if !ok {
		return pad, fmt.Errorf("pad %s missing position", number)
	}
	x, err := at.Float(1)
	if err != nil {
		return pad, err
	}
	y, err := at.Float(2)
	if err != nil {
		return pad, err
	}
	pad.Position = pcb.Position{X: x, Y: y}
	pad.Angle = pcb.Angle(at.FloatOr(3, 0))

	size, ok := node.Find("size")
	if !ok {
		return pad, fmt.Errorf("pad %s missing size", number)
	}
	w, err := size.Float(1)
	if err != nil {
		return pad, err
	}
	h, err := size.Float(2)
	if err != nil {
		return pad, err
	}
	pad.Size = pcb.Size{Width: w, Height: h}

	if drill, ok := node.Find("drill"); ok {
		pad.Drill = drill.FloatOr(1, 0)
	}

	return pad, nil
}

// parseGraphic converts fp_* drawing primitives; the bool result reports
// whether the node was a graphic at all.
func parseGraphic(node *sexpr.Node) (pcb.Graphic, bool, error) {
	layerOf := func() string {
		if l, ok := node.Find("layer"); ok {
			if s, err := l.Arg(1); err == nil {
				return s
			}
		}
		return ""
	}
	pos := func(key string) (pcb.Position, error) {
		n, ok := node.Find(key)
		if !ok {
			return pcb.Position{}, fmt.Errorf("%s missing (%s ...)", node.Key(), key)
		}
		x, err := n.Float(1)
		if err != nil {
			return pcb.Position{}, err
		}
		y, err := n.Float(2)
		if err != nil {
			return pcb.Position{}, err
		}
		return pcb.Position{X: x, Y: y}, nil
	}
	// Modern files nest the width under (stroke ...), legacy ones put a bare
	// (width ...) on the primitive.
	width := func() float64 {
		if stroke, ok := node.Find("stroke"); ok {
			if w, ok := stroke.Find("width"); ok {
				return w.FloatOr(1, 0)
			}
		}
		if w, ok := node.Find("width"); ok {
			return w.FloatOr(1, 0)
		}
		return 0
	}
	filled := func() bool {
		if f, ok := node.Find("fill"); ok {
			if s, err := f.Arg(1); err == nil {
				return s == "solid" || s == "yes"
			}
		}
		return false
	}

	switch node.Key() {
	case "fp_line":
		start, err := pos("start")
		if err != nil {
			return nil, false, err
		}
		end, err := pos("end")
		if err != nil {
			return nil, false, err
		}
		return pcb.LineGraphic{Layer: layerOf(), Start: start, End: end, Width: width()}, true, nil

	case "fp_arc":
		start, err := pos("start")
		if err != nil {
			return nil, false, err
		}
		mid, err := pos("mid")
		if err != nil {
			return nil, false, err
		}
		end, err := pos("end")
		if err != nil {
			return nil, false, err
		}
		return pcb.ArcGraphic{Layer: layerOf(), Start: start, Mid: mid, End: end, Width: width()}, true, nil

	case "fp_circle":
		center, err := pos("center")
		if err != nil {
			return nil, false, err
		}
		end, err := pos("end")
		if err != nil {
			return nil, false, err
		}
		return pcb.CircleGraphic{
			Layer: layerOf(), Center: center,
			Radius: center.Distance(end), Width: width(), Filled: filled(),
		}, true, nil

	case "fp_rect":
		start, err := pos("start")
		if err != nil {
			return nil, false, err
		}
		end, err := pos("end")
		if err != nil {
			return nil, false, err
		}
		return pcb.RectGraphic{Layer: layerOf(), Start: start, End: end, Width: width(), Filled: filled()}, true, nil

	case "fp_poly":
		pts, ok := node.Find("pts")
		if !ok {
			return nil, false, fmt.Errorf("fp_poly missing (pts ...)")
		}
		var points []pcb.Position
		for _, xy := range pts.FindAll("xy") {
			x, err := xy.Float(1)
			if err != nil {
				return nil, false, err
			}
			y, err := xy.Float(2)
			if err != nil {
				return nil, false, err
			}
			points = append(points, pcb.Position{X: x, Y: y})
		}
		return pcb.PolygonGraphic{Layer: layerOf(), Points: points, Width: width(), Filled: filled()}, true, nil

	case "fp_text", "property":
		text, err := node.Arg(2)
		if err != nil {
			return nil, false, nil // reference/value without text, skip
		}
		g := pcb.TextGraphic{Layer: layerOf(), Text: text, Height: 1.0}
		if at, ok := node.Find("at"); ok {
			x, _ := at.Float(1)
			y, _ := at.Float(2)
			g.Position = pcb.Position{X: x, Y: y}
			g.Angle = pcb.Angle(at.FloatOr(3, 0))
		}
		if effects, ok := node.Find("effects"); ok {
			if font, ok := effects.Find("font"); ok {
				if size, ok := font.Find("size"); ok {
					g.Height = size.FloatOr(1, 1.0)
				}
			}
		}
		return g, true, nil
	}

	return nil, false, nil
}
