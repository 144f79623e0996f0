package view

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/OpenTraceLab/OpenTracePCB/internal/editor"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// PaintBoard draws one editor snapshot: substrate, pours, ratsnest, traces,
// vias, pads, outline, then the in-progress operation preview and selection
// markers on top.
func PaintBoard(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	doc := snap.Doc

	if len(doc.Outline) >= 3 {
		fillPolygon(gtx, cam, doc.Outline, palette.Substrate)
	}

	paintPours(gtx, cam, palette, snap)
	paintRatsnest(gtx, cam, palette, doc)
	paintTraces(gtx, cam, palette, snap)
	paintVias(gtx, cam, palette, snap)
	paintInstances(gtx, cam, palette, snap)

	if len(doc.Outline) >= 3 {
		strokePolygon(gtx, cam, doc.Outline, 2, palette.Layer("Edge.Cuts"))
	}

	paintPreview(gtx, cam, palette, snap)
}

func hiddenLayer(snap editor.Snapshot, id pcb.LayerID) bool {
	return snap.Hidden[id]
}

func paintPours(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	for id, pour := range snap.Doc.Pours {
		if hiddenLayer(snap, pour.Layer) {
			continue
		}
		c := palette.Layer(snap.Doc.Layers[pour.Layer].Name)
		c.A = 180
		if snap.Selection.Pours[id] {
			c = palette.Selection
		}
		polys := pour.FilledPolys
		if len(polys) == 0 {
			polys = [][]pcb.Position{pour.Outline}
		}
		for _, poly := range polys {
			if len(poly) >= 3 {
				fillPolygon(gtx, cam, poly, c)
			}
		}
	}
}

func paintRatsnest(gtx layout.Context, cam *Camera, palette Palette, doc *pcb.PcbDocument) {
	for _, net := range doc.Nets {
		for _, line := range net.Ratsnest {
			x1, y1 := cam.WorldToScreen(line.From)
			x2, y2 := cam.WorldToScreen(line.To)
			strokeLine(gtx, x1, y1, x2, y2, 1, palette.Ratsnest)
		}
	}
}

func paintTraces(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	for id, tr := range snap.Doc.Traces {
		if hiddenLayer(snap, tr.Layer) {
			continue
		}
		c := palette.Layer(snap.Doc.Layers[tr.Layer].Name)
		if snap.Selection.Traces[id] || snap.Selection.HoverTrace == id {
			c = palette.Selection
		}
		for _, seg := range tr.Segments {
			x1, y1 := cam.WorldToScreen(seg.Start)
			x2, y2 := cam.WorldToScreen(seg.End)
			strokeLine(gtx, x1, y1, x2, y2, math.Max(1, seg.Width*cam.Zoom), c)
		}
	}
}

func paintVias(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	for id, v := range snap.Doc.Vias {
		x, y := cam.WorldToScreen(v.Position)
		c := palette.ViaColor
		if snap.Selection.Vias[id] || snap.Selection.HoverVia == id {
			c = palette.Selection
		}
		fillCircle(gtx, x, y, math.Max(2, v.Diameter/2*cam.Zoom), c)
		fillCircle(gtx, x, y, math.Max(1, v.DrillDiameter/2*cam.Zoom), palette.Background)
	}
}

func paintInstances(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	for id, inst := range snap.Doc.Instances {
		fp, ok := snap.Doc.Footprints[inst.Footprint]
		if !ok {
			continue
		}
		c := palette.PadColor
		if snap.Selection.Instances[id] || snap.Selection.HoverInstance == id {
			c = palette.Selection
		}
		paintFootprintPads(gtx, cam, fp, inst.Position, inst.Rotation, inst.Side, c, palette.Background)
	}
}

func paintFootprintPads(gtx layout.Context, cam *Camera, fp pcb.Footprint, at pcb.Position, rotation pcb.Angle, side pcb.Side, padColor, drillColor color.NRGBA) {
	for _, pad := range fp.Pads {
		pos := pcb.TransformPad(pad.Position, at, rotation, side)
		x, y := cam.WorldToScreen(pos)
		w := pad.Size.Width * cam.Zoom
		h := pad.Size.Height * cam.Zoom
		switch pad.Shape {
		case pcb.PadCircle, pcb.PadOval:
			fillCircle(gtx, x, y, math.Max(1, math.Max(w, h)/2), padColor)
		default:
			fillRect(gtx, x, y, math.Max(2, w), math.Max(2, h), padColor)
		}
		if pad.IsThroughHole() {
			fillCircle(gtx, x, y, math.Max(1, pad.Drill/2*cam.Zoom), drillColor)
		}
	}
}

// paintPreview draws the in-progress route, zone and placement, including a
// rubber-band segment from the last captured point to the mouse.
func paintPreview(gtx layout.Context, cam *Camera, palette Palette, snap editor.Snapshot) {
	switch snap.Mode {
	case editor.ModeRouting:
		pts := snap.Route.Points
		width := math.Max(1, snap.Route.Width*cam.Zoom)
		for i := 1; i < len(pts); i++ {
			x1, y1 := cam.WorldToScreen(pts[i-1])
			x2, y2 := cam.WorldToScreen(pts[i])
			strokeLine(gtx, x1, y1, x2, y2, width, palette.Preview)
		}
		if len(pts) > 0 {
			x1, y1 := cam.WorldToScreen(pts[len(pts)-1])
			x2, y2 := cam.WorldToScreen(snap.Mouse)
			strokeLine(gtx, x1, y1, x2, y2, 1, palette.Preview)
		}

	case editor.ModeDrawingZone:
		pts := snap.Zone.Points
		for i := 1; i < len(pts); i++ {
			x1, y1 := cam.WorldToScreen(pts[i-1])
			x2, y2 := cam.WorldToScreen(pts[i])
			strokeLine(gtx, x1, y1, x2, y2, 2, palette.Preview)
		}
		if len(pts) > 0 {
			x1, y1 := cam.WorldToScreen(pts[len(pts)-1])
			x2, y2 := cam.WorldToScreen(snap.Mouse)
			strokeLine(gtx, x1, y1, x2, y2, 1, palette.Preview)
		}

	case editor.ModePlacing:
		fp, ok := snap.Doc.Footprints[snap.Placement.Footprint]
		if !ok {
			return
		}
		paintFootprintPads(gtx, cam, fp, snap.Placement.Position,
			snap.Placement.Rotation, snap.Placement.Side, palette.Preview, palette.Background)
	}
}

func strokeLine(gtx layout.Context, x1, y1, x2, y2, width float64, c color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(x1), float32(y1)))
	path.LineTo(f32.Pt(float32(x2), float32(y2)))

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: float32(width),
	}.Op()
	paint.FillShape(gtx.Ops, c, stroke)
}

func fillCircle(gtx layout.Context, x, y, radius float64, c color.NRGBA) {
	if radius < 1 {
		radius = 1
	}
	stack := op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(gtx.Ops)
	defer stack.Pop()

	rect := image.Rectangle{
		Min: image.Pt(int(-radius), int(-radius)),
		Max: image.Pt(int(radius), int(radius)),
	}
	paint.FillShape(gtx.Ops, c, clip.Ellipse(rect).Op(gtx.Ops))
}

func fillRect(gtx layout.Context, x, y, width, height float64, c color.NRGBA) {
	rect := image.Rectangle{
		Min: image.Pt(int(x-width/2), int(y-height/2)),
		Max: image.Pt(int(x+width/2), int(y+height/2)),
	}
	paint.FillShape(gtx.Ops, c, clip.Rect(rect).Op())
}

func fillPolygon(gtx layout.Context, cam *Camera, pts []pcb.Position, c color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	for i, p := range pts {
		x, y := cam.WorldToScreen(p)
		if i == 0 {
			path.MoveTo(f32.Pt(float32(x), float32(y)))
		} else {
			path.LineTo(f32.Pt(float32(x), float32(y)))
		}
	}
	path.Close()
	paint.FillShape(gtx.Ops, c, clip.Outline{Path: path.End()}.Op())
}

func strokePolygon(gtx layout.Context, cam *Camera, pts []pcb.Position, width float64, c color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	for i, p := range pts {
		x, y := cam.WorldToScreen(p)
		if i == 0 {
			path.MoveTo(f32.Pt(float32(x), float32(y)))
		} else {
			path.LineTo(f32.Pt(float32(x), float32(y)))
		}
	}
	path.Close()
	paint.FillShape(gtx.Ops, c, clip.Stroke{Path: path.End(), Width: float32(width)}.Op())
}
