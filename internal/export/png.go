// Package export renders board documents to image files for sharing and
// review outside the interactive viewer.
package export

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/OpenTraceLab/OpenTracePCB/internal/view"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// PNGOptions controls rasterization.
type PNGOptions struct {
	// PixelsPerMM sets the output scale. 10 gives a 1000px image for a
	// 100mm board.
	PixelsPerMM float64
	// MarginMM is blank space around the board bounding box.
	MarginMM float64
	Theme    string
	// Labels draws reference designators next to instances.
	Labels bool
}

func DefaultPNGOptions() PNGOptions {
	return PNGOptions{PixelsPerMM: 10, MarginMM: 5, Theme: "classic", Labels: true}
}

// WritePNG rasterizes the document to a PNG file: substrate, pours, traces,
// vias, pads, outline, then labels.
func WritePNG(doc *pcb.PcbDocument, filename string, opts PNGOptions) error {
	if opts.PixelsPerMM <= 0 {
		opts.PixelsPerMM = 10
	}
	box := doc.BoundingBox()
	if box.IsEmpty() {
		return fmt.Errorf("export: board has no geometry")
	}
	box = box.Inflate(opts.MarginMM)

	scale := opts.PixelsPerMM
	width := int(math.Ceil(box.Width() * scale))
	height := int(math.Ceil(box.Height() * scale))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export: degenerate image %dx%d", width, height)
	}

	palette := view.PaletteByName(opts.Theme)
	px := func(p pcb.Position) (float64, float64) {
		return (p.X - box.Min.X) * scale, (p.Y - box.Min.Y) * scale
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(palette.Background)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("export: parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    math.Max(8, 1.2*scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	// Substrate inside the outline.
	if len(doc.Outline) >= 3 {
		dc.SetColor(palette.Substrate)
		drawPolygon(dc, doc.Outline, px)
		dc.Fill()
	}

	drawPours(dc, doc, palette, px)
	drawTraces(dc, doc, palette, scale, px)
	drawVias(dc, doc, palette, scale, px)
	drawInstances(dc, doc, palette, scale, px, opts.Labels)

	// Board edge on top.
	if len(doc.Outline) >= 3 {
		dc.SetColor(palette.Layer("Edge.Cuts"))
		dc.SetLineWidth(math.Max(1, 0.1*scale))
		drawPolygon(dc, doc.Outline, px)
		dc.ClosePath()
		dc.Stroke()
	}

	return dc.SavePNG(filename)
}

func drawPolygon(dc *gg.Context, pts []pcb.Position, px func(pcb.Position) (float64, float64)) {
	for i, p := range pts {
		x, y := px(p)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func drawPours(dc *gg.Context, doc *pcb.PcbDocument, palette view.Palette, px func(pcb.Position) (float64, float64)) {
	for _, pour := range doc.Pours {
		c := palette.Layer(doc.Layers[pour.Layer].Name)
		c.A = 180
		dc.SetColor(c)

		polys := pour.FilledPolys
		if len(polys) == 0 {
			// Unfilled pours render their outline region directly.
			polys = [][]pcb.Position{pour.Outline}
		}
		for _, poly := range polys {
			if len(poly) < 3 {
				continue
			}
			drawPolygon(dc, poly, px)
			dc.Fill()
		}
	}
}

func drawTraces(dc *gg.Context, doc *pcb.PcbDocument, palette view.Palette, scale float64, px func(pcb.Position) (float64, float64)) {
	dc.SetLineCapRound()
	for _, tr := range doc.Traces {
		dc.SetColor(palette.Layer(doc.Layers[tr.Layer].Name))
		for _, seg := range tr.Segments {
			x1, y1 := px(seg.Start)
			x2, y2 := px(seg.End)
			dc.SetLineWidth(math.Max(1, seg.Width*scale))
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}
}

func drawVias(dc *gg.Context, doc *pcb.PcbDocument, palette view.Palette, scale float64, px func(pcb.Position) (float64, float64)) {
	for _, v := range doc.Vias {
		x, y := px(v.Position)
		dc.SetColor(palette.ViaColor)
		dc.DrawCircle(x, y, v.Diameter/2*scale)
		dc.Fill()
		dc.SetColor(palette.Background)
		dc.DrawCircle(x, y, v.DrillDiameter/2*scale)
		dc.Fill()
	}
}

func drawInstances(dc *gg.Context, doc *pcb.PcbDocument, palette view.Palette, scale float64, px func(pcb.Position) (float64, float64), labels bool) {
	for _, inst := range doc.Instances {
		fp, ok := doc.Footprints[inst.Footprint]
		if !ok {
			continue
		}
		for _, pad := range fp.Pads {
			pos := pcb.TransformPad(pad.Position, inst.Position, inst.Rotation, inst.Side)
			x, y := px(pos)
			dc.SetColor(palette.PadColor)
			switch pad.Shape {
			case pcb.PadCircle, pcb.PadOval:
				dc.DrawCircle(x, y, math.Max(pad.Size.Width, pad.Size.Height)/2*scale)
			default:
				w := pad.Size.Width * scale
				h := pad.Size.Height * scale
				dc.DrawRectangle(x-w/2, y-h/2, w, h)
			}
			dc.Fill()
			if pad.IsThroughHole() {
				dc.SetColor(palette.Background)
				dc.DrawCircle(x, y, pad.Drill/2*scale)
				dc.Fill()
			}
		}
		if labels && inst.RefDes != "" {
			x, y := px(inst.Position)
			dc.SetColor(palette.Layer("F.SilkS"))
			dc.DrawStringAnchored(inst.RefDes, x, y-2*scale, 0.5, 0.5)
		}
	}
}
