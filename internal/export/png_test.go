package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

func TestWritePNG(t *testing.T) {
	net := pcb.Net{ID: pcb.NewNetID(), Name: "GND"}
	doc := pcb.NewDocument("export-test", 50, 40).WithNet(net)

	tr := pcb.Trace{
		ID: pcb.NewTraceID(), Layer: doc.TopCopper().ID, Net: net.ID,
		Segments: []pcb.TraceSegment{
			{Start: pcb.Position{X: 5, Y: 5}, End: pcb.Position{X: 45, Y: 5}, Width: 0.25},
		},
	}
	doc, err := doc.WithTrace(tr)
	if err != nil {
		t.Fatalf("add trace: %v", err)
	}
	doc, err = doc.WithVia(pcb.Via{
		ID: pcb.NewViaID(), Position: pcb.Position{X: 45, Y: 5}, Net: net.ID,
		Diameter: 0.6, DrillDiameter: 0.3,
		TopLayer: doc.TopCopper().ID, BottomLayer: doc.BottomCopper().ID,
	})
	if err != nil {
		t.Fatalf("add via: %v", err)
	}

	path := filepath.Join(t.TempDir(), "board.png")
	opts := DefaultPNGOptions()
	if err := WritePNG(doc, path, opts); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}

	// 50x40mm board, 5mm margin, 10px/mm.
	bounds := img.Bounds()
	if bounds.Dx() != 600 || bounds.Dy() != 500 {
		t.Errorf("image = %dx%d, want 600x500", bounds.Dx(), bounds.Dy())
	}
}

func TestWritePNGEmptyBoard(t *testing.T) {
	doc := &pcb.PcbDocument{
		Name:   "empty",
		Layers: map[pcb.LayerID]pcb.Layer{},
		Nets:   map[pcb.NetID]pcb.Net{},
	}
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := WritePNG(doc, path, DefaultPNGOptions()); err == nil {
		t.Error("expected error for board without geometry")
	}
}
