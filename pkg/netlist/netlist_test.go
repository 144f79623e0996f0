package netlist

import (
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

const sample = `
# decoupling example
class "power" width 0.5 clearance 0.3 via 0.8 drill 0.4

net "GND" class "power" { R1.1 C1.2 }
net "SDA" { R1.2 }
`

func buildBoard(t *testing.T) *pcb.PcbDocument {
	t.Helper()

	pad1 := pcb.Pad{ID: pcb.NewPadID(), Number: "1", Shape: pcb.PadRect,
		Position: pcb.Position{X: -1}, Size: pcb.Size{Width: 1, Height: 1}}
	pad2 := pcb.Pad{ID: pcb.NewPadID(), Number: "2", Shape: pcb.PadRect,
		Position: pcb.Position{X: 1}, Size: pcb.Size{Width: 1, Height: 1}}
	fp := pcb.Footprint{
		ID: pcb.NewFootprintID(), Library: "test", Name: "two-pad",
		Pads: map[pcb.PadID]pcb.Pad{pad1.ID: pad1, pad2.ID: pad2},
	}

	doc := pcb.NewDocument("board", 100, 80).WithFootprint(fp)
	for _, refDes := range []string{"R1", "C1"} {
		inst := pcb.FootprintInstance{
			ID: pcb.NewInstanceID(), Footprint: fp.ID, RefDes: refDes,
			Side: pcb.SideTop,
		}
		var err error
		doc, err = doc.WithInstance(inst)
		if err != nil {
			t.Fatalf("place %s: %v", refDes, err)
		}
	}
	return doc
}

func TestParseNetlist(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("build parser: %v", err)
	}
	file, err := p.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(file.Decls) != 3 {
		t.Fatalf("decls = %d, want 3", len(file.Decls))
	}

	class := file.Decls[0].Class
	if class == nil || class.Name != "power" {
		t.Fatalf("first decl = %+v, want class power", file.Decls[0])
	}
	if class.TraceWidth != 0.5 || class.ViaDrill != 0.4 {
		t.Errorf("class rules = %+v", class)
	}

	gnd := file.Decls[1].Net
	if gnd == nil || gnd.Name != "GND" || gnd.Class != "power" {
		t.Fatalf("second decl = %+v, want net GND class power", file.Decls[1])
	}
	if len(gnd.Pins) != 2 || gnd.Pins[0].RefDes != "R1" || gnd.Pins[0].Pad != "1" {
		t.Errorf("GND pins = %+v", gnd.Pins)
	}

	sda := file.Decls[2].Net
	if sda.Class != "" {
		t.Errorf("SDA class = %q, want none", sda.Class)
	}
}

func TestApplyBindsPads(t *testing.T) {
	p, _ := NewParser()
	file, err := p.ParseString(sample)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	doc := buildBoard(t)
	out, err := Apply(doc, file)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	gnd, ok := out.NetByName("GND")
	if !ok {
		t.Fatal("GND not created")
	}
	if gnd.Class != "power" {
		t.Errorf("GND class = %q", gnd.Class)
	}
	if _, ok := out.NetClasses["power"]; !ok {
		t.Error("class power not created")
	}

	items := out.ItemsForNet(gnd.ID)
	if len(items.Pads) != 2 {
		t.Fatalf("GND pads = %d, want 2", len(items.Pads))
	}

	r1, _ := out.InstanceByRefDes("R1")
	bound := 0
	for range r1.PadNets {
		bound++
	}
	if bound != 2 {
		t.Errorf("R1 bound pads = %d, want 2 (GND and SDA)", bound)
	}

	// The source document is untouched.
	orig, _ := doc.InstanceByRefDes("R1")
	if len(orig.PadNets) != 0 {
		t.Error("apply mutated the input document")
	}
}

func TestApplyUnknownReferences(t *testing.T) {
	p, _ := NewParser()
	doc := buildBoard(t)

	tests := []struct {
		name  string
		input string
	}{
		{"unknown refdes", `net "X" { Q9.1 }`},
		{"unknown pad", `net "X" { R1.7 }`},
		{"unknown class", `net "X" class "nope" { R1.1 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := p.ParseString(tt.input)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			out, err := Apply(doc, file)
			if err == nil {
				t.Fatal("expected error")
			}
			if out != doc {
				t.Error("failed apply did not return the input document")
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	p, _ := NewParser()
	tests := []struct {
		name  string
		input string
	}{
		{"missing braces", `net "GND" R1.1`},
		{"unquoted name", `net GND { R1.1 }`},
		{"pin without pad", `net "GND" { R1 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseString(tt.input); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}
