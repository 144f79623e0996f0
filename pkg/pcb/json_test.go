package pcb

import (
	"strings"
	"testing"
)

// richDocument builds a document exercising every entity kind.
func richDocument(t *testing.T) *PcbDocument {
	t.Helper()
	doc := NewDocument("demo", 100, 100)
	fcu, _ := doc.LayerByName("F.Cu")
	bcu, _ := doc.LayerByName("B.Cu")

	gnd := Net{ID: NewNetID(), Name: "GND", Class: "power"}
	doc = doc.WithNet(gnd)
	doc = doc.WithNetClass(NetClass{Name: "power", TraceWidth: 0.5, Clearance: 0.3, ViaDiameter: 0.8, ViaDrill: 0.4})

	fp := twoPadFootprint()
	fp.Graphics = []Graphic{
		LineGraphic{Layer: "F.SilkS", Start: Position{X: -1, Y: -1}, End: Position{X: 1, Y: -1}, Width: 0.12},
		TextGraphic{Layer: "F.Fab", Text: "REF**", Height: 1.0},
	}
	doc = doc.WithFootprint(fp)

	pads := sortedKeys(fp.Pads)
	inst := FootprintInstance{
		ID: NewInstanceID(), Footprint: fp.ID, Position: Position{X: 30, Y: 40},
		Rotation: 90, Side: SideTop, RefDes: "R1", Value: "10k",
		PadNets:    map[PadID]NetID{pads[0]: gnd.ID, pads[1]: NoNet},
		Properties: map[string]string{"mpn": "RC0603FR-0710KL"},
	}
	var err error
	doc, err = doc.WithInstance(inst)
	if err != nil {
		t.Fatalf("WithInstance failed: %v", err)
	}

	doc, err = doc.WithTrace(Trace{ID: NewTraceID(), Layer: fcu.ID, Net: gnd.ID,
		Segments: []TraceSegment{
			{Start: Position{X: 10, Y: 10}, End: Position{X: 10, Y: 20}, Width: 0.25},
			{Start: Position{X: 10, Y: 20}, End: Position{X: 30, Y: 20}, Width: 0.25},
		}})
	if err != nil {
		t.Fatalf("WithTrace failed: %v", err)
	}

	doc, err = doc.WithVia(Via{ID: NewViaID(), Position: Position{X: 30, Y: 20}, Net: gnd.ID,
		Diameter: 0.6, DrillDiameter: 0.3, TopLayer: fcu.ID, BottomLayer: bcu.ID})
	if err != nil {
		t.Fatalf("WithVia failed: %v", err)
	}

	doc, err = doc.WithPour(CopperPour{ID: NewPourID(), Layer: bcu.ID, Net: gnd.ID,
		Outline:   []Position{{X: 5, Y: 5}, {X: 95, Y: 5}, {X: 95, Y: 95}, {X: 5, Y: 95}},
		Fill:      FillSolid, Clearance: 0.3, MinWidth: 0.2,
		ThermalReliefGap: 0.5, ThermalSpokeWidth: 0.4, PadConnection: PadConnectThermal})
	if err != nil {
		t.Fatalf("WithPour failed: %v", err)
	}

	doc.Meta["generator"] = "otp"
	return doc
}

func TestJSONRoundTrip(t *testing.T) {
	doc := richDocument(t)

	data, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}

	if got.Name != doc.Name || got.Units != "mm" {
		t.Errorf("header mismatch: %q %q", got.Name, got.Units)
	}
	if len(got.Layers) != len(doc.Layers) || len(got.LayerOrder) != len(doc.LayerOrder) {
		t.Error("layer set mismatch")
	}
	if len(got.Footprints) != 1 || len(got.Instances) != 1 {
		t.Error("library/instance mismatch")
	}
	if len(got.Traces) != 1 || len(got.Vias) != 1 || len(got.Pours) != 1 {
		t.Error("entity counts mismatch")
	}
	if len(got.Nets) != len(doc.Nets) {
		t.Errorf("nets = %d, want %d", len(got.Nets), len(doc.Nets))
	}
	if got.Rules != doc.Rules {
		t.Errorf("rules mismatch: %+v", got.Rules)
	}

	for _, inst := range got.Instances {
		if inst.RefDes != "R1" || inst.Rotation != 90 || len(inst.PadNets) != 2 {
			t.Errorf("instance did not survive: %+v", inst)
		}
		if inst.Properties["mpn"] != "RC0603FR-0710KL" {
			t.Error("instance properties lost")
		}
	}
	for _, fp := range got.Footprints {
		if len(fp.Graphics) != 2 {
			t.Fatalf("graphics = %d, want 2", len(fp.Graphics))
		}
		if fp.Graphics[0].Kind() != GraphicLine || fp.Graphics[1].Kind() != GraphicText {
			t.Error("graphic union variants lost their kinds")
		}
	}

	// Serialization is deterministic.
	again, err := got.ToJSON()
	if err != nil {
		t.Fatalf("second ToJSON failed: %v", err)
	}
	if string(data) != string(again) {
		t.Error("round-tripped document serializes differently")
	}
}

func TestJSONDrcTriState(t *testing.T) {
	doc := NewDocument("demo", 50, 50)

	// Never run: no violations key at all.
	data, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if strings.Contains(string(data), "drc_violations") {
		t.Error("never-run document should omit drc_violations")
	}

	// Run, clean: an explicit empty array.
	clean := doc.WithDrcResult(nil)
	data, err = clean.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"drc_violations": []`) {
		t.Errorf("clean run should persist an empty array:\n%s", data)
	}

	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if got.Drc != DrcComplete || got.Violations == nil || len(got.Violations) != 0 {
		t.Errorf("clean run did not survive: %q %v", got.Drc, got.Violations)
	}
}

func TestJSONRejectsDanglingReferences(t *testing.T) {
	doc := richDocument(t)
	data, err := doc.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	var gndID NetID
	for id, n := range doc.Nets {
		if n.Name == "GND" {
			gndID = id
		}
	}

	// Entity arrays precede the net table, so the first occurrence of the id
	// is a reference; pointing it at a nonexistent net must fail the load.
	broken := strings.Replace(string(data), string(gndID), "missing-net", 1)

	if _, err := FromJSON([]byte(broken)); err == nil {
		t.Error("expected load failure for dangling net reference")
	}
}

func TestJSONRejectsThinCopperStack(t *testing.T) {
	// A file can claim any layer stack, but without an outer copper pair
	// there is nothing to route, place or drop vias on.
	bare := `{
		"name": "bare",
		"units": "mm",
		"layers": [{"id": "l-silk", "name": "F.SilkS", "type": "silkscreen"}],
		"footprints": [], "instances": [], "traces": [], "vias": [],
		"copper_pours": [], "nets": [],
		"design_rules": {},
		"board_outline": [],
		"drc_state": "not-run"
	}`
	if _, err := FromJSON([]byte(bare)); err == nil {
		t.Error("expected load failure for a stack without copper layers")
	}

	oneCopper := strings.Replace(bare, `"type": "silkscreen"`, `"type": "copper"`, 1)
	if _, err := FromJSON([]byte(oneCopper)); err == nil {
		t.Error("expected load failure for a single copper layer")
	}
}
