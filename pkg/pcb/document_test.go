package pcb

import (
	"errors"
	"testing"
)

// twoPadFootprint builds a small SMD resistor-style footprint for tests.
func twoPadFootprint() Footprint {
	p1 := Pad{ID: NewPadID(), Number: "1", Shape: PadRect, Position: Position{X: -0.8}, Size: Size{Width: 0.9, Height: 0.95}}
	p2 := Pad{ID: NewPadID(), Number: "2", Shape: PadRect, Position: Position{X: 0.8}, Size: Size{Width: 0.9, Height: 0.95}}
	return Footprint{
		ID:      NewFootprintID(),
		Library: "Resistor_SMD",
		Name:    "R_0603",
		Pads:    map[PadID]Pad{p1.ID: p1, p2.ID: p2},
	}
}

func TestNewDocumentDefaults(t *testing.T) {
	doc := NewDocument("test", 100, 80)

	if doc.Units != "mm" {
		t.Errorf("units = %q, want mm", doc.Units)
	}
	if doc.Drc != DrcNotRun {
		t.Errorf("drc state = %q, want %q", doc.Drc, DrcNotRun)
	}
	if len(doc.Outline) != 4 {
		t.Fatalf("outline has %d points, want 4", len(doc.Outline))
	}

	if _, ok := doc.LayerByName("F.Cu"); !ok {
		t.Error("missing F.Cu layer")
	}
	if _, ok := doc.LayerByName("B.Cu"); !ok {
		t.Error("missing B.Cu layer")
	}
	if _, ok := doc.LayerByName("Edge.Cuts"); !ok {
		t.Error("missing Edge.Cuts layer")
	}

	if _, ok := doc.Nets[NoNet]; !ok {
		t.Error("missing unrouted sentinel net")
	}

	bbox := doc.BoundingBox()
	if bbox.Width() != 100 || bbox.Height() != 80 {
		t.Errorf("bbox = %.1f x %.1f, want 100 x 80", bbox.Width(), bbox.Height())
	}
}

func TestCopyOnWriteIsolation(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	fp := twoPadFootprint()
	doc = doc.WithFootprint(fp)

	inst := FootprintInstance{
		ID: NewInstanceID(), Footprint: fp.ID, Position: Position{X: 10, Y: 10},
		Side: SideTop, RefDes: "R1", PadNets: map[PadID]NetID{},
	}
	doc2, err := doc.WithInstance(inst)
	if err != nil {
		t.Fatalf("WithInstance failed: %v", err)
	}

	if len(doc.Instances) != 0 {
		t.Error("original snapshot gained an instance")
	}
	if len(doc2.Instances) != 1 {
		t.Error("new snapshot missing the instance")
	}

	doc3 := doc2.MoveInstance(inst.ID, Position{X: 20, Y: 20})
	if got := doc2.Instances[inst.ID].Position; got.X != 10 {
		t.Errorf("moving mutated the earlier snapshot: %+v", got)
	}
	if got := doc3.Instances[inst.ID].Position; got.X != 20 {
		t.Errorf("move not applied: %+v", got)
	}
	if doc3.Revision != doc2.Revision+1 {
		t.Errorf("revision = %d, want %d", doc3.Revision, doc2.Revision+1)
	}
}

func TestInvalidReferencesRejected(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	fcu, _ := doc.LayerByName("F.Cu")
	edge, _ := doc.LayerByName("Edge.Cuts")

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{
			name: "instance with unknown footprint",
			op: func() error {
				_, err := doc.WithInstance(FootprintInstance{ID: NewInstanceID(), Footprint: "nope", Side: SideTop})
				return err
			},
			wantErr: ErrUnknownFootprint,
		},
		{
			name: "trace on unknown layer",
			op: func() error {
				_, err := doc.WithTrace(Trace{ID: NewTraceID(), Layer: "nope", Net: NoNet,
					Segments: []TraceSegment{{End: Position{X: 1}, Width: 0.2}}})
				return err
			},
			wantErr: ErrUnknownLayer,
		},
		{
			name: "trace on non-copper layer",
			op: func() error {
				_, err := doc.WithTrace(Trace{ID: NewTraceID(), Layer: edge.ID, Net: NoNet,
					Segments: []TraceSegment{{End: Position{X: 1}, Width: 0.2}}})
				return err
			},
			wantErr: ErrNotCopperLayer,
		},
		{
			name: "trace with unknown net",
			op: func() error {
				_, err := doc.WithTrace(Trace{ID: NewTraceID(), Layer: fcu.ID, Net: "nope",
					Segments: []TraceSegment{{End: Position{X: 1}, Width: 0.2}}})
				return err
			},
			wantErr: ErrUnknownNet,
		},
		{
			name: "empty trace",
			op: func() error {
				_, err := doc.WithTrace(Trace{ID: NewTraceID(), Layer: fcu.ID, Net: NoNet})
				return err
			},
			wantErr: ErrDegenerate,
		},
		{
			name: "pour with two points",
			op: func() error {
				_, err := doc.WithPour(CopperPour{ID: NewPourID(), Layer: fcu.ID, Net: NoNet,
					Outline: []Position{{}, {X: 1}}})
				return err
			},
			wantErr: ErrDegenerate,
		},
		{
			name: "via with unknown layer",
			op: func() error {
				_, err := doc.WithVia(Via{ID: NewViaID(), Net: NoNet, TopLayer: fcu.ID, BottomLayer: "nope"})
				return err
			},
			wantErr: ErrUnknownLayer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLockedInstanceMutationsAreNoOps(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	fp := twoPadFootprint()
	doc = doc.WithFootprint(fp)

	inst := FootprintInstance{
		ID: NewInstanceID(), Footprint: fp.ID, Position: Position{X: 10, Y: 10},
		Rotation: 90, Side: SideTop, Locked: true, RefDes: "U1",
	}
	doc, err := doc.WithInstance(inst)
	if err != nil {
		t.Fatalf("WithInstance failed: %v", err)
	}
	rev := doc.Revision

	moved := doc.MoveInstance(inst.ID, Position{X: 50, Y: 50})
	rotated := moved.RotateInstance(inst.ID, 90)
	flipped := rotated.FlipInstance(inst.ID)

	got := flipped.Instances[inst.ID]
	if got.Position != inst.Position || got.Rotation != 90 || got.Side != SideTop {
		t.Errorf("locked instance changed: %+v", got)
	}
	if flipped != doc {
		t.Error("locked mutations should return the same snapshot")
	}
	if flipped.Revision != rev {
		t.Errorf("locked mutations bumped revision %d -> %d", rev, flipped.Revision)
	}

	// Unlock, then the same mutations apply.
	doc = flipped.SetInstanceLocked(inst.ID, false)
	doc = doc.MoveInstance(inst.ID, Position{X: 50, Y: 50})
	if doc.Instances[inst.ID].Position.X != 50 {
		t.Error("unlocked instance did not move")
	}
}

func TestWithoutNetRepointsToSentinel(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	fcu, _ := doc.LayerByName("F.Cu")
	bcu, _ := doc.LayerByName("B.Cu")

	net := Net{ID: NewNetID(), Name: "GND"}
	doc = doc.WithNet(net)

	tr := Trace{ID: NewTraceID(), Layer: fcu.ID, Net: net.ID,
		Segments: []TraceSegment{{End: Position{X: 5}, Width: 0.25}}}
	doc, err := doc.WithTrace(tr)
	if err != nil {
		t.Fatalf("WithTrace failed: %v", err)
	}
	via := Via{ID: NewViaID(), Position: Position{X: 5}, Net: net.ID,
		Diameter: 0.6, DrillDiameter: 0.3, TopLayer: fcu.ID, BottomLayer: bcu.ID}
	doc, err = doc.WithVia(via)
	if err != nil {
		t.Fatalf("WithVia failed: %v", err)
	}

	doc = doc.WithoutNet(net.ID)

	if _, ok := doc.Nets[net.ID]; ok {
		t.Error("net still present after delete")
	}
	if got := doc.Traces[tr.ID].Net; got != NoNet {
		t.Errorf("trace net = %q, want unrouted sentinel", got)
	}
	if got := doc.Vias[via.ID].Net; got != NoNet {
		t.Errorf("via net = %q, want unrouted sentinel", got)
	}
	if _, ok := doc.Traces[tr.ID]; !ok {
		t.Error("trace entity deleted along with its net")
	}

	// The sentinel itself never goes away.
	if got := doc.WithoutNet(NoNet); got != doc {
		t.Error("deleting the sentinel should be a no-op")
	}
}

func TestDrcStateTransitions(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	rev := doc.Revision

	running := doc.WithDrcRunning()
	if running.Drc != DrcRunning {
		t.Errorf("state = %q, want running", running.Drc)
	}

	clean := running.WithDrcResult(nil)
	if clean.Drc != DrcComplete {
		t.Errorf("state = %q, want complete", clean.Drc)
	}
	if clean.Violations == nil {
		t.Error("clean run should carry an empty array, not nil")
	}

	// A failed run restores the result that stood before it started; a clean
	// result never demotes to "never run".
	failed := clean.WithDrcRunning().WithDrcFailed(clean.Drc, clean.Violations)
	if failed.Drc != DrcComplete || failed.Violations == nil {
		t.Errorf("failed-run state = %q/%v, want previous clean result", failed.Drc, failed.Violations)
	}
	failed = doc.WithDrcRunning().WithDrcFailed(doc.Drc, doc.Violations)
	if failed.Drc != DrcNotRun || failed.Violations != nil {
		t.Errorf("failed first run = %q/%v, want never-run", failed.Drc, failed.Violations)
	}

	cleared := clean.WithDrcCleared()
	if cleared.Drc != DrcNotRun || cleared.Violations != nil {
		t.Errorf("cleared state = %q/%v", cleared.Drc, cleared.Violations)
	}

	if cleared.Revision != rev {
		t.Error("DRC transitions must not count as structural mutations")
	}
}

func TestDeleteMissingEntitiesAreNoOps(t *testing.T) {
	doc := NewDocument("test", 100, 100)
	if doc.WithoutInstance("missing") != doc {
		t.Error("deleting a missing instance should return the same snapshot")
	}
	if doc.WithoutTrace("missing") != doc {
		t.Error("deleting a missing trace should return the same snapshot")
	}
	if doc.WithoutVia("missing") != doc {
		t.Error("deleting a missing via should return the same snapshot")
	}
	if doc.WithoutPour("missing") != doc {
		t.Error("deleting a missing pour should return the same snapshot")
	}
}
