package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// newBoardEditor builds an empty 100x100 two-layer board with one signal net
// and returns an editor over it.
func newBoardEditor(t *testing.T) (*Editor, pcb.Net) {
	t.Helper()
	net := pcb.Net{ID: pcb.NewNetID(), Name: "N1"}
	doc := pcb.NewDocument("route-test", 100, 100).WithNet(net)
	return New(doc), net
}

func at(x, y float64) pcb.Position { return pcb.Position{X: x, Y: y} }

// The canonical routing session: route on F.Cu, drop a via, continue on B.Cu,
// finish, then unwind the whole thing.
func TestRouteViaRouteScenario(t *testing.T) {
	ed, net := newBoardEditor(t)
	doc := ed.Document()
	top := doc.TopCopper().ID
	bottom := doc.BottomCopper().ID

	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))
	ed.AddRoutePoint(at(10, 20))

	viaID, err := ed.PlaceViaAndSwitchLayer()
	require.NoError(t, err)

	snap := ed.Snapshot()
	require.Len(t, snap.Doc.Vias, 1)
	via := snap.Doc.Vias[viaID]
	assert.Equal(t, at(10, 20), via.Position)
	assert.Equal(t, top, via.TopLayer)
	assert.Equal(t, bottom, via.BottomLayer)

	assert.Equal(t, ModeRouting, snap.Mode)
	assert.Equal(t, bottom, snap.Route.Layer, "routing continues on the flipped layer")
	assert.Equal(t, []pcb.Position{at(10, 20)}, snap.Route.Points, "points restart at the via")

	// The first trace is already committed, on the original layer.
	require.Len(t, snap.Doc.Traces, 1)
	for _, tr := range snap.Doc.Traces {
		assert.Equal(t, top, tr.Layer)
		require.Len(t, tr.Segments, 1)
		assert.Equal(t, at(10, 10), tr.Segments[0].Start)
		assert.Equal(t, at(10, 20), tr.Segments[0].End)
		assert.Equal(t, snap.Doc.Rules.MinTraceWidth, tr.Segments[0].Width)
	}

	ed.AddRoutePoint(at(30, 20))
	trID, ok := ed.FinishRoute()
	require.True(t, ok)

	final := ed.Document()
	require.Len(t, final.Traces, 2)
	second := final.Traces[trID]
	assert.Equal(t, bottom, second.Layer)
	require.Len(t, second.Segments, 1)
	assert.Equal(t, at(10, 20), second.Segments[0].Start)
	assert.Equal(t, at(30, 20), second.Segments[0].End)

	// Two frames were recorded: via+trace, then the second trace. A third
	// undo is a boundary no-op.
	require.True(t, ed.Undo())
	require.True(t, ed.Undo())
	assert.False(t, ed.Undo())

	empty := ed.Document()
	assert.Empty(t, empty.Traces)
	assert.Empty(t, empty.Vias)
}

func TestManhattanCornerSynthesis(t *testing.T) {
	ed, net := newBoardEditor(t)
	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))

	// Diagonal target: a corner at (30, 10) keeps segments orthogonal.
	ed.AddRoutePoint(at(30, 25))

	snap := ed.Snapshot()
	assert.Equal(t, []pcb.Position{at(10, 10), at(30, 10), at(30, 25)}, snap.Route.Points)

	// Axis-aligned targets append directly.
	ed.AddRoutePoint(at(30, 40))
	assert.Len(t, ed.Snapshot().Route.Points, 4)
}

func TestSnapIdempotence(t *testing.T) {
	ed, _ := newBoardEditor(t)
	ed.SetGrid(0.3, true)

	p := at(10.13, 7.442)
	once := ed.snapLocked(p)
	assert.Equal(t, once, ed.snapLocked(once))

	// Snapping off passes points through untouched.
	ed.SetGrid(0.3, false)
	assert.Equal(t, p, ed.snapLocked(p))
}

func TestSnapAppliedOnEntry(t *testing.T) {
	ed, net := newBoardEditor(t)
	ed.SetGrid(0.5, true)

	require.NoError(t, ed.StartRoute(at(10.2, 10.2), net.ID))
	snap := ed.Snapshot()
	assert.Equal(t, []pcb.Position{at(10, 10)}, snap.Route.Points)
}

func TestSwitchRouteLayerKeepsPoints(t *testing.T) {
	ed, net := newBoardEditor(t)
	bottom := ed.Document().BottomCopper().ID

	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))
	ed.AddRoutePoint(at(10, 30))
	ed.SwitchRouteLayer()

	snap := ed.Snapshot()
	assert.Equal(t, bottom, snap.Route.Layer)
	assert.Len(t, snap.Route.Points, 2, "layer switch must not touch points")
	assert.Empty(t, snap.Doc.Vias, "layer switch places no via")

	trID, ok := ed.FinishRoute()
	require.True(t, ok)
	assert.Equal(t, bottom, ed.Document().Traces[trID].Layer)
}

func TestFinishRouteDegenerateSilentlyCancels(t *testing.T) {
	ed, net := newBoardEditor(t)
	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))

	_, ok := ed.FinishRoute()
	assert.False(t, ok)
	assert.Equal(t, ModeIdle, ed.Mode())
	assert.Empty(t, ed.Document().Traces)
	assert.False(t, ed.Snapshot().CanUndo, "degenerate finish records no frame")
}

func TestCancelRouteTouchesNothing(t *testing.T) {
	ed, net := newBoardEditor(t)
	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))
	ed.AddRoutePoint(at(10, 30))
	ed.CancelRoute()

	assert.Equal(t, ModeIdle, ed.Mode())
	assert.Empty(t, ed.Document().Traces)
	assert.False(t, ed.Snapshot().CanUndo)
}

func TestStartRouteRefusals(t *testing.T) {
	ed, net := newBoardEditor(t)

	// Busy: one interactive operation at a time.
	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))
	assert.ErrorIs(t, ed.StartRoute(at(20, 20), net.ID), ErrBusy)
	ed.CancelRoute()

	// Unknown net.
	assert.ErrorIs(t, ed.StartRoute(at(10, 10), pcb.NetID("missing")), pcb.ErrUnknownNet)

	// Non-copper active layer.
	silk, ok := ed.Document().LayerByName("F.SilkS")
	require.True(t, ok)
	require.NoError(t, ed.SetActiveLayer(silk.ID))
	assert.ErrorIs(t, ed.StartRoute(at(10, 10), net.ID), ErrNoActiveLayer)
}

func TestRouteWidthFollowsNetClass(t *testing.T) {
	ed, net := newBoardEditor(t)

	doc := ed.Document().WithNetClass(pcb.NetClass{Name: "power", TraceWidth: 0.8})
	net.Class = "power"
	ed.history.Replace(doc.WithNet(net))

	require.NoError(t, ed.StartRoute(at(10, 10), net.ID))
	assert.Equal(t, 0.8, ed.Snapshot().Route.Width)
}

func TestZoneFlow(t *testing.T) {
	ed, net := newBoardEditor(t)

	require.NoError(t, ed.StartZone(net.ID))
	ed.AddZonePoint(at(10, 10))
	ed.AddZonePoint(at(40, 10))
	ed.AddZonePoint(at(40, 40))
	ed.AddZonePoint(at(10, 40))

	pourID, ok := ed.FinishZone()
	require.True(t, ok)

	pour := ed.Document().Pours[pourID]
	assert.Len(t, pour.Outline, 4)
	assert.Equal(t, net.ID, pour.Net)
	assert.Equal(t, pcb.FillSolid, pour.Fill)
	assert.Equal(t, ed.Document().Rules.MinClearance, pour.Clearance)
}

func TestZoneTooFewPointsSilentlyCancels(t *testing.T) {
	ed, net := newBoardEditor(t)

	require.NoError(t, ed.StartZone(net.ID))
	ed.AddZonePoint(at(10, 10))
	ed.AddZonePoint(at(40, 10))

	_, ok := ed.FinishZone()
	assert.False(t, ok)
	assert.Empty(t, ed.Document().Pours)
	assert.Equal(t, ModeIdle, ed.Mode())
	assert.False(t, ed.Snapshot().CanUndo)
}

func TestPlacementFlow(t *testing.T) {
	ed, _ := newBoardEditor(t)
	fp := twoPadFootprint()
	ed.history.Replace(ed.Document().WithFootprint(fp))

	ed.SetMouse(at(50, 50))
	require.NoError(t, ed.StartPlacement(fp.ID))

	ed.RotatePlacement()
	ed.RotatePlacement()
	ed.FlipPlacement()

	snap := ed.Snapshot()
	assert.Equal(t, pcb.Angle(180), snap.Placement.Rotation)
	assert.Equal(t, pcb.SideBottom, snap.Placement.Side)
	assert.Equal(t, at(50, 50), snap.Placement.Position)

	instID, err := ed.FinishPlacement("R1", "10k")
	require.NoError(t, err)

	inst := ed.Document().Instances[instID]
	assert.Equal(t, "R1", inst.RefDes)
	assert.Equal(t, pcb.Angle(180), inst.Rotation)
	assert.Equal(t, pcb.SideBottom, inst.Side)
	assert.Equal(t, ModeIdle, ed.Mode())
}

func TestPlacementPreviewFollowsMouse(t *testing.T) {
	ed, _ := newBoardEditor(t)
	fp := twoPadFootprint()
	ed.history.Replace(ed.Document().WithFootprint(fp))

	require.NoError(t, ed.StartPlacement(fp.ID))
	ed.SetMouse(at(30, 40))
	assert.Equal(t, at(30, 40), ed.Snapshot().Placement.Position)

	ed.CancelPlacement()
	assert.Empty(t, ed.Document().Instances)
}
