package editor

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// Mode is the interactive state machine phase. Exactly one multi-step
// operation runs at a time; starting another while one is active is refused.
type Mode string

const (
	ModeIdle        Mode = "idle"
	ModeRouting     Mode = "routing"
	ModePlacing     Mode = "placing"
	ModeDrawingZone Mode = "drawing-zone"
)

// RouteState is the in-progress trace. Points are snapped on entry and never
// re-snapped; the width is frozen when the route starts.
type RouteState struct {
	Layer  pcb.LayerID
	Net    pcb.NetID
	Width  float64
	Points []pcb.Position
}

func (r RouteState) copy() RouteState {
	r.Points = append([]pcb.Position(nil), r.Points...)
	return r
}

// PlacementState previews a footprint before commit. Rotation moves in 90
// degree steps; the preview follows the mouse.
type PlacementState struct {
	Footprint pcb.FootprintID
	Position  pcb.Position
	Rotation  pcb.Angle
	Side      pcb.Side
}

// ZoneState accumulates a copper pour outline.
type ZoneState struct {
	Layer  pcb.LayerID
	Net    pcb.NetID
	Points []pcb.Position
}

func (z ZoneState) copy() ZoneState {
	z.Points = append([]pcb.Position(nil), z.Points...)
	return z
}

// snapLocked rounds a point to the session grid. Idempotent: a snapped point
// snaps to itself. Caller holds the lock.
func (e *Editor) snapLocked(p pcb.Position) pcb.Position {
	if !e.snapGrid || e.gridSize <= 0 {
		return p
	}
	g := e.gridSize
	return pcb.Position{
		X: math.Round(p.X/g) * g,
		Y: math.Round(p.Y/g) * g,
	}
}

// StartRoute begins drawing a trace at a snapped point on the active layer.
// Refused when another operation is in progress, the active layer is not
// copper, or the net does not exist.
func (e *Editor) StartRoute(p pcb.Position, net pcb.NetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeIdle {
		return ErrBusy
	}
	doc := e.history.Present()
	layer, ok := doc.Layers[e.activeLayer]
	if !ok || !layer.IsCopper() {
		return ErrNoActiveLayer
	}
	n, ok := doc.Nets[net]
	if !ok {
		return fmt.Errorf("%w: %s", pcb.ErrUnknownNet, net)
	}

	width := doc.Rules.MinTraceWidth
	if n.Class != "" {
		if nc, ok := doc.NetClasses[n.Class]; ok && nc.TraceWidth > width {
			width = nc.TraceWidth
		}
	}

	e.mode = ModeRouting
	e.route = RouteState{
		Layer:  e.activeLayer,
		Net:    net,
		Width:  width,
		Points: []pcb.Position{e.snapLocked(p)},
	}
	return nil
}

// AddRoutePoint appends a snapped point. A point aligned with neither axis of
// the previous one gets an orthogonal corner synthesized first, keeping
// segments Manhattan. Ignored outside routing.
func (e *Editor) AddRoutePoint(p pcb.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeRouting {
		return
	}
	p = e.snapLocked(p)
	last := e.route.Points[len(e.route.Points)-1]
	if p == last {
		return
	}
	if p.X != last.X && p.Y != last.Y {
		e.route.Points = append(e.route.Points, pcb.Position{X: p.X, Y: last.Y})
	}
	e.route.Points = append(e.route.Points, p)
}

// SwitchRouteLayer changes the layer the route will continue on without
// placing a via. Existing points are untouched; the change applies from the
// next via onward.
func (e *Editor) SwitchRouteLayer() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeRouting {
		return
	}
	doc := e.history.Present()
	e.route.Layer = doc.OppositeCopper(e.route.Layer)
	e.activeLayer = e.route.Layer
}

// PlaceViaAndSwitchLayer drops a via at the last route point, commits the
// trace drawn so far, and restarts the route from the via on the opposite
// layer. The via and the trace land in one history frame: undo removes both.
func (e *Editor) PlaceViaAndSwitchLayer() (pcb.ViaID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeRouting {
		return "", ErrBusy
	}
	doc := e.history.Present()
	at := e.route.Points[len(e.route.Points)-1]
	via := e.buildVia(doc, at, e.route.Net)

	next, err := doc.WithVia(via)
	if err != nil {
		return "", err
	}
	if len(e.route.Points) >= 2 {
		next, err = next.WithTrace(e.buildTrace())
		if err != nil {
			return "", err
		}
	}
	e.commit(next)

	e.route.Layer = next.OppositeCopper(e.route.Layer)
	e.activeLayer = e.route.Layer
	e.route.Points = []pcb.Position{at}
	return via.ID, nil
}

// FinishRoute commits the accumulated points as one trace and returns to
// idle. A route with fewer than two points is silently cancelled: no trace,
// no history frame.
func (e *Editor) FinishRoute() (pcb.TraceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeRouting {
		return "", false
	}
	if len(e.route.Points) < 2 {
		e.mode = ModeIdle
		e.route = RouteState{}
		return "", false
	}

	tr := e.buildTrace()
	next, err := e.history.Present().WithTrace(tr)
	if err != nil {
		// Validated at start; a failure here means the layer or net was
		// deleted mid-route. Treat as cancel.
		e.mode = ModeIdle
		e.route = RouteState{}
		return "", false
	}
	e.commit(next)
	e.mode = ModeIdle
	e.route = RouteState{}
	return tr.ID, true
}

// CancelRoute discards the in-progress points without touching history.
func (e *Editor) CancelRoute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeRouting {
		return
	}
	e.mode = ModeIdle
	e.route = RouteState{}
}

func (e *Editor) buildTrace() pcb.Trace {
	tr := pcb.Trace{
		ID:    pcb.NewTraceID(),
		Layer: e.route.Layer,
		Net:   e.route.Net,
	}
	pts := e.route.Points
	for i := 1; i < len(pts); i++ {
		tr.Segments = append(tr.Segments, pcb.TraceSegment{
			Start: pts[i-1], End: pts[i], Width: e.route.Width,
		})
	}
	return tr
}

// StartPlacement begins previewing a footprint at the current mouse position.
func (e *Editor) StartPlacement(fp pcb.FootprintID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeIdle {
		return ErrBusy
	}
	if _, ok := e.history.Present().Footprints[fp]; !ok {
		return fmt.Errorf("%w: %s", pcb.ErrUnknownFootprint, fp)
	}
	e.mode = ModePlacing
	e.placement = PlacementState{
		Footprint: fp,
		Position:  e.snapLocked(e.mouse),
		Side:      pcb.SideTop,
	}
	return nil
}

// RotatePlacement turns the preview one 90 degree step.
func (e *Editor) RotatePlacement() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModePlacing {
		return
	}
	e.placement.Rotation = (e.placement.Rotation + 90).Normalize()
}

// FlipPlacement previews the part on the opposite board side.
func (e *Editor) FlipPlacement() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModePlacing {
		return
	}
	e.placement.Side = e.placement.Side.Opposite()
}

// FinishPlacement commits the previewed instance in one frame.
func (e *Editor) FinishPlacement(refDes, value string) (pcb.InstanceID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModePlacing {
		return "", ErrBusy
	}
	inst := pcb.FootprintInstance{
		ID:        pcb.NewInstanceID(),
		Footprint: e.placement.Footprint,
		Position:  e.placement.Position,
		Rotation:  e.placement.Rotation,
		Side:      e.placement.Side,
		RefDes:    refDes,
		Value:     value,
	}
	next, err := e.history.Present().WithInstance(inst)
	if err != nil {
		return "", err
	}
	e.commit(next)
	e.mode = ModeIdle
	e.placement = PlacementState{}
	return inst.ID, nil
}

// CancelPlacement drops the preview.
func (e *Editor) CancelPlacement() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModePlacing {
		return
	}
	e.mode = ModeIdle
	e.placement = PlacementState{}
}

// StartZone begins accumulating a pour outline on the active layer.
func (e *Editor) StartZone(net pcb.NetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeIdle {
		return ErrBusy
	}
	doc := e.history.Present()
	layer, ok := doc.Layers[e.activeLayer]
	if !ok || !layer.IsCopper() {
		return ErrNoActiveLayer
	}
	if _, ok := doc.Nets[net]; !ok {
		return fmt.Errorf("%w: %s", pcb.ErrUnknownNet, net)
	}
	e.mode = ModeDrawingZone
	e.zone = ZoneState{Layer: e.activeLayer, Net: net}
	return nil
}

// AddZonePoint appends a snapped outline vertex. Ignored outside zone drawing.
func (e *Editor) AddZonePoint(p pcb.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeDrawingZone {
		return
	}
	p = e.snapLocked(p)
	if n := len(e.zone.Points); n > 0 && e.zone.Points[n-1] == p {
		return
	}
	e.zone.Points = append(e.zone.Points, p)
}

// FinishZone commits the outline as a copper pour. Fewer than three points
// silently cancels.
func (e *Editor) FinishZone() (pcb.PourID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeDrawingZone {
		return "", false
	}
	if len(e.zone.Points) < 3 {
		e.mode = ModeIdle
		e.zone = ZoneState{}
		return "", false
	}

	doc := e.history.Present()
	pour := pcb.CopperPour{
		ID:                pcb.NewPourID(),
		Layer:             e.zone.Layer,
		Net:               e.zone.Net,
		Outline:           append([]pcb.Position(nil), e.zone.Points...),
		Fill:              pcb.FillSolid,
		Clearance:         doc.Rules.MinClearance,
		MinWidth:          doc.Rules.MinTraceWidth,
		ThermalReliefGap:  0.5,
		ThermalSpokeWidth: 0.5,
		PadConnection:     pcb.PadConnectThermal,
	}
	next, err := doc.WithPour(pour)
	if err != nil {
		e.mode = ModeIdle
		e.zone = ZoneState{}
		return "", false
	}
	e.commit(next)
	e.mode = ModeIdle
	e.zone = ZoneState{}
	return pour.ID, true
}

// CancelZone discards the outline.
func (e *Editor) CancelZone() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeDrawingZone {
		return
	}
	e.mode = ModeIdle
	e.zone = ZoneState{}
}

// CancelCurrent implements the escape gesture: cancel whatever operation is
// in progress, otherwise clear the selection. Reports whether anything
// changed.
func (e *Editor) CancelCurrent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancelCurrentLocked()
}

func (e *Editor) cancelCurrentLocked() bool {
	switch e.mode {
	case ModeRouting:
		e.route = RouteState{}
	case ModePlacing:
		e.placement = PlacementState{}
	case ModeDrawingZone:
		e.zone = ZoneState{}
	case ModeIdle:
		if e.sel.IsEmpty() {
			return false
		}
		e.sel.Clear()
		return true
	}
	e.mode = ModeIdle
	return true
}

// Mode reports the state machine phase.
func (e *Editor) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}
