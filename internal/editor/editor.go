// Package editor owns the interactive layout session: the document history,
// selection, tool state and the routing/placement state machine. The UI event
// loop calls commands on one Editor; rendering reads Snapshot copies and never
// holds the lock across a frame.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb/drc"
)

var (
	ErrBusy          = errors.New("editor: interactive operation already in progress")
	ErrNoActiveLayer = errors.New("editor: no active copper layer")
	ErrDrcRunning    = errors.New("editor: design rule check already running")
)

// Tool is the currently armed pointer tool.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolTrack  Tool = "track"
)

// Editor is the application-state root: one document history, one selection,
// one in-progress interactive operation at a time.
type Editor struct {
	mu sync.RWMutex

	history *History
	sel     *Selection

	tool        Tool
	mode        Mode
	route       RouteState
	placement   PlacementState
	zone        ZoneState
	activeLayer pcb.LayerID
	hidden      map[pcb.LayerID]bool

	gridSize float64
	snapGrid bool
	mouse    pcb.Position

	drcEngine  *drc.Engine
	drcPending bool

	// Result that stood before the pending run, restored when the run
	// fails or comes back stale.
	drcPrevState      pcb.DrcState
	drcPrevViolations []pcb.DrcViolation
}

// Snapshot is the read surface handed to rendering. Everything in it is a
// copy; the renderer never observes a half-applied command.
type Snapshot struct {
	Doc         *pcb.PcbDocument
	Tool        Tool
	Mode        Mode
	Route       RouteState
	Placement   PlacementState
	Zone        ZoneState
	ActiveLayer pcb.LayerID
	Hidden      map[pcb.LayerID]bool
	Selection   Selection
	Mouse       pcb.Position
	GridSize    float64
	SnapToGrid  bool
	CanUndo     bool
	CanRedo     bool
}

// New wraps a document in a fresh editing session. The top copper layer
// starts active and visible.
func New(doc *pcb.PcbDocument) *Editor {
	return &Editor{
		history:     NewHistory(doc),
		sel:         NewSelection(),
		tool:        ToolSelect,
		mode:        ModeIdle,
		activeLayer: doc.TopCopper().ID,
		hidden:      make(map[pcb.LayerID]bool),
		gridSize:    0.25,
		snapGrid:    true,
		drcEngine:   drc.New(),
	}
}

// Snapshot copies the current session state for rendering.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	hidden := make(map[pcb.LayerID]bool, len(e.hidden))
	for id, v := range e.hidden {
		hidden[id] = v
	}
	return Snapshot{
		Doc:         e.history.Present(),
		Tool:        e.tool,
		Mode:        e.mode,
		Route:       e.route.copy(),
		Placement:   e.placement,
		Zone:        e.zone.copy(),
		ActiveLayer: e.activeLayer,
		Hidden:      hidden,
		Selection:   e.sel.Copy(),
		Mouse:       e.mouse,
		GridSize:    e.gridSize,
		SnapToGrid:  e.snapGrid,
		CanUndo:     e.history.CanUndo(),
		CanRedo:     e.history.CanRedo(),
	}
}

// Document returns the current snapshot.
func (e *Editor) Document() *pcb.PcbDocument {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Present()
}

// commit records one history frame unless the operation turned out to be a
// no-op (the document operations return the same pointer in that case).
func (e *Editor) commit(next *pcb.PcbDocument) {
	if next == e.history.Present() {
		return
	}
	e.history.Record(next)
	e.sel.Prune(next)
}

// Undo steps back one frame and drops selection entries for entities that no
// longer exist. No-op at the boundary.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.history.Undo() {
		return false
	}
	e.sel.Prune(e.history.Present())
	return true
}

func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.history.Redo() {
		return false
	}
	e.sel.Prune(e.history.Present())
	return true
}

// SetTool arms a pointer tool. Switching tools cancels any in-progress
// interactive operation.
func (e *Editor) SetTool(t Tool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelCurrentLocked()
	e.tool = t
}

func (e *Editor) Tool() Tool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tool
}

// SetActiveLayer changes the layer new traces and zones land on.
func (e *Editor) SetActiveLayer(id pcb.LayerID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.history.Present().Layers[id]; !ok {
		return fmt.Errorf("%w: %s", pcb.ErrUnknownLayer, id)
	}
	e.activeLayer = id
	return nil
}

// SetLayerHidden toggles per-layer visibility. Visibility is session state,
// not document state.
func (e *Editor) SetLayerHidden(id pcb.LayerID, hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if hidden {
		e.hidden[id] = true
	} else {
		delete(e.hidden, id)
	}
}

// SetGrid configures grid size and snapping for subsequent points. Points
// already captured keep the coordinates they entered with.
func (e *Editor) SetGrid(size float64, snapEnabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size > 0 {
		e.gridSize = size
	}
	e.snapGrid = snapEnabled
}

// SetMouse tracks the pointer in board coordinates and moves any placement
// preview with it. Never recorded in history.
func (e *Editor) SetMouse(p pcb.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mouse = p
	if e.mode == ModePlacing {
		e.placement.Position = e.snapLocked(p)
	}
}

// Selection commands.

func (e *Editor) SelectInstance(id pcb.InstanceID, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.SelectInstance(id, additive)
}

func (e *Editor) SelectTrace(id pcb.TraceID, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.SelectTrace(id, additive)
}

func (e *Editor) SelectVia(id pcb.ViaID, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.SelectVia(id, additive)
}

func (e *Editor) SelectPour(id pcb.PourID, additive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.SelectPour(id, additive)
}

func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.Clear()
}

func (e *Editor) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.SelectAll(e.history.Present())
}

func (e *Editor) HoverInstance(id pcb.InstanceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.HoverInstance = id
}

func (e *Editor) HoverTrace(id pcb.TraceID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.HoverTrace = id
}

func (e *Editor) HoverVia(id pcb.ViaID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.HoverVia = id
}

func (e *Editor) HoverPour(id pcb.PourID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sel.HoverPour = id
}

// MoveSelection translates every selected unlocked instance by delta in one
// history frame. Locked instances stay put without failing the gesture.
func (e *Editor) MoveSelection(delta pcb.Position) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.history.Present()
	next := doc
	for id := range e.sel.Instances {
		inst, ok := next.Instances[id]
		if !ok {
			continue
		}
		next = next.MoveInstance(id, inst.Position.Add(delta))
	}
	e.commit(next)
}

// RotateSelection rotates every selected unlocked instance in place.
func (e *Editor) RotateSelection(by pcb.Angle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.history.Present()
	for id := range e.sel.Instances {
		next = next.RotateInstance(id, by)
	}
	e.commit(next)
}

// FlipSelection moves every selected unlocked instance to the other side.
func (e *Editor) FlipSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.history.Present()
	for id := range e.sel.Instances {
		next = next.FlipInstance(id)
	}
	e.commit(next)
}

// LockSelection sets the lock flag on every selected instance.
func (e *Editor) LockSelection(locked bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.history.Present()
	for id := range e.sel.Instances {
		next = next.SetInstanceLocked(id, locked)
	}
	e.commit(next)
}

// DeleteSelection removes every selected entity in one history frame. Locked
// instances and pours survive.
func (e *Editor) DeleteSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.history.Present()
	for id := range e.sel.Instances {
		if inst, ok := next.Instances[id]; ok && inst.Locked {
			continue
		}
		next = next.WithoutInstance(id)
	}
	for id := range e.sel.Traces {
		next = next.WithoutTrace(id)
	}
	for id := range e.sel.Vias {
		next = next.WithoutVia(id)
	}
	for id := range e.sel.Pours {
		if p, ok := next.Pours[id]; ok && p.Locked {
			continue
		}
		next = next.WithoutPour(id)
	}
	e.commit(next)
}

// PlaceVia drops a standalone via at a snapped point, outside any route.
func (e *Editor) PlaceVia(p pcb.Position, net pcb.NetID) (pcb.ViaID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := e.history.Present()
	via := e.buildVia(doc, e.snapLocked(p), net)
	next, err := doc.WithVia(via)
	if err != nil {
		return "", err
	}
	e.commit(next)
	return via.ID, nil
}

// DeleteVia removes one via directly.
func (e *Editor) DeleteVia(id pcb.ViaID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(e.history.Present().WithoutVia(id))
}

// SetOutline replaces the board outline in one frame.
func (e *Editor) SetOutline(points []pcb.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := e.history.Present().WithOutline(points)
	if err != nil {
		return err
	}
	e.commit(next)
	return nil
}

// SetDesignRules replaces the board rules wholesale in one frame.
func (e *Editor) SetDesignRules(rules pcb.DesignRules) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commit(e.history.Present().WithDesignRules(rules))
}

// RecomputeRatsnest refreshes the derived connectivity caches without
// creating a history frame.
func (e *Editor) RecomputeRatsnest() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Replace(e.history.Present().WithNetCaches())
}

// FillPours recomputes every pour fill. Derived state, no frame.
func (e *Editor) FillPours(ctx context.Context) error {
	e.mu.Lock()
	doc := e.history.Present()
	e.mu.Unlock()

	filled, err := drc.FillAll(ctx, doc)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// A structural edit landed while filling: the result no longer matches.
	if e.history.Present().Revision != doc.Revision {
		return nil
	}
	e.history.Replace(filled)
	return nil
}

// StartDrc marks a run in flight and returns the snapshot plus the revision
// the result must be installed against. Re-entrant starts are refused.
func (e *Editor) StartDrc() (*pcb.PcbDocument, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drcPending {
		return nil, 0, ErrDrcRunning
	}
	e.drcPending = true
	doc := e.history.Present()
	e.drcPrevState = doc.Drc
	e.drcPrevViolations = doc.Violations
	doc = doc.WithDrcRunning()
	e.history.Replace(doc)
	return doc, doc.Revision, nil
}

// InstallDrc delivers a finished run. A result computed against an older
// revision is stale and dropped: the document falls back to its previous
// complete or not-run state instead of showing findings about a board that
// no longer exists.
func (e *Editor) InstallDrc(revision uint64, violations []pcb.DrcViolation, runErr error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drcPending = false
	doc := e.history.Present()
	if runErr != nil || doc.Revision != revision {
		e.history.Replace(doc.WithDrcFailed(e.drcPrevState, e.drcPrevViolations))
		return
	}
	e.history.Replace(doc.WithDrcResult(violations))
}

// ClearDrc returns the document to the never-run state.
func (e *Editor) ClearDrc() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Replace(e.history.Present().WithDrcCleared())
}

// RunDrc performs a whole check synchronously: mark running, run the engine,
// install. Callers wanting the asynchronous path use StartDrc/InstallDrc
// directly from their own goroutine.
func (e *Editor) RunDrc(ctx context.Context) error {
	doc, revision, err := e.StartDrc()
	if err != nil {
		return err
	}
	violations, runErr := e.drcEngine.Run(ctx, doc)
	e.InstallDrc(revision, violations, runErr)
	return runErr
}

// buildVia sizes a via from the net's class when it has one, the board
// minimums otherwise.
func (e *Editor) buildVia(doc *pcb.PcbDocument, at pcb.Position, net pcb.NetID) pcb.Via {
	diameter := doc.Rules.MinViaDiameter
	drillDia := doc.Rules.MinViaDrill
	if n, ok := doc.Nets[net]; ok && n.Class != "" {
		if nc, ok := doc.NetClasses[n.Class]; ok {
			if nc.ViaDiameter > diameter {
				diameter = nc.ViaDiameter
			}
			if nc.ViaDrill > drillDia {
				drillDia = nc.ViaDrill
			}
		}
	}
	return pcb.Via{
		ID:            pcb.NewViaID(),
		Position:      at,
		Net:           net,
		Diameter:      diameter,
		DrillDiameter: drillDia,
		TopLayer:      doc.TopCopper().ID,
		BottomLayer:   doc.BottomCopper().ID,
	}
}
