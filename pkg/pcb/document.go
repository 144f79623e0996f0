package pcb

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLayer     = errors.New("pcb: unknown layer")
	ErrUnknownNet       = errors.New("pcb: unknown net")
	ErrUnknownFootprint = errors.New("pcb: unknown footprint")
	ErrNotCopperLayer   = errors.New("pcb: layer is not copper")
	ErrDegenerate       = errors.New("pcb: degenerate geometry")
)

// PcbDocument is the aggregate root: an immutable snapshot of the entire
// board. All mutating operations return a structurally new snapshot; only the
// changed sub-collection is copied. Undo/redo depends on snapshots never
// being mutated in place.
type PcbDocument struct {
	Name       string
	Units      string // always "mm"
	Layers     map[LayerID]Layer
	LayerOrder []LayerID // stackup order, front to back
	Footprints map[FootprintID]Footprint
	Instances  map[InstanceID]FootprintInstance
	Traces     map[TraceID]Trace
	Vias       map[ViaID]Via
	Pours      map[PourID]CopperPour
	Nets       map[NetID]Net
	NetClasses map[string]NetClass
	Rules      DesignRules
	Outline    []Position
	Drc        DrcState
	Violations []DrcViolation
	Meta       map[string]string

	// Revision counts structural mutations. DRC results computed against an
	// older revision are stale and must be dropped on delivery.
	Revision uint64
}

// NewDocument builds a default two-layer board of the given size with the
// standard layer stack, a rectangular outline and default design rules.
func NewDocument(name string, width, height float64) *PcbDocument {
	doc := &PcbDocument{
		Name:       name,
		Units:      "mm",
		Layers:     make(map[LayerID]Layer),
		Footprints: make(map[FootprintID]Footprint),
		Instances:  make(map[InstanceID]FootprintInstance),
		Traces:     make(map[TraceID]Trace),
		Vias:       make(map[ViaID]Via),
		Pours:      make(map[PourID]CopperPour),
		Nets:       map[NetID]Net{NoNet: {ID: NoNet, Name: ""}},
		NetClasses: make(map[string]NetClass),
		Rules:      DefaultDesignRules(),
		Drc:        DrcNotRun,
		Meta:       make(map[string]string),
	}
	for _, layer := range standardStack() {
		doc.Layers[layer.ID] = layer
		doc.LayerOrder = append(doc.LayerOrder, layer.ID)
	}
	doc.Outline = []Position{
		{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height},
	}
	return doc
}

// clone shallow-copies the document header. Callers replace the one
// collection they change before returning the new snapshot.
func (d *PcbDocument) clone() *PcbDocument {
	nd := *d
	return &nd
}

func (d *PcbDocument) bump() *PcbDocument {
	nd := d.clone()
	nd.Revision++
	return nd
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LayerByName finds a layer by canonical name.
func (d *PcbDocument) LayerByName(name string) (Layer, bool) {
	for _, l := range d.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// CopperLayers returns the copper layers in stackup order.
func (d *PcbDocument) CopperLayers() []Layer {
	var out []Layer
	for _, id := range d.LayerOrder {
		if l := d.Layers[id]; l.IsCopper() {
			out = append(out, l)
		}
	}
	return out
}

// TopCopper and BottomCopper return the outermost copper layers.
func (d *PcbDocument) TopCopper() Layer {
	cu := d.CopperLayers()
	return cu[0]
}

func (d *PcbDocument) BottomCopper() Layer {
	cu := d.CopperLayers()
	return cu[len(cu)-1]
}

// OppositeCopper returns the other outer copper layer, used when a via flips
// the active routing side.
func (d *PcbDocument) OppositeCopper(id LayerID) LayerID {
	if id == d.TopCopper().ID {
		return d.BottomCopper().ID
	}
	return d.TopCopper().ID
}

func (d *PcbDocument) checkLayer(id LayerID, needCopper bool) error {
	layer, ok := d.Layers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	if needCopper && !layer.IsCopper() {
		return fmt.Errorf("%w: %s", ErrNotCopperLayer, layer.Name)
	}
	return nil
}

func (d *PcbDocument) checkNet(id NetID) error {
	if _, ok := d.Nets[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNet, id)
	}
	return nil
}

// WithFootprint adds or replaces a footprint definition in the library.
func (d *PcbDocument) WithFootprint(fp Footprint) *PcbDocument {
	nd := d.bump()
	nd.Footprints = copyMap(d.Footprints)
	nd.Footprints[fp.ID] = fp
	return nd
}

// FootprintByName finds a library footprint by library:name pair.
func (d *PcbDocument) FootprintByName(library, name string) (Footprint, bool) {
	for _, fp := range d.Footprints {
		if fp.Library == library && fp.Name == name {
			return fp, true
		}
	}
	return Footprint{}, false
}

// WithInstance adds or replaces a placed instance. The referenced footprint
// and every pad net must exist; a dangling reference is a construction
// failure, not a recoverable runtime condition.
func (d *PcbDocument) WithInstance(inst FootprintInstance) (*PcbDocument, error) {
	fp, ok := d.Footprints[inst.Footprint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFootprint, inst.Footprint)
	}
	for padID, netID := range inst.PadNets {
		if _, ok := fp.Pads[padID]; !ok {
			return nil, fmt.Errorf("pcb: instance %s references unknown pad %s", inst.RefDes, padID)
		}
		if err := d.checkNet(netID); err != nil {
			return nil, err
		}
	}
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	nd.Instances[inst.ID] = inst
	return nd, nil
}

// MoveInstance translates an instance. Moving a locked instance is a no-op,
// not an error: locking is a UI safeguard, not a security boundary.
func (d *PcbDocument) MoveInstance(id InstanceID, to Position) *PcbDocument {
	inst, ok := d.Instances[id]
	if !ok || inst.Locked || inst.Position == to {
		return d
	}
	inst.Position = to
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	nd.Instances[id] = inst
	return nd
}

// RotateInstance rotates an instance by the given degrees. No-op when locked.
func (d *PcbDocument) RotateInstance(id InstanceID, by Angle) *PcbDocument {
	inst, ok := d.Instances[id]
	if !ok || inst.Locked || by == 0 {
		return d
	}
	inst.Rotation = (inst.Rotation + by).Normalize()
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	nd.Instances[id] = inst
	return nd
}

// FlipInstance moves an instance to the opposite board side. No-op when locked.
func (d *PcbDocument) FlipInstance(id InstanceID) *PcbDocument {
	inst, ok := d.Instances[id]
	if !ok || inst.Locked {
		return d
	}
	inst.Side = inst.Side.Opposite()
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	nd.Instances[id] = inst
	return nd
}

// SetInstanceLocked sets the lock flag. Locking itself is never blocked.
func (d *PcbDocument) SetInstanceLocked(id InstanceID, locked bool) *PcbDocument {
	inst, ok := d.Instances[id]
	if !ok || inst.Locked == locked {
		return d
	}
	inst.Locked = locked
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	nd.Instances[id] = inst
	return nd
}

// WithoutInstance deletes a placed instance. The shared footprint definition
// stays in the library. Deleting an absent instance is a no-op.
func (d *PcbDocument) WithoutInstance(id InstanceID) *PcbDocument {
	if _, ok := d.Instances[id]; !ok {
		return d
	}
	nd := d.bump()
	nd.Instances = copyMap(d.Instances)
	delete(nd.Instances, id)
	return nd
}

// WithTrace adds or replaces a trace after validating its layer and net.
func (d *PcbDocument) WithTrace(tr Trace) (*PcbDocument, error) {
	if err := d.checkLayer(tr.Layer, true); err != nil {
		return nil, err
	}
	if err := d.checkNet(tr.Net); err != nil {
		return nil, err
	}
	if len(tr.Segments) == 0 {
		return nil, fmt.Errorf("%w: trace with no segments", ErrDegenerate)
	}
	nd := d.bump()
	nd.Traces = copyMap(d.Traces)
	nd.Traces[tr.ID] = tr
	return nd, nil
}

// WithoutTrace deletes a trace. No-op when absent.
func (d *PcbDocument) WithoutTrace(id TraceID) *PcbDocument {
	if _, ok := d.Traces[id]; !ok {
		return d
	}
	nd := d.bump()
	nd.Traces = copyMap(d.Traces)
	delete(nd.Traces, id)
	return nd
}

// WithVia adds or replaces a via after validating layers and net.
func (d *PcbDocument) WithVia(v Via) (*PcbDocument, error) {
	if err := d.checkLayer(v.TopLayer, true); err != nil {
		return nil, err
	}
	if err := d.checkLayer(v.BottomLayer, true); err != nil {
		return nil, err
	}
	if err := d.checkNet(v.Net); err != nil {
		return nil, err
	}
	nd := d.bump()
	nd.Vias = copyMap(d.Vias)
	nd.Vias[v.ID] = v
	return nd, nil
}

// WithoutVia deletes a via. No-op when absent.
func (d *PcbDocument) WithoutVia(id ViaID) *PcbDocument {
	if _, ok := d.Vias[id]; !ok {
		return d
	}
	nd := d.bump()
	nd.Vias = copyMap(d.Vias)
	delete(nd.Vias, id)
	return nd
}

// WithPour adds or replaces a copper pour. The outline needs at least three
// points to enclose any area.
func (d *PcbDocument) WithPour(p CopperPour) (*PcbDocument, error) {
	if err := d.checkLayer(p.Layer, true); err != nil {
		return nil, err
	}
	if err := d.checkNet(p.Net); err != nil {
		return nil, err
	}
	if len(p.Outline) < 3 {
		return nil, fmt.Errorf("%w: pour outline has %d points", ErrDegenerate, len(p.Outline))
	}
	nd := d.bump()
	nd.Pours = copyMap(d.Pours)
	nd.Pours[p.ID] = p
	return nd, nil
}

// WithoutPour deletes a pour. No-op when absent.
func (d *PcbDocument) WithoutPour(id PourID) *PcbDocument {
	if _, ok := d.Pours[id]; !ok {
		return d
	}
	nd := d.bump()
	nd.Pours = copyMap(d.Pours)
	delete(nd.Pours, id)
	return nd
}

// WithPourFill installs the fill engine's result into the pour's cache. Fill
// results are derived state: the revision does not change.
func (d *PcbDocument) WithPourFill(id PourID, polys [][]Position) *PcbDocument {
	pour, ok := d.Pours[id]
	if !ok {
		return d
	}
	pour.FilledPolys = polys
	nd := d.clone()
	nd.Pours = copyMap(d.Pours)
	nd.Pours[id] = pour
	return nd
}

// WithNet adds or replaces a net.
func (d *PcbDocument) WithNet(n Net) *PcbDocument {
	nd := d.bump()
	nd.Nets = copyMap(d.Nets)
	nd.Nets[n.ID] = n
	return nd
}

// WithNetClass adds or replaces a net class.
func (d *PcbDocument) WithNetClass(nc NetClass) *PcbDocument {
	nd := d.bump()
	nd.NetClasses = copyMap(d.NetClasses)
	nd.NetClasses[nc.Name] = nc
	return nd
}

// WithoutNet deletes a net. Traces, vias and pad bindings that referenced it
// are re-pointed at the NoNet sentinel; the entities themselves survive.
// The sentinel itself cannot be deleted.
func (d *PcbDocument) WithoutNet(id NetID) *PcbDocument {
	if _, ok := d.Nets[id]; !ok || id == NoNet {
		return d
	}
	nd := d.bump()
	nd.Nets = copyMap(d.Nets)
	delete(nd.Nets, id)

	nd.Traces = copyMap(d.Traces)
	for trID, tr := range nd.Traces {
		if tr.Net == id {
			tr.Net = NoNet
			nd.Traces[trID] = tr
		}
	}
	nd.Vias = copyMap(d.Vias)
	for viaID, v := range nd.Vias {
		if v.Net == id {
			v.Net = NoNet
			nd.Vias[viaID] = v
		}
	}
	nd.Pours = copyMap(d.Pours)
	for pourID, p := range nd.Pours {
		if p.Net == id {
			p.Net = NoNet
			nd.Pours[pourID] = p
		}
	}
	nd.Instances = copyMap(d.Instances)
	for instID, inst := range nd.Instances {
		changed := false
		for padID, netID := range inst.PadNets {
			if netID == id {
				if !changed {
					inst.PadNets = copyMap(inst.PadNets)
					changed = true
				}
				inst.PadNets[padID] = NoNet
			}
		}
		if changed {
			nd.Instances[instID] = inst
		}
	}
	return nd
}

// WithOutline replaces the board outline.
func (d *PcbDocument) WithOutline(points []Position) (*PcbDocument, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("%w: outline has %d points", ErrDegenerate, len(points))
	}
	nd := d.bump()
	nd.Outline = append([]Position(nil), points...)
	return nd, nil
}

// WithDesignRules replaces the board-wide rules as a whole.
func (d *PcbDocument) WithDesignRules(rules DesignRules) *PcbDocument {
	nd := d.bump()
	nd.Rules = rules
	return nd
}

// WithDrcRunning marks a DRC run in flight so the UI can refuse re-entrant
// triggering. DRC state is not a structural mutation.
func (d *PcbDocument) WithDrcRunning() *PcbDocument {
	nd := d.clone()
	nd.Drc = DrcRunning
	return nd
}

// WithDrcResult atomically replaces the whole violations array. A clean run
// installs an empty array, never nil: "run, clean" and "never run" stay
// distinguishable.
func (d *PcbDocument) WithDrcResult(violations []DrcViolation) *PcbDocument {
	nd := d.clone()
	nd.Drc = DrcComplete
	nd.Violations = make([]DrcViolation, 0, len(violations))
	nd.Violations = append(nd.Violations, violations...)
	return nd
}

// WithDrcCleared returns the document to the never-run state.
func (d *PcbDocument) WithDrcCleared() *PcbDocument {
	nd := d.clone()
	nd.Drc = DrcNotRun
	nd.Violations = nil
	return nd
}

// WithDrcFailed clears the running flag after a failed or stale run,
// restoring the result that stood before the run started. A failed run never
// erases an earlier clean result and is never left permanently "running".
func (d *PcbDocument) WithDrcFailed(prev DrcState, violations []DrcViolation) *PcbDocument {
	nd := d.clone()
	if prev != DrcComplete {
		nd.Drc = DrcNotRun
		nd.Violations = nil
		return nd
	}
	nd.Drc = DrcComplete
	nd.Violations = make([]DrcViolation, 0, len(violations))
	nd.Violations = append(nd.Violations, violations...)
	return nd
}
