package pcb

import "sort"

// PadRef identifies one pad of one placed instance.
type PadRef struct {
	Instance InstanceID
	Pad      PadID
}

// NetItems collects everything connected to a net.
type NetItems struct {
	Net    Net
	Pads   []PadRef
	Traces []Trace
	Vias   []Via
	Pours  []CopperPour
}

// ItemsForNet returns complete information about one net, nil if unknown.
func (d *PcbDocument) ItemsForNet(id NetID) *NetItems {
	net, ok := d.Nets[id]
	if !ok {
		return nil
	}
	items := &NetItems{Net: net}
	for instID, inst := range d.Instances {
		for padID, netID := range inst.PadNets {
			if netID == id {
				items.Pads = append(items.Pads, PadRef{Instance: instID, Pad: padID})
			}
		}
	}
	for _, tr := range d.Traces {
		if tr.Net == id {
			items.Traces = append(items.Traces, tr)
		}
	}
	for _, v := range d.Vias {
		if v.Net == id {
			items.Vias = append(items.Vias, v)
		}
	}
	for _, p := range d.Pours {
		if p.Net == id {
			items.Pours = append(items.Pours, p)
		}
	}
	return items
}

// NetByName finds a net by its electrical name.
func (d *PcbDocument) NetByName(name string) (Net, bool) {
	for _, n := range d.Nets {
		if n.Name == name {
			return n, true
		}
	}
	return Net{}, false
}

// NetNames returns all net names, sorted, excluding the unrouted sentinel.
func (d *PcbDocument) NetNames() []string {
	names := make([]string, 0, len(d.Nets))
	for id, n := range d.Nets {
		if id == NoNet {
			continue
		}
		names = append(names, n.Name)
	}
	sort.Strings(names)
	return names
}

// PadPosition returns the absolute board position of an instance pad.
func (d *PcbDocument) PadPosition(ref PadRef) (Position, bool) {
	inst, ok := d.Instances[ref.Instance]
	if !ok {
		return Position{}, false
	}
	fp, ok := d.Footprints[inst.Footprint]
	if !ok {
		return Position{}, false
	}
	pad, ok := fp.Pads[ref.Pad]
	if !ok {
		return Position{}, false
	}
	return TransformPad(pad.Position, inst.Position, inst.Rotation, inst.Side), true
}

// InstanceByRefDes finds a placed instance by reference designator.
func (d *PcbDocument) InstanceByRefDes(refDes string) (FootprintInstance, bool) {
	for _, inst := range d.Instances {
		if inst.RefDes == refDes {
			return inst, true
		}
	}
	return FootprintInstance{}, false
}
