package pcb

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Two copper points closer than this are considered electrically joined.
const connectTolerance = 0.01 // mm

// copperItem is one connectivity participant: a pad, a trace or a via.
type copperItem struct {
	id     int64
	pad    *PadRef
	points []Position
	layers map[LayerID]bool // nil means all copper layers (through-hole, via)
}

func (it *copperItem) touches(other *copperItem) bool {
	if it.layers != nil && other.layers != nil {
		shared := false
		for l := range it.layers {
			if other.layers[l] {
				shared = true
				break
			}
		}
		if !shared {
			return false
		}
	}
	for _, a := range it.points {
		for _, b := range other.points {
			if a.Distance(b) <= connectTolerance {
				return true
			}
		}
	}
	return false
}

// netItemsForConnectivity flattens one net into copper items.
func (d *PcbDocument) netCopperItems(id NetID) []*copperItem {
	var items []*copperItem
	next := int64(0)
	add := func(it *copperItem) {
		it.id = next
		next++
		items = append(items, it)
	}

	for instID, inst := range d.Instances {
		fp, ok := d.Footprints[inst.Footprint]
		if !ok {
			continue
		}
		for padID, netID := range inst.PadNets {
			if netID != id {
				continue
			}
			pad, ok := fp.Pads[padID]
			if !ok {
				continue
			}
			ref := PadRef{Instance: instID, Pad: padID}
			item := &copperItem{
				pad:    &ref,
				points: []Position{TransformPad(pad.Position, inst.Position, inst.Rotation, inst.Side)},
			}
			if !pad.IsThroughHole() {
				side := d.TopCopper().ID
				if inst.Side == SideBottom {
					side = d.BottomCopper().ID
				}
				item.layers = map[LayerID]bool{side: true}
			}
			add(item)
		}
	}
	for _, tr := range d.Traces {
		if tr.Net != id {
			continue
		}
		item := &copperItem{layers: map[LayerID]bool{tr.Layer: true}}
		for _, seg := range tr.Segments {
			item.points = append(item.points, seg.Start, seg.End)
		}
		add(item)
	}
	for _, v := range d.Vias {
		if v.Net != id {
			continue
		}
		add(&copperItem{points: []Position{v.Position}})
	}
	return items
}

// netConnectivity computes whether the net is fully routed and, if not, a
// ratsnest of shortest unrouted hints. Components of touching copper are
// found with gonum's topo pass; the hint lines are a minimum spanning tree
// over the disconnected pad clusters.
func (d *PcbDocument) netConnectivity(id NetID) (bool, []RatsnestLine) {
	items := d.netCopperItems(id)

	var padCount int
	for _, it := range items {
		if it.pad != nil {
			padCount++
		}
	}
	if padCount < 2 {
		return true, nil
	}

	g := simple.NewUndirectedGraph()
	for _, it := range items {
		g.AddNode(simple.Node(it.id))
	}
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].touches(items[j]) {
				g.SetEdge(simple.Edge{F: simple.Node(items[i].id), T: simple.Node(items[j].id)})
			}
		}
	}

	byID := make(map[int64]*copperItem, len(items))
	for _, it := range items {
		byID[it.id] = it
	}

	// A cluster only matters for routing if it contains at least one pad.
	var clusters []Position
	for _, comp := range topo.ConnectedComponents(g) {
		var rep *Position
		for _, node := range comp {
			it := byID[node.ID()]
			if it.pad != nil {
				p := it.points[0]
				rep = &p
				break
			}
		}
		if rep != nil {
			clusters = append(clusters, *rep)
		}
	}
	if len(clusters) <= 1 {
		return true, nil
	}

	// Complete graph over cluster representatives, then Kruskal for the
	// shortest set of hint lines.
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range clusters {
		wg.AddNode(simple.Node(int64(i)))
	}
	for i := 0; i < len(clusters); i++ {
		for j := i + 1; j < len(clusters); j++ {
			wg.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(int64(i)),
				T: simple.Node(int64(j)),
				W: clusters[i].Distance(clusters[j]),
			})
		}
	}
	mst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(mst, wg)

	var lines []RatsnestLine
	edges := mst.WeightedEdges()
	for edges.Next() {
		e := edges.WeightedEdge()
		lines = append(lines, RatsnestLine{
			From: clusters[e.From().ID()],
			To:   clusters[e.To().ID()],
		})
	}
	return false, lines
}

// WithNetCaches recomputes the derived FullyRouted and Ratsnest fields on
// every net. Caches are not structural state: the revision does not change.
func (d *PcbDocument) WithNetCaches() *PcbDocument {
	nd := d.clone()
	nd.Nets = copyMap(d.Nets)
	for id, net := range nd.Nets {
		if id == NoNet {
			continue
		}
		routed, rats := d.netConnectivity(id)
		net.FullyRouted = routed
		net.Ratsnest = rats
		nd.Nets[id] = net
	}
	return nd
}
