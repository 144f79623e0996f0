package pcb

// LayerType classifies a board layer.
type LayerType string

const (
	LayerCopper      LayerType = "copper"
	LayerSilkscreen  LayerType = "silkscreen"
	LayerSoldermask  LayerType = "soldermask"
	LayerPaste       LayerType = "paste"
	LayerFabrication LayerType = "fabrication"
	LayerCourtyard   LayerType = "courtyard"
	LayerEdgeCuts    LayerType = "edge-cuts"
	LayerUser        LayerType = "user"
)

// Layer represents a PCB layer. Layers are created once at document
// initialization and are immutable thereafter.
type Layer struct {
	ID   LayerID
	Name string // canonical KiCad-style name, e.g. "F.Cu", "B.SilkS"
	Type LayerType
}

// IsCopper reports whether the layer carries copper.
func (l Layer) IsCopper() bool { return l.Type == LayerCopper }

// standardStack returns the layer set for a two-layer board, front to back.
func standardStack() []Layer {
	mk := func(name string, t LayerType) Layer {
		return Layer{ID: NewLayerID(), Name: name, Type: t}
	}
	return []Layer{
		mk("F.Cu", LayerCopper),
		mk("B.Cu", LayerCopper),
		mk("F.SilkS", LayerSilkscreen),
		mk("B.SilkS", LayerSilkscreen),
		mk("F.Mask", LayerSoldermask),
		mk("B.Mask", LayerSoldermask),
		mk("F.Paste", LayerPaste),
		mk("B.Paste", LayerPaste),
		mk("F.Fab", LayerFabrication),
		mk("B.Fab", LayerFabrication),
		mk("F.CrtYd", LayerCourtyard),
		mk("B.CrtYd", LayerCourtyard),
		mk("Edge.Cuts", LayerEdgeCuts),
	}
}
