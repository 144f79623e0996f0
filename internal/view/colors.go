package view

import "image/color"

// Palette maps canonical layer names to display colors. Palettes are value
// types: callers hold the one they asked for rather than flipping a global.
type Palette struct {
	Name       string
	Background color.NRGBA
	Substrate  color.NRGBA
	PadColor   color.NRGBA
	ViaColor   color.NRGBA
	ViaDrill   color.NRGBA
	Ratsnest   color.NRGBA
	Selection  color.NRGBA
	Preview    color.NRGBA
	layers     map[string]color.NRGBA
}

// Layer returns the display color for a layer name, gray when unknown.
func (p Palette) Layer(name string) color.NRGBA {
	if c, ok := p.layers[name]; ok {
		return c
	}
	return color.NRGBA{R: 128, G: 128, B: 128, A: 255}
}

var classicLayers = map[string]color.NRGBA{
	"F.Cu":      {R: 200, G: 52, B: 52, A: 255},
	"B.Cu":      {R: 77, G: 127, B: 196, A: 255},
	"F.SilkS":   {R: 242, G: 237, B: 161, A: 255},
	"B.SilkS":   {R: 232, G: 178, B: 167, A: 255},
	"F.Mask":    {R: 216, G: 100, B: 255, A: 102},
	"B.Mask":    {R: 2, G: 255, B: 238, A: 102},
	"F.Paste":   {R: 180, G: 160, B: 154, A: 230},
	"B.Paste":   {R: 0, G: 194, B: 194, A: 230},
	"F.Fab":     {R: 175, G: 175, B: 175, A: 255},
	"B.Fab":     {R: 88, G: 93, B: 132, A: 255},
	"F.CrtYd":   {R: 255, G: 38, B: 226, A: 255},
	"B.CrtYd":   {R: 38, G: 233, B: 255, A: 255},
	"Edge.Cuts": {R: 208, G: 210, B: 205, A: 255},
}

var nordLayers = map[string]color.NRGBA{
	"F.Cu":      {R: 191, G: 97, B: 106, A: 255},
	"B.Cu":      {R: 129, G: 161, B: 193, A: 255},
	"F.SilkS":   {R: 235, G: 203, B: 139, A: 255},
	"B.SilkS":   {R: 208, G: 135, B: 112, A: 255},
	"F.Mask":    {R: 180, G: 142, B: 173, A: 102},
	"B.Mask":    {R: 136, G: 192, B: 208, A: 102},
	"F.Fab":     {R: 216, G: 222, B: 233, A: 255},
	"B.Fab":     {R: 76, G: 86, B: 106, A: 255},
	"F.CrtYd":   {R: 180, G: 142, B: 173, A: 255},
	"B.CrtYd":   {R: 136, G: 192, B: 208, A: 255},
	"Edge.Cuts": {R: 229, G: 233, B: 240, A: 255},
}

// PaletteByName resolves a session theme name, falling back to classic.
func PaletteByName(name string) Palette {
	switch name {
	case "nord":
		return Palette{
			Name:       "nord",
			Background: color.NRGBA{R: 46, G: 52, B: 64, A: 255},
			Substrate:  color.NRGBA{R: 59, G: 66, B: 82, A: 255},
			PadColor:   color.NRGBA{R: 235, G: 203, B: 139, A: 255},
			ViaColor:   color.NRGBA{R: 229, G: 233, B: 240, A: 255},
			ViaDrill:   color.NRGBA{R: 235, G: 203, B: 139, A: 255},
			Ratsnest:   color.NRGBA{R: 163, G: 190, B: 140, A: 200},
			Selection:  color.NRGBA{R: 255, G: 255, B: 255, A: 220},
			Preview:    color.NRGBA{R: 235, G: 203, B: 139, A: 160},
			layers:     nordLayers,
		}
	default:
		return Palette{
			Name:       "classic",
			Background: color.NRGBA{R: 0, G: 16, B: 35, A: 255},
			Substrate:  color.NRGBA{R: 20, G: 90, B: 50, A: 255},
			PadColor:   color.NRGBA{R: 227, G: 183, B: 46, A: 255},
			ViaColor:   color.NRGBA{R: 236, G: 236, B: 236, A: 255},
			ViaDrill:   color.NRGBA{R: 227, G: 183, B: 46, A: 255},
			Ratsnest:   color.NRGBA{R: 255, G: 255, B: 255, A: 140},
			Selection:  color.NRGBA{R: 255, G: 255, B: 255, A: 220},
			Preview:    color.NRGBA{R: 242, G: 237, B: 161, A: 160},
			layers:     classicLayers,
		}
	}
}

// ThemeNames lists the palettes available to the session preference.
func ThemeNames() []string {
	return []string{"classic", "nord"}
}
