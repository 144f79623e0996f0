// Package netlist parses a small net assignment language and applies it to a
// board document. It exists so schematic-derived connectivity can be brought
// into a layout without a full schematic import:
//
//	# power nets
//	class "power" width 0.5 clearance 0.3 via 0.8 drill 0.4
//	net "GND" class "power" { R1.1 C3.2 U1.4 }
//	net "SDA" { U1.7 R2.2 }
package netlist

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

// File is the parsed netlist document.
type File struct {
	Decls []*Decl `parser:"@@*"`
}

// Decl is one top-level declaration.
type Decl struct {
	Class *ClassDecl `parser:"@@"`
	Net   *NetDecl   `parser:"| @@"`
}

// ClassDecl declares a net class with routing defaults.
type ClassDecl struct {
	Name        string  `parser:"'class' @String"`
	TraceWidth  float64 `parser:"'width' @Number"`
	Clearance   float64 `parser:"'clearance' @Number"`
	ViaDiameter float64 `parser:"'via' @Number"`
	ViaDrill    float64 `parser:"'drill' @Number"`
}

// NetDecl declares a net and the pins that belong to it.
type NetDecl struct {
	Name  string    `parser:"'net' @String"`
	Class string    `parser:"( 'class' @String )?"`
	Pins  []*PinRef `parser:"'{' @@* '}'"`
}

// PinRef names one pad of one placed instance, e.g. R1.2 or U3.A7.
type PinRef struct {
	RefDes string `parser:"@Ident"`
	Pad    string `parser:"'.' @( Ident | Number )"`
}

var netlistLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_+\-]*`},
	{Name: "Punct", Pattern: `[{}.]`},
})

// Parser wraps the participle grammar for netlist files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds a netlist parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(netlistLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("netlist: build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a netlist from a reader.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("netlist: parse error: %w", err)
	}
	return file, nil
}

// ParseString parses a netlist from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("netlist: parse error: %w", err)
	}
	return file, nil
}

// ParseFile parses a netlist from a file path.
func (p *Parser) ParseFile(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("netlist: open file: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Apply binds the parsed netlist into a document: net classes and nets are
// created (nets are matched by name when they already exist) and each pin
// reference re-points the named instance pad. Unknown reference designators
// or pad numbers fail the whole application; the input document is returned
// unchanged on error.
func Apply(doc *pcb.PcbDocument, file *File) (*pcb.PcbDocument, error) {
	out := doc

	for _, decl := range file.Decls {
		if decl.Class == nil {
			continue
		}
		c := decl.Class
		out = out.WithNetClass(pcb.NetClass{
			Name: c.Name, TraceWidth: c.TraceWidth, Clearance: c.Clearance,
			ViaDiameter: c.ViaDiameter, ViaDrill: c.ViaDrill,
		})
	}

	for _, decl := range file.Decls {
		if decl.Net == nil {
			continue
		}
		nd := decl.Net

		net, ok := out.NetByName(nd.Name)
		if !ok {
			net = pcb.Net{ID: pcb.NewNetID(), Name: nd.Name}
		}
		if nd.Class != "" {
			if _, ok := out.NetClasses[nd.Class]; !ok {
				return doc, fmt.Errorf("netlist: net %q references unknown class %q", nd.Name, nd.Class)
			}
			net.Class = nd.Class
		}
		out = out.WithNet(net)

		for _, pin := range nd.Pins {
			inst, ok := out.InstanceByRefDes(pin.RefDes)
			if !ok {
				return doc, fmt.Errorf("netlist: unknown reference designator %q", pin.RefDes)
			}
			fp, ok := out.Footprints[inst.Footprint]
			if !ok {
				return doc, fmt.Errorf("netlist: instance %q has no footprint", pin.RefDes)
			}
			pad, ok := fp.PadByNumber(pin.Pad)
			if !ok {
				return doc, fmt.Errorf("netlist: %s has no pad %q", pin.RefDes, pin.Pad)
			}

			padNets := make(map[pcb.PadID]pcb.NetID, len(inst.PadNets)+1)
			for k, v := range inst.PadNets {
				padNets[k] = v
			}
			padNets[pad.ID] = net.ID
			inst.PadNets = padNets

			var err error
			out, err = out.WithInstance(inst)
			if err != nil {
				return doc, fmt.Errorf("netlist: bind %s.%s: %w", pin.RefDes, pin.Pad, err)
			}
		}
	}

	return out.WithNetCaches(), nil
}
