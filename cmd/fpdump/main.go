// fpdump dumps the s-expression structure of a KiCad footprint file. It is a
// debugging aid for footprint import problems: it shows what the generic
// parser sees before any footprint semantics are applied.
package main

import (
	"fmt"
	"os"

	"github.com/chewxy/sexp"

	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb/library"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: fpdump <footprint.kicad_mod>")
		os.Exit(1)
	}
	filename := os.Args[1]

	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	info, _ := file.Stat()
	fmt.Printf("File: %s (%d bytes)\n", filename, info.Size())

	sexps, err := sexp.Parse(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d top-level s-expressions\n", len(sexps))
	for i, s := range sexps {
		if s.IsLeaf() {
			fmt.Printf("  [%d] leaf: %s\n", i, s)
			continue
		}
		fmt.Printf("  [%d] list with %d leaves\n", i, s.LeafCount())
	}

	// Cross-check against the footprint importer.
	fp, err := library.ParseKicadModFile(filename)
	if err != nil {
		fmt.Printf("\nImporter rejects this file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nImporter: %s:%s, %d pads, %d graphics\n",
		fp.Library, fp.Name, len(fp.Pads), len(fp.Graphics))
	for _, pad := range fp.Pads {
		fmt.Printf("  pad %-4s %-10s at (%.3f, %.3f) size %.2fx%.2f drill %.2f\n",
			pad.Number, pad.Shape, pad.Position.X, pad.Position.Y,
			pad.Size.Width, pad.Size.Height, pad.Drill)
	}
}
