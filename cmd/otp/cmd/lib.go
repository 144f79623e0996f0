package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb/library"
)

var libOutput string

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Footprint library operations",
}

var libImportCmd = &cobra.Command{
	Use:   "import <board.json> <dir.pretty>",
	Short: "Load KiCad footprints into the board's library",
	Args:  cobra.ExactArgs(2),
	RunE:  runLibImport,
}

func init() {
	libImportCmd.Flags().StringVarP(&libOutput, "output", "o", "", "output file (defaults to in-place)")
	libCmd.AddCommand(libImportCmd)
	rootCmd.AddCommand(libCmd)
}

func runLibImport(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	lib := library.New()
	count, err := lib.LoadDir(args[1])
	if err != nil {
		return err
	}
	if count == 0 {
		printer.Warning("no .kicad_mod files under %s", args[1])
		return nil
	}
	doc = lib.Install(doc)

	out := libOutput
	if out == "" {
		out = args[0]
	}
	if err := saveBoard(doc, out); err != nil {
		return err
	}
	printer.Success("imported %d footprints, wrote %s", count, out)
	if verbose {
		for _, name := range lib.Names() {
			printer.Info("  %s", name)
		}
	}
	return nil
}
