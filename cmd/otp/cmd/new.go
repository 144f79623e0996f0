package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

var (
	newName   string
	newWidth  float64
	newHeight float64
)

var newCmd = &cobra.Command{
	Use:   "new <board.json>",
	Short: "Create an empty two-layer board",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&newName, "name", "", "board name (defaults to the file name)")
	newCmd.Flags().Float64Var(&newWidth, "width", 100, "board width in mm")
	newCmd.Flags().Float64Var(&newHeight, "height", 80, "board height in mm")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := newName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc := pcb.NewDocument(name, newWidth, newHeight)
	if err := saveBoard(doc, path); err != nil {
		return err
	}
	printer.Success("created %s (%gx%gmm, %d layers)", path, newWidth, newHeight, len(doc.Layers))
	return nil
}
