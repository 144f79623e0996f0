package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/export"
	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/internal/view"
)

var (
	pngScale  float64
	pngTheme  string
	pngLabels bool
)

var pngCmd = &cobra.Command{
	Use:   "png <board.json> <out.png>",
	Short: "Render a board to a PNG image",
	Args:  cobra.ExactArgs(2),
	RunE:  runPNG,
}

func init() {
	pngCmd.Flags().Float64Var(&pngScale, "scale", 10, "pixels per millimeter")
	pngCmd.Flags().StringVar(&pngTheme, "theme", "classic",
		"color theme ("+strings.Join(view.ThemeNames(), ", ")+")")
	pngCmd.Flags().BoolVar(&pngLabels, "labels", true, "draw reference designators")
	rootCmd.AddCommand(pngCmd)
}

func runPNG(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	opts := export.PNGOptions{
		PixelsPerMM: pngScale,
		MarginMM:    5,
		Theme:       pngTheme,
		Labels:      pngLabels,
	}
	if err := export.WritePNG(doc, args[1], opts); err != nil {
		return err
	}
	printer.Success("wrote %s", args[1])
	return nil
}
