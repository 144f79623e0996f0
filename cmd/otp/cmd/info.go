package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb"
)

var infoCmd = &cobra.Command{
	Use:   "info <board.json>",
	Short: "Summarize a board file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	printer.Success("loaded %s", args[0])
	printer.Field("name", "%s", doc.Name)
	printer.Field("layers", "%d (%d copper)", len(doc.Layers), len(doc.CopperLayers()))
	printer.Field("footprints", "%d definitions, %d placed", len(doc.Footprints), len(doc.Instances))
	printer.Field("nets", "%d", len(doc.NetNames()))
	printer.Field("traces", "%d", len(doc.Traces))
	printer.Field("vias", "%d", len(doc.Vias))
	printer.Field("pours", "%d", len(doc.Pours))

	if box := doc.BoundingBox(); !box.IsEmpty() {
		printer.Field("size", "%.2f x %.2f mm", box.Width(), box.Height())
	}

	switch doc.Drc {
	case pcb.DrcComplete:
		if len(doc.Violations) == 0 {
			printer.Field("drc", "clean")
		} else {
			printer.Field("drc", "%d violations", len(doc.Violations))
		}
	case pcb.DrcRunning:
		printer.Field("drc", "running")
	default:
		printer.Field("drc", "not run")
	}

	if verbose {
		doc = doc.WithNetCaches()
		for _, name := range doc.NetNames() {
			net, _ := doc.NetByName(name)
			items := doc.ItemsForNet(net.ID)
			state := "unrouted"
			if net.FullyRouted {
				state = "routed"
			}
			printer.Info("  net %-16s %d pads, %d traces, %d vias (%s)",
				name, len(items.Pads), len(items.Traces), len(items.Vias), state)
		}
	}
	return nil
}
