package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
)

var netsCmd = &cobra.Command{
	Use:   "nets <board.json>",
	Short: "Report per-net routing state",
	Args:  cobra.ExactArgs(1),
	RunE:  runNets,
}

func init() {
	rootCmd.AddCommand(netsCmd)
}

func runNets(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}
	doc = doc.WithNetCaches()

	unrouted := 0
	for _, name := range doc.NetNames() {
		net, _ := doc.NetByName(name)
		items := doc.ItemsForNet(net.ID)

		class := net.Class
		if class == "" {
			class = "default"
		}
		if net.FullyRouted {
			printer.Success("%-16s class %-10s %d pads, %d traces, %d vias",
				name, class, len(items.Pads), len(items.Traces), len(items.Vias))
			continue
		}
		unrouted++
		printer.Warning("%-16s class %-10s %d pads, %d airwires",
			name, class, len(items.Pads), len(net.Ratsnest))
	}

	if unrouted == 0 {
		printer.Info("all nets routed")
	} else {
		printer.Info("%d nets unrouted", unrouted)
	}
	return nil
}
