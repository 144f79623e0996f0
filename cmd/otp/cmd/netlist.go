package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/netlist"
)

var netlistOutput string

var netlistCmd = &cobra.Command{
	Use:   "netlist <board.json> <design.net>",
	Short: "Bind a netlist to the board's placed parts",
	Args:  cobra.ExactArgs(2),
	RunE:  runNetlist,
}

func init() {
	netlistCmd.Flags().StringVarP(&netlistOutput, "output", "o", "", "output file (defaults to in-place)")
	rootCmd.AddCommand(netlistCmd)
}

func runNetlist(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	parser, err := netlist.NewParser()
	if err != nil {
		return err
	}
	file, err := parser.ParseFile(args[1])
	if err != nil {
		return err
	}

	doc, err = netlist.Apply(doc, file)
	if err != nil {
		return err
	}

	out := netlistOutput
	if out == "" {
		out = args[0]
	}
	if err := saveBoard(doc, out); err != nil {
		return err
	}
	printer.Success("bound %d nets, wrote %s", len(doc.NetNames()), out)
	return nil
}
