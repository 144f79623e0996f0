package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/pkg/pcb/drc"
)

var drcOutput string

var drcCmd = &cobra.Command{
	Use:   "drc <board.json>",
	Short: "Run design rule checks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrcCmd,
}

func init() {
	drcCmd.Flags().StringVarP(&drcOutput, "output", "o", "", "write the checked board back to a file")
	rootCmd.AddCommand(drcCmd)
}

func runDrcCmd(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	violations, err := drc.New().Run(context.Background(), doc)
	if err != nil {
		return err
	}
	doc = doc.WithDrcResult(violations)

	if len(violations) == 0 {
		printer.Success("no violations")
	} else {
		printer.Warning("%d violations", len(violations))
		for _, v := range violations {
			printer.Info("  [%s] %s at (%.2f, %.2f) %s",
				v.Type, v.Message, v.Position.X, v.Position.Y, v.Location)
		}
	}

	if drcOutput != "" {
		if err := saveBoard(doc, drcOutput); err != nil {
			return err
		}
		printer.Success("wrote %s", drcOutput)
	}
	return nil
}
