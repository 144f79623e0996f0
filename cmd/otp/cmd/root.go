package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "otp",
	Short: "OpenTracePCB - interactive PCB layout tools",
	Long: `OpenTracePCB (otp) edits and inspects PCB layout documents.

Examples:
  otp new board.json --width 100 --height 80   # Create an empty two-layer board
  otp info board.json                          # Summarize a board file
  otp lib import board.json parts.pretty       # Load KiCad footprints
  otp netlist board.json design.net            # Bind a netlist to placed parts
  otp drc board.json                           # Run design rule checks
  otp png board.json board.png                 # Render to an image
  otp edit board.json                          # Open the interactive editor`,
	Version: "0.3.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
