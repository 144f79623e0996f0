package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTracePCB/internal/editor"
	"github.com/OpenTraceLab/OpenTracePCB/internal/printer"
	"github.com/OpenTraceLab/OpenTracePCB/internal/view"
)

var editSession string

var editCmd = &cobra.Command{
	Use:   "edit <board.json>",
	Short: "Open the interactive layout editor",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editSession, "session", "", "session preferences file (defaults to ~/.config/otp/session.yaml)")
	rootCmd.AddCommand(editCmd)
}

func sessionPath() string {
	if editSession != "" {
		return editSession
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.yaml"
	}
	return filepath.Join(home, ".config", "otp", "session.yaml")
}

func runEdit(cmd *cobra.Command, args []string) error {
	doc, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	session, err := editor.LoadSession(sessionPath())
	if err != nil {
		printer.Warning("session preferences unreadable, using defaults: %v", err)
		session = editor.DefaultSession()
	}

	ed := editor.New(doc.WithNetCaches())
	ed.ApplySession(session)

	printer.Info("editing %s (%d placed parts, %d nets)", args[0], len(doc.Instances), len(doc.NetNames()))
	view.Open(ed, "OpenTracePCB - "+filepath.Base(args[0]), session.Theme)
	return nil
}
