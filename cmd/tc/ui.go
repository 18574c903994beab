package main

import (
	"github.com/amonks/timeclock/internal/clocktui"
	"github.com/amonks/timeclock/internal/editor"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive session screen",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	if !editor.IsInteractive() {
		return validationf("tc ui needs a terminal")
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	return clocktui.Run(cmd.Context(), s.tracker, clocktui.Options{
		Location: s.loc,
		PageSize: s.cfg.PageSize(),
	})
}
