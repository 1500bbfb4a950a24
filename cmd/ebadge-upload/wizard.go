package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/ebadge-upload/internal/wizard/tui"
)

func init() {
	rootCmd.AddCommand(wizardCmd)
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive upload wizard",
	Long: `Launch a full-screen terminal UI that walks through discovering a
display, choosing content, and streaming the upload with a live
progress bar.`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	program := tea.NewProgram(tui.NewAppModel(), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}
	return nil
}
