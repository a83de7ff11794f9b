package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gapjournal/internal/ui"
)

// addUICommand adds the interactive terminal interface.
func addUICommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Launch the interactive interface",
		Long: `Launch the full-screen terminal interface with the scanner, journal,
watchlist and performance views.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			program := tea.NewProgram(
				ui.NewApp(app.API, app.Config, app.Logger),
				tea.WithAltScreen(),
			)
			_, err := program.Run()
			return err
		},
	}
	rootCmd.AddCommand(cmd)
}
