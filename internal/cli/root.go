// Package cli provides the command-line interface for the journal client.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gapjournal/internal/api"
	"gapjournal/internal/config"
	"gapjournal/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-01-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	API    *api.Client
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		API: api.New(api.Config{
			BaseURL: cfg.Server.BaseURL,
			Timeout: cfg.Server.Timeout(),
			Logger:  logger,
		}),
	}

	rootCmd := &cobra.Command{
		Use:   "gapjournal",
		Short: "Gap trading journal client",
		Long: `gapjournal is a terminal client for a gap trading journal server.

It scans for price gaps, records trades against them, tracks a watchlist,
and reports performance statistics. All data lives on the server; every
command works against the live API.

Run 'gapjournal ui' for the interactive interface, or use the subcommands
directly for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/gapjournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addScanCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addWatchlistCommands(rootCmd, app)
	addStatsCommands(rootCmd, app)
	addUICommand(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("gapjournal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Server")
			output.Printf("  base_url: %s\n", app.Config.Server.BaseURL)
			output.Printf("  timeout:  %s\n", app.Config.Server.Timeout())
			output.Bold("UI")
			output.Printf("  date_format:    %s\n", app.Config.UI.DateFormat)
			output.Printf("  min_gap:        %.1f%%\n", app.Config.UI.DefaultMinGap)
			output.Printf("  period_days:    %d\n", app.Config.UI.DefaultPeriodDays)
			output.Printf("  debounce:       %s\n", app.Config.UI.Debounce())
			output.Bold("Logging")
			output.Printf("  level: %s\n", app.Config.Logging.Level)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
