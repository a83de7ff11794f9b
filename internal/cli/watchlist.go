package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"gapjournal/internal/api"
	errs "gapjournal/internal/errors"
	"gapjournal/pkg/format"
)

// addWatchlistCommands adds the watchlist command group.
func addWatchlistCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Watchlist management",
		Long:  "Track symbols of interest independently of any trade.",
	}

	cmd.AddCommand(newWatchlistListCmd(app))
	cmd.AddCommand(newWatchlistAddCmd(app))
	cmd.AddCommand(newWatchlistUpdateCmd(app))
	cmd.AddCommand(newWatchlistRemoveCmd(app))

	rootCmd.AddCommand(cmd)
}

func newWatchlistListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List watchlist items",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			items, err := app.API.ListWatchlist(ctx, !all)
			if err != nil {
				output.Error("Failed to fetch watchlist: %s", errs.ServerMessage(err))
				return err
			}

			if output.IsJSON() {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Info("Watchlist is empty.")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "TARGET", "SECTOR", "ACTIVE", "ADDED", "NOTES")
			for _, item := range items {
				active := output.Green("yes")
				if !item.IsActive {
					active = output.DimText("no")
				}
				table.AddRow(
					strconv.Itoa(item.ID),
					item.Symbol,
					format.OptionalPrice(item.TargetPrice),
					format.OrDash(item.Sector),
					active,
					format.Date(item.AddedDate.Time, app.Config.UI.DateFormat),
					format.Truncate(format.OrDash(item.Notes), 40),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include inactive items")
	return cmd
}

func newWatchlistAddCmd(app *App) *cobra.Command {
	var (
		target float64
		sector string
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a symbol to the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			wc := api.WatchlistCreate{Symbol: args[0]}
			if cmd.Flags().Changed("target") {
				wc.TargetPrice = &target
			}
			if sector != "" {
				wc.Sector = &sector
			}
			if notes != "" {
				wc.Notes = &notes
			}

			item, msg, err := app.API.CreateWatchlistItem(ctx, wc)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if output.IsJSON() {
				return output.JSON(item)
			}
			if msg == "" {
				msg = item.Symbol + " added to watchlist"
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "target price")
	cmd.Flags().StringVar(&sector, "sector", "", "sector")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newWatchlistUpdateCmd(app *App) *cobra.Command {
	var (
		target   float64
		sector   string
		notes    string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a watchlist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.NewValidationError("id", args[0], "item id must be an integer")
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			wu := api.WatchlistUpdate{IsActive: !inactive}
			if cmd.Flags().Changed("target") {
				wu.TargetPrice = &target
			}
			if cmd.Flags().Changed("sector") {
				wu.Sector = &sector
			}
			if cmd.Flags().Changed("notes") {
				wu.Notes = &notes
			}

			item, msg, err := app.API.UpdateWatchlistItem(ctx, id, wu)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if output.IsJSON() {
				return output.JSON(item)
			}
			if msg == "" {
				msg = item.Symbol + " updated"
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}

	cmd.Flags().Float64Var(&target, "target", 0, "target price")
	cmd.Flags().StringVar(&sector, "sector", "", "sector")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "mark the item inactive")
	return cmd
}

func newWatchlistRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a watchlist item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.NewValidationError("id", args[0], "item id must be an integer")
			}
			if !yes {
				output.Warning("Refusing to remove without --yes")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			msg, err := app.API.DeleteWatchlistItem(ctx, id)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if msg == "" {
				msg = "Item removed from watchlist"
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removal")
	return cmd
}
