package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"gapjournal/internal/api"
	errs "gapjournal/internal/errors"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

// addTradeCommands adds the trade journal command group.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "journal",
		Aliases: []string{"trades"},
		Short:   "Trade journal management",
		Long:    "List, record, close and delete journal trades.",
	}

	cmd.AddCommand(newTradesListCmd(app))
	cmd.AddCommand(newTradesAddCmd(app))
	cmd.AddCommand(newTradesCloseCmd(app))
	cmd.AddCommand(newTradesDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradesListCmd(app *App) *cobra.Command {
	var (
		status string
		symbol string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			page, err := app.API.ListTrades(ctx, api.TradeFilter{Status: status, Symbol: symbol})
			if err != nil {
				output.Error("Failed to fetch trades: %s", errs.ServerMessage(err))
				return err
			}

			if output.IsJSON() {
				return output.JSON(page)
			}

			if len(page.Trades) == 0 {
				output.Info("No trades recorded.")
				return nil
			}

			table := NewTable(output, "ID", "SYMBOL", "DIR", "STATUS", "ENTRY", "EXIT", "QTY", "P&L", "P&L%", "RATING", "DATE")
			for _, t := range page.Trades {
				pnlCell := format.Dash
				if t.Pnl != nil {
					pnlCell = output.FormatPnL(*t.Pnl)
				}
				pctCell := format.Dash
				if t.PnlPercent != nil {
					pctCell = output.ColoredString(output.PnLColor(*t.PnlPercent), format.Percent(*t.PnlPercent))
				}
				table.AddRow(
					strconv.Itoa(t.ID),
					t.Symbol,
					string(t.Direction),
					string(t.Status),
					format.Price(t.EntryPrice),
					format.OptionalPrice(t.ExitPrice),
					strconv.Itoa(t.Quantity),
					pnlCell,
					pctCell,
					format.Stars(t.SetupRating),
					format.Date(t.EntryDate.Time, app.Config.UI.DateFormat),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d of %d trades", len(page.Trades), page.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status: open, closed or cancelled")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	return cmd
}

func newTradesAddCmd(app *App) *cobra.Command {
	var (
		direction  string
		gapType    string
		entryPrice float64
		quantity   int
		gapPercent float64
		rating     int
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Record a new trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			tc := api.TradeCreate{
				Symbol:     args[0],
				Direction:  models.TradeDirection(direction),
				GapType:    models.GapType(gapType),
				EntryPrice: entryPrice,
				Quantity:   quantity,
			}
			if cmd.Flags().Changed("gap-percent") {
				tc.GapPercent = &gapPercent
			}
			if cmd.Flags().Changed("rating") {
				tc.SetupRating = &rating
			}
			if notes != "" {
				tc.Notes = &notes
			}

			trade, msg, err := app.API.CreateTrade(ctx, tc)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if output.IsJSON() {
				return output.JSON(trade)
			}
			if msg == "" {
				msg = "Trade recorded"
			}
			output.Success("✓ %s (id %d)", msg, trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "long", "trade direction: long or short")
	cmd.Flags().StringVar(&gapType, "gap-type", "gap_up", "gap setup: gap_up or gap_down")
	cmd.Flags().Float64Var(&entryPrice, "entry", 0, "entry price")
	cmd.Flags().IntVar(&quantity, "qty", 0, "share quantity")
	cmd.Flags().Float64Var(&gapPercent, "gap-percent", 0, "gap percentage at entry")
	cmd.Flags().IntVar(&rating, "rating", 0, "setup rating 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "trade notes")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("qty")
	return cmd
}

func newTradesCloseCmd(app *App) *cobra.Command {
	var exitPrice float64

	cmd := &cobra.Command{
		Use:   "close ID",
		Short: "Close an open trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.NewValidationError("id", args[0], "trade id must be an integer")
			}
			if exitPrice <= 0 {
				// Rejected locally; no request goes out.
				output.Error("Exit price must be greater than zero")
				return errs.NewValidationError("exit", exitPrice, "must be greater than zero")
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			trade, msg, err := app.API.CloseTrade(ctx, id, exitPrice)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if output.IsJSON() {
				return output.JSON(trade)
			}
			if msg == "" {
				msg = "Trade closed"
			}
			pnl := format.Dash
			if trade.Pnl != nil {
				pnl = output.FormatPnL(*trade.Pnl)
			}
			output.Success("✓ %s", msg)
			output.Printf("P&L: %s\n", pnl)
			return nil
		},
	}

	cmd.Flags().Float64Var(&exitPrice, "exit", 0, "exit price")
	cmd.MarkFlagRequired("exit")
	return cmd
}

func newTradesDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errs.NewValidationError("id", args[0], "trade id must be an integer")
			}
			if !yes {
				output.Warning("Refusing to delete without --yes")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			msg, err := app.API.DeleteTrade(ctx, id)
			if err != nil {
				output.Error("%s", errs.ServerMessage(err))
				return err
			}
			if msg == "" {
				msg = "Trade deleted"
			}
			output.Success("✓ %s", msg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
