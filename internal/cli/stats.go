package cli

import (
	"context"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	errs "gapjournal/internal/errors"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

// addStatsCommands adds the performance stats command.
func addStatsCommands(rootCmd *cobra.Command, app *App) {
	var days string

	cmd := &cobra.Command{
		Use:     "performance",
		Aliases: []string{"stats"},
		Short:   "Performance statistics",
		Long:    "Show the server-computed performance summary, pnl series and gap type breakdown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			// The three endpoints are independent; fetch them together and
			// fail the command if any of them fails.
			var (
				wg        sync.WaitGroup
				summary   models.StatsSummary
				series    models.PnlSeries
				breakdown models.GapTypeBreakdown
				errSum    error
				errSer    error
				errBrk    error
			)
			wg.Add(3)
			go func() {
				defer wg.Done()
				summary, errSum = app.API.GetSummary(ctx)
			}()
			go func() {
				defer wg.Done()
				series, errSer = app.API.GetPnlSeries(ctx, days)
			}()
			go func() {
				defer wg.Done()
				breakdown, errBrk = app.API.GetGapTypeBreakdown(ctx)
			}()
			wg.Wait()

			for _, err := range []error{errSum, errSer, errBrk} {
				if err != nil {
					output.Error("Failed to fetch stats: %s", errs.ServerMessage(err))
					return err
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"summary":     summary,
					"pnl_series":  series,
					"by_gap_type": breakdown,
				})
			}

			output.Bold("Performance Summary")
			output.Printf("  Trades:          %d (%d open, %d closed)\n",
				summary.TotalTrades, summary.OpenTrades, summary.ClosedTrades)
			output.Printf("  Win rate:        %s\n", format.WinRate(summary.WinRate))
			output.Printf("  Total P&L:       %s\n", output.FormatPnL(summary.TotalPnl))
			output.Printf("  Avg P&L:         %s\n", output.FormatPnL(summary.AvgPnl))
			output.Printf("  Best trade:      %s\n", output.FormatPnL(summary.BestTrade))
			output.Printf("  Worst trade:     %s\n", output.FormatPnL(summary.WorstTrade))
			output.Printf("  Avg winner:      %s\n", output.FormatPnL(summary.AvgWinner))
			output.Printf("  Avg loser:       %s\n", output.FormatPnL(summary.AvgLoser))
			output.Printf("  Profit factor:   %.2f\n", summary.ProfitFactor)
			output.Printf("  Streaks:         %dW / %dL\n",
				summary.MaxConsecutiveWins, summary.MaxConsecutiveLosses)
			output.Println()

			output.Bold("By Gap Type")
			table := NewTable(output, "TYPE", "TRADES", "WIN%", "AVG P&L", "TOTAL P&L")
			for _, gt := range []models.GapType{models.GapTypeUp, models.GapTypeDown} {
				stats, ok := breakdown[gt]
				if !ok {
					continue
				}
				table.AddRow(
					format.GapTypeGlyph(gt)+" "+string(gt),
					strconv.Itoa(stats.Count),
					format.WinRate(stats.WinRate),
					output.FormatPnL(stats.AvgPnl),
					output.FormatPnL(stats.TotalPnl),
				)
			}
			table.Render()

			if n := len(series.Labels); n > 0 {
				output.Println()
				output.Dim("P&L series: %d points, %s through %s (run 'gapjournal ui' for charts)",
					n, series.Labels[0], series.Labels[n-1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&days, "days", strconv.Itoa(app.Config.UI.DefaultPeriodDays),
		"series period in days, or 'all'")
	rootCmd.AddCommand(cmd)
}
