package cli

import (
	"context"

	"github.com/spf13/cobra"

	"gapjournal/internal/api"
	errs "gapjournal/internal/errors"
	"gapjournal/pkg/format"
)

// addScanCommands adds the gap scanner command.
func addScanCommands(rootCmd *cobra.Command, app *App) {
	var (
		minGap    float64
		direction string
		symbols   string
		date      string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan for price gaps",
		Long:  "Scan the market for stocks gapping up or down beyond a threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.Timeout())
			defer cancel()

			result, err := app.API.ScanGaps(ctx, api.ScanQuery{
				MinGap:    minGap,
				Direction: direction,
				Symbols:   symbols,
				Date:      date,
			})
			if err != nil {
				output.Error("Scan failed: %s", errs.ServerMessage(err))
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Bold("Gap Scan - %s", result.ScanDate)
			if result.TotalFound == 0 {
				output.Info("No gaps found matching the filters.")
				return nil
			}
			output.Println()

			table := NewTable(output, "SYMBOL", "DIR", "GAP%", "GAP$", "PREV", "OPEN", "CURRENT", "VOLUME", "SECTOR")
			for _, g := range result.Gaps {
				gapPct := format.Percent(g.GapPercent)
				if g.Direction == "up" {
					gapPct = output.Green(gapPct)
				} else {
					gapPct = output.Red(gapPct)
				}
				table.AddRow(
					g.Symbol,
					format.DirectionGlyph(g.Direction),
					gapPct,
					format.SignedPrice(g.GapAmount),
					format.Price(g.PrevClose),
					format.Price(g.Open),
					format.Price(g.Current),
					format.VolumeMillions(g.Volume),
					g.Sector,
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d gaps found", result.TotalFound)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minGap, "min-gap", app.Config.UI.DefaultMinGap, "minimum gap percentage")
	cmd.Flags().StringVar(&direction, "direction", "", "gap direction: up or down")
	cmd.Flags().StringVar(&symbols, "symbols", "", "comma-separated symbols to scan")
	cmd.Flags().StringVar(&date, "date", "", "scan date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(cmd)
}
