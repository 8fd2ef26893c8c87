package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"tradejournal/pkg/utils"
)

// addReportCommands adds P&L reporting commands.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "P&L reports",
	}

	cmd.AddCommand(newReportMetricsCmd(app))
	cmd.AddCommand(newReportCalendarCmd(app))

	rootCmd.AddCommand(cmd)
}

func newReportMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show period P&L and trade statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			report, err := app.Service(cmd).Metrics(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(report)
			}

			output.Bold("P&L")
			output.Printf("  Today:      %s\n", output.FormatPnL(report.DayPnL))
			output.Printf("  This Week:  %s\n", output.FormatPnL(report.WeekPnL))
			output.Printf("  This Month: %s\n", output.FormatPnL(report.MonthPnL))
			output.Printf("  All Time:   %s\n", output.FormatPnL(report.AllTimePnL))
			output.Println()

			output.Bold("Trades")
			output.Printf("  Closed:        %d (%d wins / %d losses)\n",
				report.TotalTrades, report.WinningTrades, report.LosingTrades)
			output.Printf("  Win Rate:      %s%%\n", report.WinRate.String())
			output.Printf("  Profit Factor: %s\n", report.ProfitFactor.String())
			output.Printf("  Expectancy:    %s\n", output.FormatPnL(report.Expectancy))
			output.Println()

			output.Bold("Extremes")
			output.Printf("  Avg Win:      %s\n", FormatMoney(report.AvgWin))
			output.Printf("  Avg Loss:     %s (%s%% of capital)\n", FormatMoney(report.AvgLoss), report.AvgLossPercent.String())
			output.Printf("  Largest Win:  %s\n", FormatMoney(report.LargestWin))
			output.Printf("  Largest Loss: %s\n", FormatMoney(report.LargestLoss))
			return nil
		},
	}
}

func newReportCalendarCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show one month's trades grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			year, m, err := parseMonthFlag(month)
			if err != nil {
				return err
			}

			days, err := app.Service(cmd).TradesByMonth(cmd.Context(), year, m)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(days)
			}
			if len(days) == 0 {
				output.Info("No trades in %d-%02d", year, m)
				return nil
			}

			keys := make([]string, 0, len(days))
			for key := range days {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				day := days[key]
				output.Bold("%s  (%d trades, %s)", key, day.Count, output.FormatPnL(day.PnL))
				for _, t := range day.Trades {
					line := "  " + string(t.Action) + " " + t.Symbol +
						" x" + utils.FormatQuantity(t.Quantity) + " @ " + FormatMoney(t.Price)
					if t.PnLPercent != nil {
						line += "  " + output.FormatPnL(t.PnL) + " (" + output.FormatPercent(*t.PnLPercent) + ")"
					} else if !t.PnL.IsZero() {
						line += "  " + output.FormatPnL(t.PnL)
					}
					output.Println(line)
				}
				output.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (default current)")
	return cmd
}
