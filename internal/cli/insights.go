package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"tradejournal/internal/insights"
)

// addInsightsCommands adds the pattern analysis command.
func addInsightsCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newInsightsCmd(app))
}

func newInsightsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Analyze trading patterns and habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			result, err := app.Service(cmd).Insights(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(result)
			}
			printInsights(output, result)
			return nil
		},
	}
}

func printInsights(output *Output, result insights.Insights) {
	if len(result.BestSymbols) == 0 {
		output.Info("No closed trades to analyze yet")
		return
	}

	output.Bold("Best Symbols")
	printGroupTable(output, "SYMBOL", result.BestSymbols)
	output.Println()

	output.Bold("Best Days")
	printGroupTable(output, "DAY", result.BestDays)
	output.Println()

	output.Bold("Best Strategies")
	printGroupTable(output, "STRATEGY", result.BestStrategies)
	output.Println()

	if result.TimePatterns.BestHour != nil {
		output.Bold("Time Patterns")
		output.Printf("  Best hour: %d:00 with %s P&L (%s%% win rate)\n",
			*result.TimePatterns.BestHour,
			output.FormatPnL(result.TimePatterns.BestHourPnL),
			result.TimePatterns.BestHourWinRate.String())
		output.Println()
	}

	risk := result.RiskAnalysis
	output.Bold("Risk Profile")
	output.Printf("  Wins:   %d (avg %s, largest %s)\n", risk.WinCount, FormatMoney(risk.AvgWin), FormatMoney(risk.LargestWin))
	output.Printf("  Losses: %d (avg %s, largest %s)\n", risk.LossCount, FormatMoney(risk.AvgLoss), FormatMoney(risk.LargestLoss))
	output.Printf("  Risk/Reward: %s\n", risk.RiskRewardRatio.String())
	output.Println()

	if len(result.PerformanceBreakdown) > 0 {
		output.Bold("By Instrument")
		labels := make([]string, 0, len(result.PerformanceBreakdown))
		for label := range result.PerformanceBreakdown {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		table := NewTable(output, "TYPE", "TRADES", "WIN RATE", "TOTAL P&L")
		for _, label := range labels {
			stat := result.PerformanceBreakdown[label]
			table.AddRow(label, fmt.Sprintf("%d", stat.TotalTrades), stat.WinRate.String()+"%", output.FormatPnL(stat.TotalPnL))
		}
		table.Render()
		output.Println()
	}

	if len(result.Mistakes) > 0 {
		output.Bold("Flagged Habits")
		for _, m := range result.Mistakes {
			switch m.Severity {
			case "high":
				output.Error("  [%s] %s", m.Type, m.Message)
			default:
				output.Warning("  [%s] %s", m.Type, m.Message)
			}
		}
		output.Println()
	}

	if len(result.Recommendations) > 0 {
		output.Bold("Recommendations")
		for _, rec := range result.Recommendations {
			output.Printf("  - %s\n", rec)
		}
	}
}

func printGroupTable(output *Output, label string, stats []insights.GroupStat) {
	table := NewTable(output, label, "TRADES", "WIN RATE", "TOTAL P&L", "AVG P&L")
	for _, stat := range stats {
		table.AddRow(
			stat.Label,
			fmt.Sprintf("%d", stat.TotalTrades),
			stat.WinRate.String()+"%",
			output.FormatPnL(stat.TotalPnL),
			output.FormatPnL(stat.AvgPnL),
		)
	}
	table.Render()
}
