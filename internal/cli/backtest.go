package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/backtest"
	"tradejournal/internal/dates"
)

// addBacktestCommands adds what-if filter replay commands.
func addBacktestCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay what-if filters over the trade history",
	}

	cmd.AddCommand(newBacktestRunCmd(app))
	cmd.AddCommand(newBacktestCompareCmd(app))

	rootCmd.AddCommand(cmd)
}

func newBacktestRunCmd(app *App) *cobra.Command {
	var (
		days       []string
		symbols    []string
		exclude    []string
		strategies []string
		minWinRate string
		start      string
		end        string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one filter set and show the resulting statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			filters := backtest.Filters{
				DaysOfWeek:     days,
				Symbols:        upperAll(symbols),
				ExcludeSymbols: upperAll(exclude),
				Strategies:     strategies,
			}

			var err error
			if filters.MinWinRate, err = parseDecimalFlag("min-win-rate", minWinRate); err != nil {
				return err
			}
			if filters.Start, err = parseDateFlag("start", start); err != nil {
				return err
			}
			if filters.End, err = parseDateFlag("end", end); err != nil {
				return err
			}

			metrics, err := app.Service(cmd).Backtest(cmd.Context(), filters)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(metrics)
			}
			printBacktestMetrics(output, metrics)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&days, "days", nil, "keep only these weekdays (Monday..Sunday)")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "keep only these symbols")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "drop these symbols")
	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "keep only these strategy tags")
	cmd.Flags().StringVar(&minWinRate, "min-win-rate", "0", "drop symbols below this win rate percentage")
	cmd.Flags().StringVar(&start, "start", "", "keep trades on or after this date")
	cmd.Flags().StringVar(&end, "end", "", "keep trades on or before this date")

	return cmd
}

func newBacktestCompareCmd(app *App) *cobra.Command {
	var scenariosPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run several named filter sets from a JSON file",
		Long: `Run several scenarios against the same history.

The scenarios file is a JSON array of {"name": ..., "filters": {...}}
objects using the same filter fields as 'backtest run'. Unnamed scenarios
are reported as "Scenario N".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := os.ReadFile(scenariosPath)
			if err != nil {
				return fmt.Errorf("reading scenarios file: %w", err)
			}
			var scenarios []backtest.Scenario
			if err := json.Unmarshal(data, &scenarios); err != nil {
				return fmt.Errorf("parsing scenarios file: %w", err)
			}

			results, err := app.Service(cmd).CompareScenarios(cmd.Context(), scenarios)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(results)
			}

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			table := NewTable(output, "SCENARIO", "TRADES", "WIN RATE", "TOTAL P&L", "AVG P&L")
			for _, name := range names {
				m := results[name]
				table.AddRow(
					name,
					fmt.Sprintf("%d", m.TotalTrades),
					m.WinRate.String()+"%",
					output.FormatPnL(m.TotalPnL),
					output.FormatPnL(m.AvgPnL),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&scenariosPath, "scenarios", "", "path to the scenarios JSON file")
	cmd.MarkFlagRequired("scenarios")

	return cmd
}

func printBacktestMetrics(output *Output, m backtest.Metrics) {
	output.Bold("Backtest Results")
	output.Printf("  Population:  %d trades, %d kept, %d removed\n",
		m.OriginalTrades, m.FilteredTrades, m.TradesRemoved)
	if m.TotalTrades == 0 {
		output.Info("  No trades matched the filters")
		return
	}
	output.Printf("  Closed:      %d (%d wins / %d losses)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	output.Printf("  Win Rate:    %s%%\n", m.WinRate.String())
	output.Printf("  Total P&L:   %s\n", output.FormatPnL(m.TotalPnL))
	output.Printf("  Avg P&L:     %s\n", output.FormatPnL(m.AvgPnL))
	output.Printf("  Avg Win:     %s   Avg Loss: %s\n", FormatMoney(m.AvgWin), FormatMoney(m.AvgLoss))
	output.Printf("  Max Win:     %s   Max Loss: %s\n", FormatMoney(m.MaxWin), FormatMoney(m.MaxLoss))
}

func parseDateFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, ok := dates.Parse(raw)
	if !ok {
		return nil, fmt.Errorf("invalid --%s value %q", name, raw)
	}
	return &t, nil
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
