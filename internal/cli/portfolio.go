package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/pkg/utils"
)

// addPortfolioCommands adds portfolio tracking commands.
func addPortfolioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Track account value over time",
	}

	cmd.AddCommand(newPortfolioValueCmd(app))
	cmd.AddCommand(newPortfolioAdjustCmd(app))
	cmd.AddCommand(newPortfolioSummaryCmd(app))
	cmd.AddCommand(newPortfolioBalancesCmd(app))
	cmd.AddCommand(newPortfolioPositionsCmd(app))

	rootCmd.AddCommand(cmd)
}

func newPortfolioValueCmd(app *App) *cobra.Command {
	var (
		date  string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "value AMOUNT",
		Short: "Record the account's total value for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			amount, err := parseDecimalFlag("amount", args[0])
			if err != nil {
				return err
			}

			snapshot, err := app.Service(cmd).RecordPortfolioValue(cmd.Context(), date, amount, notes)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(snapshot)
			}
			output.Success("Recorded %s for %s", FormatMoney(snapshot.Amount), FormatDate(snapshot.Date))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day the value applies to (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newPortfolioAdjustCmd(app *App) *cobra.Command {
	var (
		date        string
		scope       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "adjust AMOUNT",
		Short: "Record a manual correction to the summary figures",
		Long: `Record a deposit, withdrawal or correction.

The adjustment shifts the summary's headline numbers without touching the
reconstructed daily series. Scope since_start moves the since-start change,
latest moves the latest displayed balance, both moves both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			amount, err := parseDecimalFlag("amount", args[0])
			if err != nil {
				return err
			}

			adjustment, err := app.Service(cmd).AddAdjustment(cmd.Context(), date, amount, scope, description)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(adjustment)
			}
			output.Success("Recorded %s adjustment (%s)", FormatMoney(adjustment.Amount), adjustment.ApplyTo)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day the adjustment applies to")
	cmd.Flags().StringVar(&scope, "scope", "since_start", "since_start, latest, or both")
	cmd.Flags().StringVar(&description, "description", "", "what this adjustment is")
	return cmd
}

func newPortfolioSummaryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show balance history and headline changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if limit == 0 {
				limit = app.Config.Journal.HistoryLimit
			}

			summary, err := app.Service(cmd).PortfolioSummary(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(summary)
			}

			if summary.Latest == nil {
				output.Info("No portfolio values recorded yet. Use 'portfolio value' to start.")
				return nil
			}

			output.Bold("Portfolio Summary")
			output.Printf("  Latest (%s):  %s\n", summary.Latest.Date, FormatMoney(summary.Latest.Amount))
			if summary.Previous != nil {
				output.Printf("  Day Change:          %s\n", output.FormatPnL(summary.Change))
			}
			output.Printf("  Since %s:    %s (%s)\n", summary.Start.Date,
				output.FormatPnL(summary.SinceStartChange), output.FormatPercent(summary.SinceStartPercent))
			output.Println()

			table := NewTable(output, "DATE", "BALANCE")
			for _, entry := range summary.Entries {
				table.AddRow(entry.Date, FormatMoney(entry.Amount))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "days of history to show (default from config)")
	return cmd
}

func newPortfolioBalancesCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show the reconstructed daily balances of one month",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			year, m, err := parseMonthFlag(month)
			if err != nil {
				return err
			}

			series, err := app.Service(cmd).BalancesByMonth(cmd.Context(), year, m)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(series)
			}
			if len(series) == 0 {
				output.Info("No balances for %d-%02d", year, m)
				return nil
			}

			keys := make([]string, 0, len(series))
			for key := range series {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			table := NewTable(output, "DATE", "BALANCE")
			for _, key := range keys {
				table.AddRow(key, FormatMoney(series[key]))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (default current)")
	return cmd
}

func newPortfolioPositionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "List instruments with a net open quantity",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			positions, err := app.Service(cmd).OpenPositions(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(positions)
			}
			if len(positions) == 0 {
				output.Info("No open positions")
				return nil
			}

			table := NewTable(output, "SYMBOL", "CONTRACT", "QTY", "AVG PRICE", "COST")
			for _, p := range positions {
				table.AddRow(
					p.Symbol,
					FormatOptionLeg(p.Strike, string(p.OptionType)),
					utils.FormatQuantity(p.Quantity),
					FormatMoney(p.AvgPrice),
					FormatMoney(p.TotalCost),
				)
			}
			table.Render()
			return nil
		},
	}
}

// parseMonthFlag parses YYYY-MM, defaulting to the current month.
func parseMonthFlag(raw string) (int, time.Month, error) {
	if raw == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --month value %q, want YYYY-MM", raw)
	}
	return t.Year(), t.Month(), nil
}
