package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tradejournal/internal/impexp"
	"tradejournal/internal/journal"
)

// addImpExpCommands adds CSV import/export commands.
func addImpExpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newExportCmd(app *App) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the trade history as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ledger, err := app.Service(cmd).Ledger(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := impexp.ExportTrades(w, ledger.Trades()); err != nil {
				return err
			}
			if path != "" {
				output.Success("Exported %d trades to %s", ledger.Len(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "out", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import trades from a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			trades, err := impexp.ImportTrades(f)
			if err != nil {
				return err
			}

			service := app.Service(cmd)
			imported := 0
			for _, trade := range trades {
				input := journal.TradeInput{
					Symbol:         trade.Symbol,
					Action:         string(trade.Action),
					Quantity:       trade.Quantity,
					Price:          trade.Price,
					SoldAmount:     trade.SoldAmount,
					TransactionFee: trade.TransactionFee,
					Date:           trade.Date.Format("2006-01-02 15:04:05"),
					Notes:          trade.Notes,
					Strategy:       trade.Strategy,
					OptionType:     string(trade.OptionType),
					Strike:         trade.Strike,
					Expiration:     trade.Expiration,
					TradeType:      string(trade.TradeType),
				}
				if _, err := service.AddTrade(cmd.Context(), input); err != nil {
					return fmt.Errorf("importing %s: %w", trade.Symbol, err)
				}
				imported++
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"imported": imported})
			}
			output.Success("Imported %d trades", imported)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "in", "", "CSV file to import")
	cmd.MarkFlagRequired("in")
	return cmd
}
