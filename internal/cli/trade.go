package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradejournal/internal/journal"
	"tradejournal/internal/models"
	"tradejournal/pkg/utils"
)

// addTradeCommands adds trade recording commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record and manage trades",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeUpdateCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	var (
		action     string
		quantity   string
		price      string
		soldAmount string
		fee        string
		date       string
		notes      string
		strategy   string
		optionType string
		strike     string
		expiration string
		tradeType  string
	)

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Record a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			input := journal.TradeInput{
				Symbol:     args[0],
				Action:     action,
				Date:       date,
				Notes:      notes,
				Strategy:   strategy,
				OptionType: optionType,
				Expiration: expiration,
				TradeType:  tradeType,
			}

			var err error
			if input.Quantity, err = parseDecimalFlag("quantity", quantity); err != nil {
				return err
			}
			if input.Price, err = parseDecimalFlag("price", price); err != nil {
				return err
			}
			if input.SoldAmount, err = parseDecimalFlag("sold", soldAmount); err != nil {
				return err
			}
			if input.TransactionFee, err = parseDecimalFlag("fee", fee); err != nil {
				return err
			}
			if input.Strike, err = parseDecimalFlag("strike", strike); err != nil {
				return err
			}

			trade, err := app.Service(cmd).AddTrade(cmd.Context(), input)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Recorded %s %s x%s @ %s", trade.Action, trade.Symbol,
				utils.FormatQuantity(trade.Quantity), FormatMoney(trade.Price))
			output.Dim("ID: %s", trade.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&action, "action", "SELL", "trade action: BUY, SELL, OPEN, CLOSE")
	cmd.Flags().StringVar(&quantity, "quantity", "0", "number of contracts or shares")
	cmd.Flags().StringVar(&price, "price", "0", "per-unit price")
	cmd.Flags().StringVar(&soldAmount, "sold", "0", "gross proceeds of a closing trade")
	cmd.Flags().StringVar(&fee, "fee", "0", "transaction fee")
	cmd.Flags().StringVar(&date, "date", "", "execution date (default now)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&strategy, "strategy", "", "strategy tag")
	cmd.Flags().StringVar(&optionType, "option-type", "", "CALL or PUT")
	cmd.Flags().StringVar(&strike, "strike", "0", "option strike price")
	cmd.Flags().StringVar(&expiration, "expiration", "", "option expiration date")
	cmd.Flags().StringVar(&tradeType, "type", "OPTION", "OPTION or STOCK")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trades, err := app.Service(cmd).RecentTrades(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades recorded yet")
				return nil
			}

			table := NewTable(output, "DATE", "SYMBOL", "ACTION", "QTY", "PRICE", "SOLD", "STRATEGY", "ID")
			for _, t := range trades {
				table.AddRow(
					FormatDate(t.Date),
					t.Symbol,
					string(t.Action),
					utils.FormatQuantity(t.Quantity),
					FormatMoney(t.Price),
					FormatMoney(t.SoldAmount),
					utils.TruncateString(t.Strategy, 20),
					t.ID,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum trades to show")
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			trade, err := app.Service(cmd).GetTrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(trade)
			}
			printTrade(output, trade)
			return nil
		},
	}
}

func printTrade(output *Output, t *models.Trade) {
	output.Bold("%s %s", t.Action, t.Symbol)
	if t.TradeType == models.TradeTypeOption {
		output.Printf("  Contract:   %s exp %s\n", FormatOptionLeg(t.Strike, string(t.OptionType)), t.Expiration)
	}
	output.Printf("  Date:       %s\n", FormatDateTime(t.Date))
	output.Printf("  Quantity:   %s\n", utils.FormatQuantity(t.Quantity))
	output.Printf("  Price:      %s\n", FormatMoney(t.Price))
	if t.SoldAmount.IsPositive() {
		output.Printf("  Proceeds:   %s\n", FormatMoney(t.SoldAmount))
	}
	output.Printf("  Fee:        %s\n", FormatMoney(t.TransactionFee))
	if t.Strategy != "" {
		output.Printf("  Strategy:   %s\n", t.Strategy)
	}
	if t.Notes != "" {
		output.Printf("  Notes:      %s\n", t.Notes)
	}
	output.Dim("  ID: %s", t.ID)
}

func newTradeUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of an existing trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			update := journal.TradeUpdate{}

			setString := func(name string, dst **string) {
				if cmd.Flags().Changed(name) {
					v, _ := cmd.Flags().GetString(name)
					*dst = &v
				}
			}
			setDecimal := func(name string, dst **decimal.Decimal) error {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				raw, _ := cmd.Flags().GetString(name)
				v, err := parseDecimalFlag(name, raw)
				if err != nil {
					return err
				}
				*dst = &v
				return nil
			}

			setString("symbol", &update.Symbol)
			setString("action", &update.Action)
			setString("date", &update.Date)
			setString("notes", &update.Notes)
			setString("strategy", &update.Strategy)
			setString("option-type", &update.OptionType)
			setString("expiration", &update.Expiration)
			setString("type", &update.TradeType)

			for _, f := range []struct {
				name string
				dst  **decimal.Decimal
			}{
				{"quantity", &update.Quantity},
				{"price", &update.Price},
				{"sold", &update.SoldAmount},
				{"fee", &update.TransactionFee},
				{"strike", &update.Strike},
			} {
				if err := setDecimal(f.name, f.dst); err != nil {
					return err
				}
			}

			trade, err := app.Service(cmd).UpdateTrade(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("Updated trade %s", trade.ID)
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "ticker symbol")
	cmd.Flags().String("action", "", "trade action")
	cmd.Flags().String("quantity", "", "number of contracts or shares")
	cmd.Flags().String("price", "", "per-unit price")
	cmd.Flags().String("sold", "", "gross proceeds")
	cmd.Flags().String("fee", "", "transaction fee")
	cmd.Flags().String("date", "", "execution date")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().String("strategy", "", "strategy tag")
	cmd.Flags().String("option-type", "", "CALL or PUT")
	cmd.Flags().String("strike", "", "option strike price")
	cmd.Flags().String("expiration", "", "option expiration date")
	cmd.Flags().String("type", "", "OPTION or STOCK")

	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			deleted, err := app.Service(cmd).DeleteTrade(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"deleted": deleted})
			}
			if deleted {
				output.Success("Deleted trade %s", args[0])
			} else {
				output.Warning("No trade with id %s", args[0])
			}
			return nil
		},
	}
}

func parseDecimalFlag(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s value %q: %w", name, raw, err)
	}
	return v, nil
}
