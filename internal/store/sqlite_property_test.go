package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// Property: saving a trade and reading it back produces an equivalent trade.
// Decimals are stored as TEXT so the round trip must be exact, not approximate.
func TestProperty_TradeRoundTripConsistency(t *testing.T) {
	dbPath := "test_trades_property.db"
	defer os.Remove(dbPath)

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"AAPL", "TSLA", "SPY", "QQQ", "NVDA", "MSFT", "AMD", "META"}
	actionGen := gen.OneConstOf("BUY", "SELL", "OPEN", "CLOSE")
	optionTypeGen := gen.OneConstOf("CALL", "PUT")

	var seq int

	properties.Property("trade round-trip: save then get is exact", prop.ForAll(
		func(symbolIdx int, action, optionType string, qty int, cents int64, dayOffset int) bool {
			ctx := context.Background()
			seq++
			id := fmt.Sprintf("prop-%d", seq)

			original := &models.Trade{
				ID:             id,
				Symbol:         symbols[symbolIdx%len(symbols)],
				Action:         models.NormalizeAction(action),
				Quantity:       decimal.NewFromInt(int64(qty)),
				Price:          decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)),
				SoldAmount:     decimal.NewFromInt(cents * 2).Div(decimal.NewFromInt(100)),
				TransactionFee: decimal.RequireFromString("0.65"),
				Date:           time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
				Strategy:       "momentum",
				OptionType:     models.OptionType(optionType),
				Strike:         decimal.NewFromInt(int64(qty * 10)),
				Expiration:     "2024-06-21",
				TradeType:      models.TradeTypeOption,
				CreatedAt:      time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC),
			}

			if err := store.SaveTrade(ctx, "prop", original); err != nil {
				t.Logf("save failed: %v", err)
				return false
			}
			got, err := store.GetTrade(ctx, "prop", id)
			if err != nil {
				t.Logf("get failed: %v", err)
				return false
			}

			if got.Symbol != original.Symbol || got.Action != original.Action ||
				got.OptionType != original.OptionType || got.TradeType != original.TradeType ||
				got.Strategy != original.Strategy || got.Expiration != original.Expiration {
				t.Logf("field mismatch: %+v vs %+v", got, original)
				return false
			}
			if !got.Quantity.Equal(original.Quantity) || !got.Price.Equal(original.Price) ||
				!got.SoldAmount.Equal(original.SoldAmount) || !got.Strike.Equal(original.Strike) ||
				!got.TransactionFee.Equal(original.TransactionFee) {
				t.Logf("decimal drift: %+v vs %+v", got, original)
				return false
			}
			if !got.Date.Equal(original.Date) {
				t.Logf("date mismatch: %v vs %v", got.Date, original.Date)
				return false
			}
			return true
		},
		gen.IntRange(0, len(symbols)-1),
		actionGen,
		optionTypeGen,
		gen.IntRange(1, 100),
		gen.Int64Range(1, 100000),
		gen.IntRange(0, 365),
	))

	properties.Property("delete after save always reports a removed row", prop.ForAll(
		func(cents int64) bool {
			ctx := context.Background()
			seq++
			id := fmt.Sprintf("prop-del-%d", seq)

			trade := &models.Trade{
				ID: id, Symbol: "AAPL", Action: models.ActionSell,
				Quantity: decimal.NewFromInt(1),
				Price:    decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)),
				Date:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
				CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
				TradeType: models.TradeTypeOption, OptionType: models.OptionCall,
			}
			if err := store.SaveTrade(ctx, "prop", trade); err != nil {
				return false
			}
			deleted, err := store.DeleteTrade(ctx, "prop", id)
			return err == nil && deleted
		},
		gen.Int64Range(1, 100000),
	))

	properties.TestingRun(t)
}
