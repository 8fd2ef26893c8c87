package backtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// pair builds an open/close pair; the close lands on the given day and
// realizes sold - qty*100*price.
func pair(symbol, strategy, day, qty, price, sold string) []models.Trade {
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	open := models.Trade{
		Symbol: symbol, Action: models.ActionBuy, TradeType: models.TradeTypeOption,
		OptionType: models.OptionCall, Strike: dec("100"),
		Quantity: dec(qty), Price: dec(price), Date: date.Add(-72 * time.Hour),
	}
	closing := models.Trade{
		Symbol: symbol, Action: models.ActionSell, TradeType: models.TradeTypeOption,
		OptionType: models.OptionCall, Strike: dec("100"),
		Quantity: dec(qty), Price: dec(price), Date: date.Add(10 * time.Hour),
		SoldAmount: dec(sold), Strategy: strategy,
	}
	return []models.Trade{open, closing}
}

func ledgerOf(groups ...[]models.Trade) pnl.Ledger {
	var all []models.Trade
	for _, g := range groups {
		all = append(all, g...)
	}
	return pnl.NewLedger(all)
}

func TestRunEmptyLedger(t *testing.T) {
	metrics := New(pnl.NewLedger(nil)).Run(Filters{})

	if metrics.TotalTrades != 0 || metrics.FilteredTrades != 0 || metrics.TradesRemoved != 0 {
		t.Errorf("non-zero counts on empty ledger: %+v", metrics)
	}
	if !metrics.WinRate.IsZero() || !metrics.TotalPnL.IsZero() {
		t.Errorf("non-zero stats on empty ledger: %+v", metrics)
	}
}

func TestRunNoSurvivorsKeepsOriginalCount(t *testing.T) {
	ledger := ledgerOf(pair("AAA", "", "2024-03-05", "1", "1.00", "200"))
	metrics := New(ledger).Run(Filters{Symbols: []string{"ZZZ"}})

	if metrics.OriginalTrades != 2 {
		t.Errorf("original = %d, want full ledger size 2", metrics.OriginalTrades)
	}
	if metrics.FilteredTrades != 0 || metrics.TradesRemoved != 0 {
		t.Errorf("empty result must zero the other counters: %+v", metrics)
	}
	if !metrics.TotalPnL.IsZero() {
		t.Errorf("pnl = %s", metrics.TotalPnL)
	}
}

func TestRunBasicStats(t *testing.T) {
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"), // +100
		pair("BBB", "", "2024-03-06", "1", "1.00", "60"),  // -40
	)
	metrics := New(ledger).Run(Filters{})

	if metrics.TotalTrades != 2 || metrics.WinningTrades != 1 || metrics.LosingTrades != 1 {
		t.Fatalf("counts: %+v", metrics)
	}
	if !metrics.TotalPnL.Equal(dec("60")) {
		t.Errorf("total = %s, want 60", metrics.TotalPnL)
	}
	if !metrics.AvgPnL.Equal(dec("30")) {
		t.Errorf("avg = %s, want 30", metrics.AvgPnL)
	}
	if !metrics.WinRate.Equal(dec("50")) {
		t.Errorf("win rate = %s, want 50", metrics.WinRate)
	}
	if !metrics.MaxWin.Equal(dec("100")) || !metrics.MaxLoss.Equal(dec("40")) {
		t.Errorf("extremes: %+v", metrics)
	}
	if metrics.FilteredTrades != 2 || metrics.TradesRemoved != 2 {
		t.Errorf("population: filtered=%d removed=%d (openings count as removed)",
			metrics.FilteredTrades, metrics.TradesRemoved)
	}
}

func TestRunWeekdayFilter(t *testing.T) {
	// 2024-03-05 is a Tuesday, 2024-03-06 a Wednesday.
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"),
		pair("BBB", "", "2024-03-06", "1", "1.00", "60"),
	)
	metrics := New(ledger).Run(Filters{DaysOfWeek: []string{"Tuesday"}})

	if metrics.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", metrics.TotalTrades)
	}
	if !metrics.TotalPnL.Equal(dec("100")) {
		t.Errorf("pnl = %s, want 100", metrics.TotalPnL)
	}
}

func TestRunStrategyFilterNormalizesUntagged(t *testing.T) {
	ledger := ledgerOf(
		pair("AAA", "momentum", "2024-03-05", "1", "1.00", "200"),
		pair("BBB", "", "2024-03-06", "1", "1.00", "60"),
	)

	metrics := New(ledger).Run(Filters{Strategies: []string{NoStrategy}})
	if metrics.TotalTrades != 1 || !metrics.TotalPnL.Equal(dec("-40")) {
		t.Errorf("untagged trade not matched by %q: %+v", NoStrategy, metrics)
	}
}

func TestRunDateRangeInclusive(t *testing.T) {
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"),
		pair("BBB", "", "2024-03-08", "1", "1.00", "60"),
	)

	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	metrics := New(ledger).Run(Filters{Start: &start, End: &end})

	if metrics.TotalTrades != 1 || !metrics.TotalPnL.Equal(dec("100")) {
		t.Errorf("inclusive range wrong: %+v", metrics)
	}
}

// The min-win-rate rule must see only the population the earlier filters
// produced, so the same threshold keeps different symbols depending on what
// ran before it.
func TestMinWinRateUsesFilteredPopulation(t *testing.T) {
	// AAA: a win on Tuesday 03-05 and a loss on Wednesday 03-06.
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"), // win
		pair("AAA", "", "2024-03-06", "1", "3.00", "100"), // loss
	)
	engine := New(ledger)

	// Over the full history AAA's win rate is 50%, below the bar.
	full := engine.Run(Filters{MinWinRate: dec("60")})
	if full.TotalTrades != 0 {
		t.Fatalf("full-history win rate 50%% passed a 60%% bar: %+v", full)
	}

	// Restricted to Tuesday first, AAA is 100% and survives the same bar.
	tuesday := engine.Run(Filters{DaysOfWeek: []string{"Tuesday"}, MinWinRate: dec("60")})
	if tuesday.TotalTrades != 1 {
		t.Fatalf("filtered-population win rate not used: %+v", tuesday)
	}
}

func TestMinWinRateThresholdIsInclusive(t *testing.T) {
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"),
		pair("AAA", "", "2024-03-06", "1", "3.00", "100"),
	)
	metrics := New(ledger).Run(Filters{MinWinRate: dec("50")})

	if metrics.TotalTrades != 2 {
		t.Errorf("win rate exactly at the bar must survive: %+v", metrics)
	}
}

func TestRunIdempotent(t *testing.T) {
	ledger := ledgerOf(
		pair("AAA", "", "2024-03-05", "1", "1.00", "200"),
		pair("BBB", "", "2024-03-06", "1", "1.00", "60"),
	)
	engine := New(ledger)
	filters := Filters{DaysOfWeek: []string{"Tuesday", "Wednesday"}, MinWinRate: dec("10")}

	first := engine.Run(filters)
	second := engine.Run(filters)

	if first.TotalTrades != second.TotalTrades ||
		!first.TotalPnL.Equal(second.TotalPnL) ||
		!first.WinRate.Equal(second.WinRate) ||
		!first.AvgPnL.Equal(second.AvgPnL) {
		t.Errorf("repeated runs differ: %+v vs %+v", first, second)
	}
}

func TestCompareScenariosDefaultNames(t *testing.T) {
	ledger := ledgerOf(pair("AAA", "", "2024-03-05", "1", "1.00", "200"))
	results := New(ledger).CompareScenarios([]Scenario{
		{Filters: Filters{}},
		{Name: "tuesdays", Filters: Filters{DaysOfWeek: []string{"Tuesday"}}},
		{Filters: Filters{Symbols: []string{"ZZZ"}}},
	})

	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for _, name := range []string{"Scenario 1", "tuesdays", "Scenario 3"} {
		if _, ok := results[name]; !ok {
			t.Errorf("missing scenario %q in %v", name, results)
		}
	}
}
