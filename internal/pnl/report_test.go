package pnl

import (
	"testing"
	"time"

	"tradejournal/internal/models"
)

// closedTradeAt builds a matched open/close pair whose realized P&L is
// sold - cost, with the close at the given time.
func closedPair(symbol, qty, price, sold string, at time.Time) []models.Trade {
	open := models.Trade{
		Symbol: symbol, Action: models.ActionBuy, TradeType: models.TradeTypeOption,
		OptionType: models.OptionCall, Strike: dec("100"),
		Quantity: dec(qty), Price: dec(price), Date: at.Add(-24 * time.Hour),
	}
	closing := models.Trade{
		Symbol: symbol, Action: models.ActionSell, TradeType: models.TradeTypeOption,
		OptionType: models.OptionCall, Strike: dec("100"),
		Quantity: dec(qty), Price: dec(price), Date: at,
		SoldAmount: dec(sold),
	}
	return []models.Trade{open, closing}
}

func TestMetricsPeriodBuckets(t *testing.T) {
	// Wednesday 2024-03-13; week starts Monday 2024-03-11.
	now := time.Date(2024, 3, 13, 16, 0, 0, 0, time.UTC)

	var trades []models.Trade
	// Today: +100 (1 @ 1.00 costs 100, sold 200)
	trades = append(trades, closedPair("AAA", "1", "1.00", "200", now.Add(-time.Hour))...)
	// Monday this week: +50
	trades = append(trades, closedPair("BBB", "1", "1.00", "150", time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC))...)
	// Earlier this month, before the week: -20
	trades = append(trades, closedPair("CCC", "1", "1.00", "80", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))...)
	// Previous month: +10
	trades = append(trades, closedPair("DDD", "1", "1.00", "110", time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC))...)

	report := NewCalculator(NewLedger(trades)).Metrics(now)

	if !report.DayPnL.Equal(dec("100")) {
		t.Errorf("day = %s, want 100", report.DayPnL)
	}
	if !report.WeekPnL.Equal(dec("150")) {
		t.Errorf("week = %s, want 150", report.WeekPnL)
	}
	if !report.MonthPnL.Equal(dec("130")) {
		t.Errorf("month = %s, want 130", report.MonthPnL)
	}
	if !report.AllTimePnL.Equal(dec("140")) {
		t.Errorf("all time = %s, want 140", report.AllTimePnL)
	}
	if report.TotalTrades != 4 || report.WinningTrades != 3 || report.LosingTrades != 1 {
		t.Errorf("counts = %d/%d/%d", report.TotalTrades, report.WinningTrades, report.LosingTrades)
	}
	if !report.WinRate.Equal(dec("75")) {
		t.Errorf("win rate = %s, want 75", report.WinRate)
	}
}

func TestMetricsEmptyLedger(t *testing.T) {
	report := NewCalculator(NewLedger(nil)).Metrics(time.Now())

	if report.TotalTrades != 0 {
		t.Errorf("total trades = %d", report.TotalTrades)
	}
	if !report.WinRate.IsZero() || !report.Expectancy.IsZero() || !report.ProfitFactor.IsZero() {
		t.Error("empty ledger must produce zero ratios, not division faults")
	}
}

func TestMetricsProfitFactorWithNoLosses(t *testing.T) {
	now := time.Date(2024, 3, 13, 16, 0, 0, 0, time.UTC)
	trades := closedPair("AAA", "1", "1.00", "200", now.Add(-time.Hour))

	report := NewCalculator(NewLedger(trades)).Metrics(now)

	// With zero losing P&L the factor degrades to the winning total.
	if !report.ProfitFactor.Equal(dec("100")) {
		t.Errorf("profit factor = %s, want 100", report.ProfitFactor)
	}
}

func TestMetricsZeroPnLCountsAsLoss(t *testing.T) {
	now := time.Date(2024, 3, 13, 16, 0, 0, 0, time.UTC)
	// Sold exactly at cost: P&L 0.
	trades := closedPair("AAA", "1", "1.00", "100", now.Add(-time.Hour))

	report := NewCalculator(NewLedger(trades)).Metrics(now)

	if report.LosingTrades != 1 || report.WinningTrades != 0 {
		t.Errorf("zero P&L classified as win: %d/%d", report.WinningTrades, report.LosingTrades)
	}
	if !report.AvgLoss.IsZero() {
		t.Errorf("avg loss over zero-P&L trades = %s, want 0", report.AvgLoss)
	}
}

func TestMetricsAvgLossExcludesZeroPnL(t *testing.T) {
	now := time.Date(2024, 3, 13, 16, 0, 0, 0, time.UTC)

	var trades []models.Trade
	// A real -40 loss and a break-even closer.
	trades = append(trades, closedPair("AAA", "1", "1.00", "60", now.Add(-2*time.Hour))...)
	trades = append(trades, closedPair("BBB", "1", "1.00", "100", now.Add(-time.Hour))...)

	report := NewCalculator(NewLedger(trades)).Metrics(now)

	if report.LosingTrades != 2 {
		t.Fatalf("losing trades = %d, want 2", report.LosingTrades)
	}
	// The break-even trade counts as a loss but must not dilute the average.
	if !report.AvgLoss.Equal(dec("40")) {
		t.Errorf("avg loss = %s, want 40", report.AvgLoss)
	}
}
