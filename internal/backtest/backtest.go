// Package backtest replays declarative what-if filters against the trade
// ledger and reports the aggregate statistics the filtered history would
// have produced.
package backtest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
)

// Filters is one declarative rule set. Zero values mean "no constraint".
type Filters struct {
	// DaysOfWeek keeps trades executed on the named weekdays (Monday..Sunday).
	DaysOfWeek []string `json:"day_of_week,omitempty"`
	// Symbols keeps only the listed symbols.
	Symbols []string `json:"symbols,omitempty"`
	// ExcludeSymbols drops the listed symbols.
	ExcludeSymbols []string `json:"exclude_symbols,omitempty"`
	// Strategies keeps only the listed strategy tags. An untagged trade
	// matches the literal label "No Strategy".
	Strategies []string `json:"strategies,omitempty"`
	// MinWinRate drops symbols whose win rate, computed over the trades that
	// survived every other filter, falls below this percentage.
	MinWinRate decimal.Decimal `json:"min_win_rate,omitempty"`
	// Start/End bound the trade date, both inclusive.
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Metrics is the aggregate outcome of one backtest run.
type Metrics struct {
	TotalTrades    int             `json:"total_trades"`
	WinningTrades  int             `json:"winning_trades"`
	LosingTrades   int             `json:"losing_trades"`
	WinRate        decimal.Decimal `json:"win_rate"`
	TotalPnL       decimal.Decimal `json:"total_pnl"`
	AvgPnL         decimal.Decimal `json:"avg_pnl"`
	MaxWin         decimal.Decimal `json:"max_win"`
	MaxLoss        decimal.Decimal `json:"max_loss"`
	AvgWin         decimal.Decimal `json:"avg_win"`
	AvgLoss        decimal.Decimal `json:"avg_loss"`
	OriginalTrades int             `json:"original_trades"`
	FilteredTrades int             `json:"filtered_trades"`
	TradesRemoved  int             `json:"trades_removed"`
}

// Scenario names one filter set for side-by-side comparison.
type Scenario struct {
	Name    string  `json:"name"`
	Filters Filters `json:"filters"`
}

// Engine runs filter sets against a fixed ledger. Each run re-derives every
// figure from scratch; runs share nothing mutable.
type Engine struct {
	ledger pnl.Ledger
	calc   *pnl.Calculator
}

// New creates a backtest engine over the given ledger.
func New(ledger pnl.Ledger) *Engine {
	return &Engine{
		ledger: ledger,
		calc:   pnl.NewCalculator(ledger),
	}
}

// NoStrategy is the label an unset strategy tag normalizes to.
const NoStrategy = "No Strategy"

var hundred = decimal.NewFromInt(100)

// Run applies the filter set and computes metrics over the survivors. An
// empty surviving set produces a zero metrics record, never an error.
func (e *Engine) Run(filters Filters) Metrics {
	survivors := e.applyFilters(filters)

	metrics := Metrics{
		OriginalTrades: e.ledger.Len(),
	}
	if len(survivors) == 0 {
		return metrics
	}

	metrics.FilteredTrades = len(survivors)
	metrics.TradesRemoved = e.ledger.Len() - len(survivors)
	e.calculateResults(&metrics, survivors)
	return metrics
}

// CompareScenarios runs each scenario independently and keys the results by
// scenario name, defaulting to "Scenario N".
func (e *Engine) CompareScenarios(scenarios []Scenario) map[string]Metrics {
	results := make(map[string]Metrics, len(scenarios))
	for i, scenario := range scenarios {
		name := scenario.Name
		if name == "" {
			name = fmt.Sprintf("Scenario %d", i+1)
		}
		results[name] = e.Run(scenario.Filters)
	}
	return results
}

// applyFilters walks the ledger in the documented order. The min-win-rate
// rule runs last, over the population the earlier rules produced: its symbol
// win rates come from the filtered trades, not the full history, so the
// sequence is load-bearing.
func (e *Engine) applyFilters(filters Filters) []models.Trade {
	var filtered []models.Trade

	for _, trade := range e.ledger.Trades() {
		if trade.Direction() != models.DirectionClosing {
			continue
		}
		if len(filters.DaysOfWeek) > 0 && !contains(filters.DaysOfWeek, trade.Date.Weekday().String()) {
			continue
		}
		if len(filters.Symbols) > 0 && !contains(filters.Symbols, trade.Symbol) {
			continue
		}
		if len(filters.ExcludeSymbols) > 0 && contains(filters.ExcludeSymbols, trade.Symbol) {
			continue
		}
		if len(filters.Strategies) > 0 {
			strategy := trade.Strategy
			if strategy == "" {
				strategy = NoStrategy
			}
			if !contains(filters.Strategies, strategy) {
				continue
			}
		}
		if filters.Start != nil && trade.Date.Before(*filters.Start) {
			continue
		}
		if filters.End != nil && trade.Date.After(*filters.End) {
			continue
		}
		filtered = append(filtered, trade)
	}

	if filters.MinWinRate.IsPositive() {
		winRates := e.symbolWinRates(filtered)
		kept := filtered[:0]
		for _, trade := range filtered {
			if winRates[trade.Symbol].GreaterThanOrEqual(filters.MinWinRate) {
				kept = append(kept, trade)
			}
		}
		filtered = kept
	}

	return filtered
}

func (e *Engine) symbolWinRates(trades []models.Trade) map[string]decimal.Decimal {
	type tally struct {
		wins, total int64
	}
	stats := make(map[string]tally)
	for _, trade := range trades {
		t := stats[trade.Symbol]
		t.total++
		if e.calc.Realized(trade).IsPositive() {
			t.wins++
		}
		stats[trade.Symbol] = t
	}

	rates := make(map[string]decimal.Decimal, len(stats))
	for symbol, t := range stats {
		if t.total > 0 {
			rates[symbol] = decimal.NewFromInt(t.wins).Div(decimal.NewFromInt(t.total)).Mul(hundred)
		}
	}
	return rates
}

func (e *Engine) calculateResults(metrics *Metrics, trades []models.Trade) {
	totalPnL := decimal.Zero
	winSum, lossSum := decimal.Zero, decimal.Zero
	maxWin, maxLoss := decimal.Zero, decimal.Zero
	wins, losses := 0, 0

	for _, trade := range trades {
		tradePnL := e.calc.Realized(trade)
		totalPnL = totalPnL.Add(tradePnL)

		if tradePnL.IsPositive() {
			wins++
			winSum = winSum.Add(tradePnL)
			if tradePnL.GreaterThan(maxWin) {
				maxWin = tradePnL
			}
		} else {
			losses++
			loss := tradePnL.Abs()
			lossSum = lossSum.Add(loss)
			if loss.GreaterThan(maxLoss) {
				maxLoss = loss
			}
		}
	}

	count := decimal.NewFromInt(int64(len(trades)))

	metrics.TotalTrades = len(trades)
	metrics.WinningTrades = wins
	metrics.LosingTrades = losses
	metrics.WinRate = decimal.NewFromInt(int64(wins)).Div(count).Mul(hundred).Round(1)
	metrics.TotalPnL = totalPnL.Round(2)
	metrics.AvgPnL = totalPnL.Div(count).Round(2)
	metrics.MaxWin = maxWin.Round(2)
	metrics.MaxLoss = maxLoss.Round(2)
	if wins > 0 {
		metrics.AvgWin = winSum.Div(decimal.NewFromInt(int64(wins))).Round(2)
	}
	if losses > 0 {
		metrics.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(losses))).Round(2)
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
