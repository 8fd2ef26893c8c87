// Package insights mines the closed-trade history for behavioral patterns:
// which symbols, weekdays, strategies and hours work, where risk leaks, and
// what to change. Everything is derived deterministically from realized P&L.
package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
)

// NoStrategy labels trades saved without a strategy tag.
const NoStrategy = "No Strategy"

var hundred = decimal.NewFromInt(100)

// GroupStat is the win/loss/P&L tally for one grouping value (a symbol, a
// weekday, a strategy or an instrument type).
type GroupStat struct {
	Label       string          `json:"label"`
	WinRate     decimal.Decimal `json:"win_rate"`
	TotalTrades int             `json:"total_trades"`
	TotalPnL    decimal.Decimal `json:"total_pnl"`
	AvgPnL      decimal.Decimal `json:"avg_pnl"`
}

// TimePatterns reports the most profitable hour of day.
type TimePatterns struct {
	BestHour        *int            `json:"best_hour"`
	BestHourPnL     decimal.Decimal `json:"best_hour_pnl"`
	BestHourWinRate decimal.Decimal `json:"best_hour_win_rate"`
}

// RiskProfile summarizes win/loss sizing.
type RiskProfile struct {
	AvgWin          decimal.Decimal `json:"avg_win"`
	AvgLoss         decimal.Decimal `json:"avg_loss"`
	RiskRewardRatio decimal.Decimal `json:"risk_reward_ratio"`
	LargestWin      decimal.Decimal `json:"largest_win"`
	LargestLoss     decimal.Decimal `json:"largest_loss"`
	WinCount        int             `json:"win_count"`
	LossCount       int             `json:"loss_count"`
}

// Mistake flags one detected bad habit.
type Mistake struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Count    int    `json:"count,omitempty"`
}

// Insights is the full analysis output.
type Insights struct {
	BestSymbols          []GroupStat          `json:"best_symbols"`
	BestDays             []GroupStat          `json:"best_days"`
	BestStrategies       []GroupStat          `json:"best_strategies"`
	TimePatterns         TimePatterns         `json:"time_patterns"`
	RiskAnalysis         RiskProfile          `json:"risk_analysis"`
	Mistakes             []Mistake            `json:"mistakes"`
	Recommendations      []string             `json:"recommendations"`
	PerformanceBreakdown map[string]GroupStat `json:"performance_breakdown"`
}

// Analyzer derives insights from a calculator's ledger.
type Analyzer struct {
	calc *pnl.Calculator
}

// NewAnalyzer creates an analyzer over the given calculator.
func NewAnalyzer(calc *pnl.Calculator) *Analyzer {
	return &Analyzer{calc: calc}
}

// Analyze runs every pattern detector as of now. An empty ledger yields an
// empty (but fully shaped) result.
func (a *Analyzer) Analyze(now time.Time) Insights {
	closed := a.closedTrades()

	insights := Insights{
		BestSymbols:          a.bestSymbols(closed),
		BestDays:             a.bestDays(closed),
		BestStrategies:       a.bestStrategies(closed),
		TimePatterns:         a.timePatterns(closed),
		RiskAnalysis:         a.riskProfile(closed),
		PerformanceBreakdown: a.performanceBreakdown(closed),
	}
	insights.Mistakes = a.findMistakes(closed, insights.RiskAnalysis, now)
	insights.Recommendations = buildRecommendations(insights)
	return insights
}

type closedTrade struct {
	trade models.Trade
	pnl   decimal.Decimal
}

func (a *Analyzer) closedTrades() []closedTrade {
	var out []closedTrade
	for _, trade := range a.calc.Ledger().Trades() {
		if trade.Direction() != models.DirectionClosing {
			continue
		}
		out = append(out, closedTrade{trade: trade, pnl: a.calc.Realized(trade)})
	}
	return out
}

type tally struct {
	wins, losses int
	pnl          decimal.Decimal
}

func (t *tally) add(pnl decimal.Decimal) {
	t.pnl = t.pnl.Add(pnl)
	if pnl.IsPositive() {
		t.wins++
	} else {
		t.losses++
	}
}

func (t tally) stat(label string) GroupStat {
	total := t.wins + t.losses
	count := decimal.NewFromInt(int64(total))
	return GroupStat{
		Label:       label,
		WinRate:     decimal.NewFromInt(int64(t.wins)).Div(count).Mul(hundred).Round(1),
		TotalTrades: total,
		TotalPnL:    t.pnl.Round(2),
		AvgPnL:      t.pnl.Div(count).Round(2),
	}
}

func groupStats(trades []closedTrade, key func(models.Trade) string) []GroupStat {
	stats := make(map[string]*tally)
	for _, ct := range trades {
		label := key(ct.trade)
		t, ok := stats[label]
		if !ok {
			t = &tally{}
			stats[label] = t
		}
		t.add(ct.pnl)
	}

	results := make([]GroupStat, 0, len(stats))
	for label, t := range stats {
		results = append(results, t.stat(label))
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].TotalPnL.Equal(results[j].TotalPnL) {
			return results[i].TotalPnL.GreaterThan(results[j].TotalPnL)
		}
		return results[i].Label < results[j].Label
	})
	return results
}

func (a *Analyzer) bestSymbols(trades []closedTrade) []GroupStat {
	results := groupStats(trades, func(t models.Trade) string { return t.Symbol })
	if len(results) > 5 {
		results = results[:5]
	}
	return results
}

func (a *Analyzer) bestDays(trades []closedTrade) []GroupStat {
	return groupStats(trades, func(t models.Trade) string { return t.Date.Weekday().String() })
}

func (a *Analyzer) bestStrategies(trades []closedTrade) []GroupStat {
	return groupStats(trades, func(t models.Trade) string {
		if t.Strategy == "" {
			return NoStrategy
		}
		return t.Strategy
	})
}

func (a *Analyzer) timePatterns(trades []closedTrade) TimePatterns {
	hours := make(map[int]*tally)
	for _, ct := range trades {
		h := ct.trade.Date.Hour()
		t, ok := hours[h]
		if !ok {
			t = &tally{}
			hours[h] = t
		}
		t.add(ct.pnl)
	}

	var best *int
	var bestTally tally
	for h := 0; h < 24; h++ {
		t, ok := hours[h]
		if !ok {
			continue
		}
		if best == nil || t.pnl.GreaterThan(bestTally.pnl) {
			hour := h
			best = &hour
			bestTally = *t
		}
	}

	patterns := TimePatterns{BestHour: best}
	if best != nil {
		patterns.BestHourPnL = bestTally.pnl.Round(2)
		total := bestTally.wins + bestTally.losses
		if total > 0 {
			patterns.BestHourWinRate = decimal.NewFromInt(int64(bestTally.wins)).
				Div(decimal.NewFromInt(int64(total))).Mul(hundred).Round(1)
		}
	}
	return patterns
}

func (a *Analyzer) riskProfile(trades []closedTrade) RiskProfile {
	winSum, lossSum := decimal.Zero, decimal.Zero
	largestWin, largestLoss := decimal.Zero, decimal.Zero
	wins, losses := 0, 0

	for _, ct := range trades {
		if ct.pnl.IsPositive() {
			wins++
			winSum = winSum.Add(ct.pnl)
			if ct.pnl.GreaterThan(largestWin) {
				largestWin = ct.pnl
			}
		} else {
			losses++
			loss := ct.pnl.Abs()
			lossSum = lossSum.Add(loss)
			if loss.GreaterThan(largestLoss) {
				largestLoss = loss
			}
		}
	}

	profile := RiskProfile{
		LargestWin:  largestWin.Round(2),
		LargestLoss: largestLoss.Round(2),
		WinCount:    wins,
		LossCount:   losses,
	}
	if wins > 0 {
		profile.AvgWin = winSum.Div(decimal.NewFromInt(int64(wins))).Round(2)
	}
	if losses > 0 {
		profile.AvgLoss = lossSum.Div(decimal.NewFromInt(int64(losses))).Round(2)
	}
	if profile.AvgLoss.IsPositive() {
		profile.RiskRewardRatio = profile.AvgWin.Div(profile.AvgLoss).Round(2)
	}
	return profile
}

var (
	largeLossFloor   = decimal.NewFromInt(-100)
	riskRewardTarget = decimal.NewFromFloat(1.5)
	winRateTarget    = decimal.NewFromInt(60)
)

func (a *Analyzer) findMistakes(trades []closedTrade, risk RiskProfile, now time.Time) []Mistake {
	var mistakes []Mistake

	largeLosses := 0
	for _, ct := range trades {
		if ct.pnl.LessThan(largeLossFloor) {
			largeLosses++
		}
	}
	if largeLosses > 0 {
		mistakes = append(mistakes, Mistake{
			Type:     "Large Losses",
			Severity: "high",
			Message:  fmt.Sprintf("You have %d trades with losses over $100. Consider tighter stop-losses.", largeLosses),
			Count:    largeLosses,
		})
	}

	if risk.RiskRewardRatio.IsPositive() && risk.RiskRewardRatio.LessThan(riskRewardTarget) {
		mistakes = append(mistakes, Mistake{
			Type:     "Poor Risk/Reward",
			Severity: "medium",
			Message: fmt.Sprintf("Your average win ($%s) is less than 1.5x your average loss ($%s). Aim for at least 2:1 ratio.",
				risk.AvgWin.StringFixed(2), risk.AvgLoss.StringFixed(2)),
		})
	}

	// Overtrading only matters once the journal has a real history.
	if a.calc.Ledger().Len() > 50 {
		cutoff := now.AddDate(0, 0, -30)
		recent := 0
		for _, trade := range a.calc.Ledger().Trades() {
			if trade.Date.After(cutoff) {
				recent++
			}
		}
		if recent > 20 {
			mistakes = append(mistakes, Mistake{
				Type:     "Overtrading",
				Severity: "medium",
				Message:  fmt.Sprintf("You've made %d trades in the last 30 days. Quality over quantity: focus on high-probability setups.", recent),
				Count:    recent,
			})
		}
	}

	return mistakes
}

func (a *Analyzer) performanceBreakdown(trades []closedTrade) map[string]GroupStat {
	stats := make(map[string]*tally)
	for _, ct := range trades {
		label := string(ct.trade.OptionType)
		if label == "" {
			label = "STOCK"
		}
		t, ok := stats[label]
		if !ok {
			t = &tally{}
			stats[label] = t
		}
		t.add(ct.pnl)
	}

	breakdown := make(map[string]GroupStat, len(stats))
	for label, t := range stats {
		breakdown[label] = t.stat(label)
	}
	return breakdown
}

func buildRecommendations(insights Insights) []string {
	var recs []string

	if len(insights.BestSymbols) > 0 {
		top := insights.BestSymbols[0]
		if top.WinRate.GreaterThan(winRateTarget) {
			recs = append(recs, fmt.Sprintf("Focus on %s: you have a %s%% win rate with $%s profit",
				top.Label, top.WinRate.String(), top.TotalPnL.StringFixed(2)))
		}
	}

	if len(insights.BestDays) > 0 {
		best := insights.BestDays[0]
		if best.TotalPnL.IsPositive() {
			recs = append(recs, fmt.Sprintf("%s is your best trading day: %s%% win rate, $%s profit",
				best.Label, best.WinRate.String(), best.TotalPnL.StringFixed(2)))
		}
	}

	risk := insights.RiskAnalysis
	if risk.RiskRewardRatio.IsPositive() && risk.RiskRewardRatio.LessThan(riskRewardTarget) {
		recs = append(recs, fmt.Sprintf("Improve risk/reward: your wins average $%s but losses average $%s. Target 2:1 minimum.",
			risk.AvgWin.StringFixed(2), risk.AvgLoss.StringFixed(2)))
	}

	if len(insights.BestStrategies) > 0 {
		best := insights.BestStrategies[0]
		if best.Label != NoStrategy && best.TotalPnL.IsPositive() {
			recs = append(recs, fmt.Sprintf("Your '%s' strategy works well: %s%% win rate", best.Label, best.WinRate.String()))
		}
	}

	if insights.TimePatterns.BestHour != nil {
		recs = append(recs, fmt.Sprintf("Best trading hour: %d:00 with a %s%% win rate",
			*insights.TimePatterns.BestHour, insights.TimePatterns.BestHourWinRate.String()))
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
