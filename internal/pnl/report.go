package pnl

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// Report aggregates realized P&L across the whole ledger for the common
// dashboard periods. Money figures are rounded to 2 places, the win rate
// to 1.
type Report struct {
	DayPnL         decimal.Decimal `json:"day_pnl"`
	WeekPnL        decimal.Decimal `json:"week_pnl"`
	MonthPnL       decimal.Decimal `json:"month_pnl"`
	AllTimePnL     decimal.Decimal `json:"all_time_pnl"`
	WinRate        decimal.Decimal `json:"win_rate"`
	TotalTrades    int             `json:"total_trades"`
	WinningTrades  int             `json:"winning_trades"`
	LosingTrades   int             `json:"losing_trades"`
	ProfitFactor   decimal.Decimal `json:"profit_factor"`
	AvgWin         decimal.Decimal `json:"avg_win"`
	AvgLoss        decimal.Decimal `json:"avg_loss"`
	AvgLossPercent decimal.Decimal `json:"avg_loss_pct"`
	Expectancy     decimal.Decimal `json:"expectancy"`
	LargestWin     decimal.Decimal `json:"largest_win"`
	LargestLoss    decimal.Decimal `json:"largest_loss"`
	LastUpdated    time.Time       `json:"last_updated"`
}

var hundred = decimal.NewFromInt(100)

// Metrics computes the period report as of now. The week starts on Monday,
// the month on the 1st.
func (c *Calculator) Metrics(now time.Time) Report {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	report := Report{LastUpdated: now}

	dayPnL, weekPnL, monthPnL, allTimePnL := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	winningPnL, losingPnL := decimal.Zero, decimal.Zero
	winSum, lossSum := decimal.Zero, decimal.Zero
	largestWin, largestLoss := decimal.Zero, decimal.Zero
	lossPctSum := decimal.Zero
	lossPctCount := 0
	wins, losses := 0, 0
	// Zero-P&L trades count as losses but do not dilute the loss average.
	negLosses := 0

	for _, trade := range c.ledger.Trades() {
		if trade.Direction() != models.DirectionClosing {
			continue
		}
		tradePnL := c.Realized(trade)

		if !trade.Date.Before(todayStart) {
			dayPnL = dayPnL.Add(tradePnL)
		}
		if !trade.Date.Before(weekStart) {
			weekPnL = weekPnL.Add(tradePnL)
		}
		if !trade.Date.Before(monthStart) {
			monthPnL = monthPnL.Add(tradePnL)
		}
		allTimePnL = allTimePnL.Add(tradePnL)

		report.TotalTrades++
		if tradePnL.IsPositive() {
			wins++
			winningPnL = winningPnL.Add(tradePnL)
			winSum = winSum.Add(tradePnL)
			if tradePnL.GreaterThan(largestWin) {
				largestWin = tradePnL
			}
		} else {
			losses++
			if tradePnL.IsNegative() {
				negLosses++
			}
			loss := tradePnL.Abs()
			losingPnL = losingPnL.Add(loss)
			lossSum = lossSum.Add(loss)
			if loss.GreaterThan(largestLoss) {
				largestLoss = loss
			}
			// Percent loss relative to the capital in the trade; only
			// meaningful when the proceeds are recorded.
			if tradePnL.IsNegative() && trade.SoldAmount.IsPositive() {
				costBasis := trade.SoldAmount.Sub(tradePnL)
				if costBasis.IsPositive() {
					lossPctSum = lossPctSum.Add(loss.Div(costBasis).Mul(hundred))
					lossPctCount++
				}
			}
		}
	}

	report.WinningTrades = wins
	report.LosingTrades = losses

	winRate := decimal.Zero
	if report.TotalTrades > 0 {
		winRate = decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(report.TotalTrades))).Mul(hundred)
	}

	avgWin := decimal.Zero
	if wins > 0 {
		avgWin = winSum.Div(decimal.NewFromInt(int64(wins)))
	}
	avgLoss := decimal.Zero
	if negLosses > 0 {
		avgLoss = lossSum.Div(decimal.NewFromInt(int64(negLosses)))
	}

	profitFactor := decimal.Zero
	switch {
	case losingPnL.IsPositive():
		profitFactor = winningPnL.Div(losingPnL)
	case winningPnL.IsPositive():
		profitFactor = winningPnL
	}

	avgLossPct := decimal.Zero
	if lossPctCount > 0 {
		avgLossPct = lossPctSum.Div(decimal.NewFromInt(int64(lossPctCount)))
	}

	expectancy := decimal.Zero
	if report.TotalTrades > 0 {
		winShare := winRate.Div(hundred)
		lossShare := hundred.Sub(winRate).Div(hundred)
		expectancy = winShare.Mul(avgWin).Sub(lossShare.Mul(avgLoss))
	}

	report.DayPnL = dayPnL.Round(2)
	report.WeekPnL = weekPnL.Round(2)
	report.MonthPnL = monthPnL.Round(2)
	report.AllTimePnL = allTimePnL.Round(2)
	report.WinRate = winRate.Round(1)
	report.ProfitFactor = profitFactor.Round(2)
	report.AvgWin = avgWin.Round(2)
	report.AvgLoss = avgLoss.Round(2)
	report.AvgLossPercent = avgLossPct.Round(2)
	report.Expectancy = expectancy.Round(2)
	report.LargestWin = largestWin.Round(2)
	report.LargestLoss = largestLoss.Round(2)

	return report
}
