// Package portfolio reconstructs daily account balances from sparse
// user-entered snapshots and the realized P&L stream.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/dates"
	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
)

// Series maps calendar-day keys (YYYY-MM-DD) to the account balance at the
// end of that day.
type Series map[string]decimal.Decimal

// DailyBalances walks from the earliest snapshot to the later of now or the
// last closing trade, accumulating realized P&L per day. Every day in the
// span gets an entry; days without trades carry the prior total forward.
//
// Only the earliest snapshot seeds the arithmetic. Later snapshots are
// advisory and never bend the series; manual corrections go through
// adjustments, which apply at the summary layer.
func DailyBalances(calc *pnl.Calculator, snapshots []models.Snapshot, now time.Time) Series {
	if len(snapshots) == 0 {
		return Series{}
	}

	base := snapshots[0]
	for _, s := range snapshots[1:] {
		if s.Date.Before(base.Date) {
			base = s
		}
	}
	baseDay := dates.Day(base.Date)

	pnlByDay := make(map[string]decimal.Decimal)
	lastTradeDate := baseDay
	for _, trade := range calc.Ledger().Trades() {
		if trade.Direction() != models.DirectionClosing {
			continue
		}
		if trade.Date.Before(baseDay) {
			continue
		}
		key := dates.DayKey(trade.Date)
		pnlByDay[key] = pnlByDay[key].Add(calc.Realized(trade))
		if trade.Date.After(lastTradeDate) {
			lastTradeDate = trade.Date
		}
	}

	end := now
	if lastTradeDate.After(end) {
		end = lastTradeDate
	}
	endDay := dates.Day(end)

	series := make(Series)
	cumulative := decimal.Zero
	for day := baseDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := dates.DayKey(day)
		if dayPnL, ok := pnlByDay[key]; ok {
			cumulative = cumulative.Add(dayPnL)
		}
		series[key] = base.Amount.Add(cumulative).Round(2)
	}
	return series
}

// ByMonth filters a series down to the days of one calendar month.
func (s Series) ByMonth(year int, month time.Month) Series {
	out := make(Series)
	for key, amount := range s {
		day, err := time.Parse(dates.DayFormat, key)
		if err != nil {
			continue
		}
		if day.Year() == year && day.Month() == month {
			out[key] = amount
		}
	}
	return out
}
