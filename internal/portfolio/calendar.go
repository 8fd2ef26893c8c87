package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/dates"
	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
)

// TradeWithPnL is a trade annotated with its realized P&L for calendar
// display. The percent return is present only for closing trades with
// recorded proceeds and a positive cost basis.
type TradeWithPnL struct {
	models.Trade
	PnL        decimal.Decimal  `json:"pnl"`
	PnLPercent *decimal.Decimal `json:"pnl_pct,omitempty"`
}

// DayTrades groups one calendar day's trades with their combined P&L.
type DayTrades struct {
	Trades []TradeWithPnL  `json:"trades"`
	PnL    decimal.Decimal `json:"pnl"`
	Count  int             `json:"count"`
}

// TradesByMonth groups the ledger's trades of one calendar month by day,
// attaching per-trade and per-day realized P&L. Opening trades appear with a
// zero P&L so the calendar shows the full activity.
func TradesByMonth(calc *pnl.Calculator, year int, month time.Month) map[string]DayTrades {
	result := make(map[string]DayTrades)

	for _, trade := range calc.Ledger().Trades() {
		if trade.Date.Year() != year || trade.Date.Month() != month {
			continue
		}
		key := dates.DayKey(trade.Date)
		day := result[key]

		annotated := TradeWithPnL{Trade: trade}
		if trade.Direction() == models.DirectionClosing {
			tradePnL := calc.Realized(trade)
			annotated.PnL = tradePnL.Round(2)
			day.PnL = day.PnL.Add(tradePnL)

			if trade.SoldAmount.IsPositive() {
				// Capital in the trade works out the same for wins and losses.
				costBasis := trade.SoldAmount.Sub(tradePnL)
				if costBasis.IsPositive() {
					pct := tradePnL.Div(costBasis).Mul(hundred).Round(2)
					annotated.PnLPercent = &pct
				}
			}
		}

		day.Trades = append(day.Trades, annotated)
		day.Count = len(day.Trades)
		result[key] = day
	}

	for key, day := range result {
		day.PnL = day.PnL.Round(2)
		result[key] = day
	}
	return result
}
