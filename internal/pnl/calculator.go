package pnl

import (
	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// Calculator derives realized P&L for closing trades against a ledger.
// It holds no state beyond the view itself; repeated calls are idempotent.
type Calculator struct {
	ledger Ledger
}

// NewCalculator creates a calculator over the given ledger view.
func NewCalculator(ledger Ledger) *Calculator {
	return &Calculator{ledger: ledger}
}

// Ledger returns the underlying ledger view.
func (c *Calculator) Ledger() Ledger {
	return c.ledger
}

// Realized computes the realized P&L of a single trade.
//
// Only closing trades produce a figure; everything else yields zero. When the
// trade carries its gross proceeds (sold amount), prior opening trades of the
// same instrument are consumed oldest-first and each matched opening trade
// contributes a quantity-proportional share of its own fee. A closing
// quantity that exceeds all prior opens falls back to the closing trade's own
// price for the unmatched remainder instead of failing. Trades recorded
// before sold amounts existed take a simple average-cost path; the two paths
// are intentionally not symmetric.
func (c *Calculator) Realized(trade models.Trade) decimal.Decimal {
	if trade.Direction() != models.DirectionClosing {
		return decimal.Zero
	}
	if trade.SoldAmount.IsPositive() {
		return c.fifoRealized(trade)
	}
	return c.averageCostRealized(trade)
}

func (c *Calculator) fifoRealized(trade models.Trade) decimal.Decimal {
	openings := c.ledger.openingsBefore(trade.MatchKey(), trade.Date)

	remaining := trade.Quantity
	totalCost := decimal.Zero
	openingFees := decimal.Zero

	for _, opening := range openings {
		if !remaining.IsPositive() {
			break
		}
		matched := decimal.Min(remaining, opening.Quantity)
		totalCost = totalCost.Add(matched.Mul(opening.Price).Mul(opening.Multiplier()))
		if opening.Quantity.IsPositive() {
			share := matched.Div(opening.Quantity).Mul(opening.TransactionFee)
			openingFees = openingFees.Add(share)
		}
		remaining = remaining.Sub(matched)
	}

	// Insufficient prior opens: cost the unmatched remainder at the closing
	// price rather than aborting the whole report.
	if remaining.IsPositive() {
		totalCost = totalCost.Add(remaining.Mul(trade.Price).Mul(trade.Multiplier()))
	}

	totalFees := trade.TransactionFee.Add(openingFees)
	return trade.SoldAmount.Sub(totalCost).Sub(totalFees)
}

// averageCostRealized is the legacy path for records without a sold amount:
// average entry price over all earlier opens of the key, no FIFO, no opening
// fee allocation.
func (c *Calculator) averageCostRealized(trade models.Trade) decimal.Decimal {
	openings := c.ledger.openingsBefore(trade.MatchKey(), trade.Date)
	if len(openings) == 0 {
		return decimal.Zero
	}

	totalCost := decimal.Zero
	totalQuantity := decimal.Zero
	for _, opening := range openings {
		totalCost = totalCost.Add(opening.Quantity.Mul(opening.Price).Mul(opening.Multiplier()))
		totalQuantity = totalQuantity.Add(opening.Quantity)
	}
	if !totalQuantity.IsPositive() {
		return decimal.Zero
	}

	averageEntry := totalCost.Div(totalQuantity)
	perUnit := trade.Price.Mul(trade.Multiplier()).Sub(averageEntry)
	return perUnit.Mul(trade.Quantity).Sub(trade.TransactionFee)
}
