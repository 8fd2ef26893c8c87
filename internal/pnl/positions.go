package pnl

import (
	"sort"

	"github.com/shopspring/decimal"

	"tradejournal/internal/models"
)

// OpenPosition is the net open quantity of one instrument with a simple
// average entry price. This is reporting-grade data only: the average is not
// FIFO and the cost carries no contract multiplier, deliberately less precise
// than the realized path.
type OpenPosition struct {
	Symbol     string            `json:"symbol"`
	Strike     decimal.Decimal   `json:"strike"`
	OptionType models.OptionType `json:"option_type"`
	Expiration string            `json:"expiration"`
	Quantity   decimal.Decimal   `json:"quantity"`
	AvgPrice   decimal.Decimal   `json:"avg_price"`
	TotalCost  decimal.Decimal   `json:"total_cost"`
}

type positionAccumulator struct {
	position    OpenPosition
	openingQty  decimal.Decimal
	totalCost   decimal.Decimal
	netQuantity decimal.Decimal
}

// OpenPositions returns every instrument whose opening quantity exceeds its
// closing quantity, sorted by symbol for stable output.
func (c *Calculator) OpenPositions() []OpenPosition {
	byKey := make(map[string]*positionAccumulator)
	var keys []string

	for _, t := range c.ledger.Trades() {
		key := t.MatchKey()
		acc := byKey[key]
		if acc == nil {
			acc = &positionAccumulator{
				position: OpenPosition{
					Symbol:     t.Symbol,
					Strike:     t.Strike,
					OptionType: t.OptionType,
					Expiration: t.Expiration,
				},
			}
			byKey[key] = acc
			keys = append(keys, key)
		}

		switch t.Direction() {
		case models.DirectionOpening:
			acc.netQuantity = acc.netQuantity.Add(t.Quantity)
			acc.openingQty = acc.openingQty.Add(t.Quantity)
			acc.totalCost = acc.totalCost.Add(t.Quantity.Mul(t.Price))
		case models.DirectionClosing:
			acc.netQuantity = acc.netQuantity.Sub(t.Quantity)
		}
	}

	sort.Strings(keys)

	var open []OpenPosition
	for _, key := range keys {
		acc := byKey[key]
		if !acc.netQuantity.IsPositive() {
			continue
		}
		pos := acc.position
		pos.Quantity = acc.netQuantity.Round(4)
		pos.TotalCost = acc.totalCost.Round(2)
		if acc.openingQty.IsPositive() {
			pos.AvgPrice = acc.totalCost.Div(acc.openingQty).Round(2)
		}
		open = append(open, pos)
	}
	return open
}
