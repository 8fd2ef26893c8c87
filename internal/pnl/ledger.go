// Package pnl computes realized profit-and-loss for journal trades using
// FIFO cost-basis matching.
package pnl

import (
	"sort"
	"time"

	"tradejournal/internal/models"
)

// Ledger is a read-only view over one account's trades, ordered ascending by
// execution date. All P&L computation walks this view; nothing is cached, so
// results always reflect the full history handed in.
type Ledger struct {
	trades []models.Trade
}

// NewLedger copies and sorts the given trades into a ledger view.
func NewLedger(trades []models.Trade) Ledger {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return Ledger{trades: sorted}
}

// Trades returns the trades in ascending date order. The slice is shared;
// callers must not mutate it.
func (l Ledger) Trades() []models.Trade {
	return l.trades
}

// Len returns the number of trades in the view.
func (l Ledger) Len() int {
	return len(l.trades)
}

// openingsBefore returns the opening trades of the given matching key dated
// strictly earlier than cutoff, oldest first.
func (l Ledger) openingsBefore(key string, cutoff time.Time) []models.Trade {
	var out []models.Trade
	for _, t := range l.trades {
		if t.Direction() != models.DirectionOpening {
			continue
		}
		if t.MatchKey() != key || !t.Date.Before(cutoff) {
			continue
		}
		out = append(out, t)
	}
	return out
}
