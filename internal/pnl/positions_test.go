package pnl

import (
	"testing"

	"tradejournal/internal/models"
)

func TestOpenPositionsNetsOpensAndCloses(t *testing.T) {
	open1 := optionTrade("BUY", "5", "1.00", day(0))
	open2 := optionTrade("BUY", "5", "2.00", day(1))
	closing := optionTrade("SELL", "7", "2.00", day(2))

	calc := NewCalculator(NewLedger([]models.Trade{open1, open2, closing}))
	positions := calc.OpenPositions()

	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	pos := positions[0]
	if !pos.Quantity.Equal(dec("3")) {
		t.Errorf("quantity = %s, want 3", pos.Quantity)
	}
	// avg price = (5*1 + 5*2) / 10 = 1.50, no contract multiplier
	if !pos.AvgPrice.Equal(dec("1.5")) {
		t.Errorf("avg price = %s, want 1.5", pos.AvgPrice)
	}
	if !pos.TotalCost.Equal(dec("15")) {
		t.Errorf("total cost = %s, want 15", pos.TotalCost)
	}
}

func TestOpenPositionsDropsFlatAndShort(t *testing.T) {
	open := optionTrade("BUY", "5", "1.00", day(0))
	flat := optionTrade("SELL", "5", "2.00", day(1))
	overClosed := optionTrade("SELL", "2", "2.00", day(2))

	calc := NewCalculator(NewLedger([]models.Trade{open, flat, overClosed}))
	if positions := calc.OpenPositions(); len(positions) != 0 {
		t.Errorf("flat instrument reported as open: %+v", positions)
	}
}

func TestOpenPositionsSortedBySymbol(t *testing.T) {
	b := optionTrade("BUY", "1", "1.00", day(0))
	b.Symbol = "BBB"
	a := optionTrade("BUY", "1", "1.00", day(0))
	a.Symbol = "AAA"

	calc := NewCalculator(NewLedger([]models.Trade{b, a}))
	positions := calc.OpenPositions()

	if len(positions) != 2 || positions[0].Symbol != "AAA" {
		t.Errorf("positions not sorted: %+v", positions)
	}
}
