package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestActionDirection(t *testing.T) {
	cases := []struct {
		raw  string
		want Direction
	}{
		{"BUY", DirectionOpening},
		{"buy", DirectionOpening},
		{"OPEN", DirectionOpening},
		{"SELL", DirectionClosing},
		{"close", DirectionClosing},
		{" Sell ", DirectionClosing},
		{"SHORT", DirectionUnknown},
		{"", DirectionUnknown},
	}
	for _, c := range cases {
		if got := NormalizeAction(c.raw).Direction(); got != c.want {
			t.Errorf("NormalizeAction(%q).Direction() = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestMatchKeyCollapsesStrikeRenderings(t *testing.T) {
	a := Trade{Symbol: "AAPL", TradeType: TradeTypeOption, OptionType: OptionCall,
		Strike: decimal.RequireFromString("150")}
	b := Trade{Symbol: "AAPL", TradeType: TradeTypeOption, OptionType: OptionCall,
		Strike: decimal.RequireFromString("150.00")}
	if a.MatchKey() != b.MatchKey() {
		t.Errorf("150 and 150.00 produced different keys: %q vs %q", a.MatchKey(), b.MatchKey())
	}
}

func TestMatchKeySeparatesLegs(t *testing.T) {
	call := Trade{Symbol: "AAPL", TradeType: TradeTypeOption, OptionType: OptionCall,
		Strike: decimal.NewFromInt(150)}
	put := Trade{Symbol: "AAPL", TradeType: TradeTypeOption, OptionType: OptionPut,
		Strike: decimal.NewFromInt(150)}
	stock := Trade{Symbol: "AAPL", TradeType: TradeTypeStock}

	if call.MatchKey() == put.MatchKey() {
		t.Error("call and put collapsed to one key")
	}
	if stock.MatchKey() != "AAPL" {
		t.Errorf("stock key = %q, want bare symbol", stock.MatchKey())
	}
}

func TestMultiplier(t *testing.T) {
	option := Trade{TradeType: TradeTypeOption}
	stock := Trade{TradeType: TradeTypeStock}

	if !option.Multiplier().Equal(decimal.NewFromInt(100)) {
		t.Errorf("option multiplier = %s", option.Multiplier())
	}
	if !stock.Multiplier().Equal(decimal.NewFromInt(1)) {
		t.Errorf("stock multiplier = %s", stock.Multiplier())
	}
}

func TestNormalizeTradeTypeDefaultsToOption(t *testing.T) {
	if NormalizeTradeType("") != TradeTypeOption {
		t.Error("empty trade type should default to OPTION")
	}
	if NormalizeTradeType("stock") != TradeTypeStock {
		t.Error("stock should normalize upper-case")
	}
}

func TestNormalizeScope(t *testing.T) {
	if NormalizeScope("") != ScopeSinceStart {
		t.Error("empty scope should default to since_start")
	}
	if !NormalizeScope("BOTH").AppliesLatest() || !NormalizeScope("BOTH").AppliesSinceStart() {
		t.Error("both should apply to both aggregates")
	}
	if NormalizeScope("latest").AppliesSinceStart() {
		t.Error("latest must not shift the since-start change")
	}
}
