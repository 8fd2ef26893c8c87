// Package models defines the journal's core record types.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction classifies a trade as position-opening or position-closing.
// BUY/OPEN and SELL/CLOSE are interchangeable synonyms; everything downstream
// branches on Direction, never on the raw action string.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionOpening
	DirectionClosing
)

// Action is a normalized (upper-cased) trade action.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionOpen  Action = "OPEN"
	ActionClose Action = "CLOSE"
)

// NormalizeAction upper-cases a raw action string.
func NormalizeAction(raw string) Action {
	return Action(strings.ToUpper(strings.TrimSpace(raw)))
}

// Direction maps the action to its side of a position.
func (a Action) Direction() Direction {
	switch a {
	case ActionBuy, ActionOpen:
		return DirectionOpening
	case ActionSell, ActionClose:
		return DirectionClosing
	default:
		return DirectionUnknown
	}
}

// TradeType distinguishes option contracts from plain stock.
type TradeType string

const (
	TradeTypeOption TradeType = "OPTION"
	TradeTypeStock  TradeType = "STOCK"
)

// NormalizeTradeType upper-cases a raw trade type, defaulting to OPTION.
func NormalizeTradeType(raw string) TradeType {
	t := TradeType(strings.ToUpper(strings.TrimSpace(raw)))
	if t == "" {
		return TradeTypeOption
	}
	return t
}

// OptionType is CALL, PUT, or empty for stock trades.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Trade is one executed order. Numeric fields default to zero when absent;
// option fields are populated only for TradeTypeOption.
type Trade struct {
	ID             string          `json:"id"`
	Symbol         string          `json:"symbol"`
	Action         Action          `json:"action"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	SoldAmount     decimal.Decimal `json:"sold_amount"`
	TransactionFee decimal.Decimal `json:"transaction_fee"`
	Date           time.Time       `json:"date"`
	Notes          string          `json:"notes"`
	Strategy       string          `json:"strategy"`
	OptionType     OptionType      `json:"option_type"`
	Strike         decimal.Decimal `json:"strike"`
	Expiration     string          `json:"expiration"`
	TradeType      TradeType       `json:"trade_type"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Direction reports which side of a position this trade sits on.
func (t Trade) Direction() Direction {
	return t.Action.Direction()
}

// MatchKey identifies the instrument for FIFO matching: the bare symbol for
// stock, symbol+strike+option type for options. Strike is rendered from the
// decimal value so 150 and 150.00 collapse to one key.
func (t Trade) MatchKey() string {
	if t.TradeType == TradeTypeOption {
		return t.Symbol + "_" + t.Strike.String() + "_" + string(t.OptionType)
	}
	return t.Symbol
}

// Multiplier is the per-unit contract multiplier: 100 for option contracts,
// 1 for stock shares.
func (t Trade) Multiplier() decimal.Decimal {
	if t.TradeType == TradeTypeOption {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(1)
}
