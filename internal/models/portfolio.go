package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a user-asserted total account value for one calendar day.
// At most one snapshot exists per account per day; a second write to the
// same day overwrites the first.
type Snapshot struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

// AdjustmentScope controls which computed aggregates a manual adjustment
// perturbs in the portfolio summary.
type AdjustmentScope string

const (
	ScopeSinceStart AdjustmentScope = "since_start"
	ScopeLatest     AdjustmentScope = "latest"
	ScopeBoth       AdjustmentScope = "both"
)

// NormalizeScope lower-cases a raw scope, defaulting to since_start.
func NormalizeScope(raw string) AdjustmentScope {
	s := AdjustmentScope(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return ScopeSinceStart
	}
	return s
}

// AppliesSinceStart reports whether the scope shifts the since-start change.
func (s AdjustmentScope) AppliesSinceStart() bool {
	return s == ScopeSinceStart || s == ScopeBoth
}

// AppliesLatest reports whether the scope shifts the latest displayed amount.
func (s AdjustmentScope) AppliesLatest() bool {
	return s == ScopeLatest || s == ScopeBoth
}

// Adjustment is a manual deposit/withdrawal/correction applied at the
// summary layer, never to the underlying daily series.
type Adjustment struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	ApplyTo     AdjustmentScope `json:"apply_to"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
