package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"tradejournal/internal/dates"
	"tradejournal/internal/models"
)

// Entry is one day's displayed balance.
type Entry struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the presentation view over a daily series: recent entries
// (newest first), the headline numbers, and the adjustment-corrected
// aggregates. Adjustments never alter the underlying series.
type Summary struct {
	Entries           []Entry         `json:"entries"`
	Latest            *Entry          `json:"latest"`
	Previous          *Entry          `json:"previous"`
	Start             *Entry          `json:"start"`
	Change            decimal.Decimal `json:"change"`
	SinceStartChange  decimal.Decimal `json:"since_start_change"`
	SinceStartPercent decimal.Decimal `json:"since_start_percent"`
}

var hundred = decimal.NewFromInt(100)

// Summarize builds the summary view over a daily series. Scope since_start
// (or both) shifts the since-start change; scope latest (or both) shifts the
// latest displayed amount, but only for adjustments dated on or after the
// base day. The day-over-day change stays unadjusted. A zero base amount
// yields a zero percent change rather than a division failure.
func Summarize(series Series, adjustments []models.Adjustment, limit int) Summary {
	if len(series) == 0 {
		return Summary{Entries: []Entry{}}
	}
	if limit <= 0 {
		limit = 30
	}

	keys := make([]string, 0, len(series))
	for key := range series {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	startKey := keys[0]
	latestKey := keys[len(keys)-1]
	startAmount := series[startKey]
	latestAmount := series[latestKey]

	var previous *Entry
	if len(keys) > 1 {
		previousKey := keys[len(keys)-2]
		previous = &Entry{Date: previousKey, Amount: series[previousKey]}
	}

	sinceStartAdj := decimal.Zero
	latestAdj := decimal.Zero
	for _, adj := range adjustments {
		if adj.ApplyTo.AppliesSinceStart() {
			sinceStartAdj = sinceStartAdj.Add(adj.Amount)
		}
		if adj.ApplyTo.AppliesLatest() {
			if adj.Date.IsZero() || dates.DayKey(adj.Date) >= startKey {
				latestAdj = latestAdj.Add(adj.Amount)
			}
		}
	}

	adjustedLatest := latestAmount.Add(latestAdj).Round(2)

	change := decimal.Zero
	if previous != nil {
		change = latestAmount.Sub(previous.Amount).Round(2)
	}

	sinceStartChange := latestAmount.Sub(startAmount).Add(sinceStartAdj).Round(2)
	sinceStartPercent := decimal.Zero
	if !startAmount.IsZero() {
		sinceStartPercent = sinceStartChange.Div(startAmount).Mul(hundred).Round(2)
	}

	entries := make([]Entry, 0, limit)
	for i := len(keys) - 1; i >= 0 && len(entries) < limit; i-- {
		amount := series[keys[i]]
		if keys[i] == latestKey {
			amount = adjustedLatest
		}
		entries = append(entries, Entry{Date: keys[i], Amount: amount})
	}

	return Summary{
		Entries:           entries,
		Latest:            &Entry{Date: latestKey, Amount: adjustedLatest},
		Previous:          previous,
		Start:             &Entry{Date: startKey, Amount: startAmount},
		Change:            change,
		SinceStartChange:  sinceStartChange,
		SinceStartPercent: sinceStartPercent,
	}
}
