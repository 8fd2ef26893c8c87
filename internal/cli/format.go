// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/pkg/utils"
)

// FormatDate formats a date for display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a datetime for display.
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// FormatMoney renders an amount as dollars.
func FormatMoney(amount decimal.Decimal) string {
	return utils.FormatUSD(amount)
}

// FormatOptionLeg renders the strike/type suffix of an option trade, empty
// for stock.
func FormatOptionLeg(strike decimal.Decimal, optionType string) string {
	if optionType == "" {
		return ""
	}
	return "$" + strike.String() + " " + optionType
}
