// Package impexp moves trade history in and out of the journal as CSV.
package impexp

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"tradejournal/internal/dates"
	"tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// tradeRow is the CSV shape of a trade. Dates travel as strings so imports
// accept the same formats the rest of the journal tolerates.
type tradeRow struct {
	ID             string          `csv:"id"`
	Symbol         string          `csv:"symbol"`
	Action         string          `csv:"action"`
	Quantity       decimal.Decimal `csv:"quantity"`
	Price          decimal.Decimal `csv:"price"`
	SoldAmount     decimal.Decimal `csv:"sold_amount"`
	TransactionFee decimal.Decimal `csv:"transaction_fee"`
	Date           string          `csv:"date"`
	Notes          string          `csv:"notes"`
	Strategy       string          `csv:"strategy"`
	OptionType     string          `csv:"option_type"`
	Strike         decimal.Decimal `csv:"strike"`
	Expiration     string          `csv:"expiration"`
	TradeType      string          `csv:"trade_type"`
}

// ExportTrades writes trades as CSV, one row per trade.
func ExportTrades(w io.Writer, trades []models.Trade) error {
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, tradeRow{
			ID:             t.ID,
			Symbol:         t.Symbol,
			Action:         string(t.Action),
			Quantity:       t.Quantity,
			Price:          t.Price,
			SoldAmount:     t.SoldAmount,
			TransactionFee: t.TransactionFee,
			Date:           t.Date.Format("2006-01-02 15:04:05"),
			Notes:          t.Notes,
			Strategy:       t.Strategy,
			OptionType:     string(t.OptionType),
			Strike:         t.Strike,
			Expiration:     t.Expiration,
			TradeType:      string(t.TradeType),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "exporting trades")
	}
	return nil
}

// ImportTrades reads CSV rows back into trades. Rows with an empty symbol
// are rejected; unparseable dates fail the row rather than silently shifting
// history to the current time.
func ImportTrades(r io.Reader) ([]models.Trade, error) {
	var rows []tradeRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.NewImportError("csv", 0, err)
	}

	trades := make([]models.Trade, 0, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
		if symbol == "" {
			return nil, errors.NewImportError("csv", line,
				errors.NewValidationError("symbol", row.Symbol, "must not be empty"))
		}
		date, ok := dates.Parse(row.Date)
		if !ok {
			return nil, errors.NewImportError("csv", line,
				errors.NewValidationError("date", row.Date, "unrecognized date format"))
		}

		trades = append(trades, models.Trade{
			ID:             row.ID,
			Symbol:         symbol,
			Action:         models.NormalizeAction(row.Action),
			Quantity:       row.Quantity,
			Price:          row.Price,
			SoldAmount:     row.SoldAmount,
			TransactionFee: row.TransactionFee,
			Date:           date,
			Notes:          row.Notes,
			Strategy:       strings.TrimSpace(row.Strategy),
			OptionType:     models.OptionType(strings.ToUpper(strings.TrimSpace(row.OptionType))),
			Strike:         row.Strike,
			Expiration:     strings.TrimSpace(row.Expiration),
			TradeType:      models.NormalizeTradeType(row.TradeType),
		})
	}
	return trades, nil
}
