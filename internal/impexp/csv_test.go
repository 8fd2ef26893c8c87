package impexp

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/internal/errors"
	"tradejournal/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTrades() []models.Trade {
	return []models.Trade{
		{
			ID:             "t1",
			Symbol:         "AAPL",
			Action:         models.ActionBuy,
			Quantity:       dec("2"),
			Price:          dec("1.25"),
			TransactionFee: dec("0.65"),
			Date:           time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
			Strategy:       "momentum",
			OptionType:     models.OptionCall,
			Strike:         dec("150.50"),
			Expiration:     "2024-03-15",
			TradeType:      models.TradeTypeOption,
		},
		{
			ID:         "t2",
			Symbol:     "TSLA",
			Action:     models.ActionSell,
			Quantity:   dec("10"),
			Price:      dec("200"),
			SoldAmount: dec("2100"),
			Date:       time.Date(2024, 3, 6, 14, 0, 0, 0, time.UTC),
			TradeType:  models.TradeTypeStock,
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportTrades(&buf, sampleTrades()); err != nil {
		t.Fatalf("export: %v", err)
	}

	imported, err := ImportTrades(&buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("imported %d trades, want 2", len(imported))
	}

	first := imported[0]
	if first.ID != "t1" || first.Symbol != "AAPL" {
		t.Errorf("identity fields: %+v", first)
	}
	if first.Action != models.ActionBuy {
		t.Errorf("action = %s", first.Action)
	}
	if !first.Quantity.Equal(dec("2")) || !first.Price.Equal(dec("1.25")) ||
		!first.Strike.Equal(dec("150.50")) || !first.TransactionFee.Equal(dec("0.65")) {
		t.Errorf("decimal drift: %+v", first)
	}
	if !first.Date.Equal(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("date = %v", first.Date)
	}
	if first.TradeType != models.TradeTypeOption || first.OptionType != models.OptionCall {
		t.Errorf("type fields: %+v", first)
	}

	second := imported[1]
	if second.TradeType != models.TradeTypeStock {
		t.Errorf("stock trade type lost: %+v", second)
	}
	if !second.SoldAmount.Equal(dec("2100")) {
		t.Errorf("sold amount = %s", second.SoldAmount)
	}
}

func TestImportRejectsEmptySymbol(t *testing.T) {
	csv := "id,symbol,action,quantity,price,sold_amount,transaction_fee,date,notes,strategy,option_type,strike,expiration,trade_type\n" +
		"t1,AAPL,BUY,1,1.00,0,0,2024-03-05,,,CALL,150,,OPTION\n" +
		"t2,   ,SELL,1,1.00,0,0,2024-03-06,,,CALL,150,,OPTION\n"

	_, err := ImportTrades(strings.NewReader(csv))
	if err == nil {
		t.Fatal("empty symbol accepted")
	}
	var importErr *errors.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error type: %T", err)
	}
	if importErr.Line != 3 {
		t.Errorf("line = %d, want 3", importErr.Line)
	}
}

func TestImportRejectsBadDate(t *testing.T) {
	csv := "id,symbol,action,quantity,price,sold_amount,transaction_fee,date,notes,strategy,option_type,strike,expiration,trade_type\n" +
		"t1,AAPL,BUY,1,1.00,0,0,not-a-date,,,CALL,150,,OPTION\n"

	_, err := ImportTrades(strings.NewReader(csv))
	if err == nil {
		t.Fatal("bad date accepted")
	}
	var importErr *errors.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error type: %T", err)
	}
	if importErr.Line != 2 {
		t.Errorf("line = %d, want 2", importErr.Line)
	}
}

func TestImportNormalizesFields(t *testing.T) {
	csv := "id,symbol,action,quantity,price,sold_amount,transaction_fee,date,notes,strategy,option_type,strike,expiration,trade_type\n" +
		"t1,aapl,buy,1,1.00,0,0,2024-03-05,, momentum ,call,150,,option\n"

	trades, err := ImportTrades(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	trade := trades[0]
	if trade.Symbol != "AAPL" {
		t.Errorf("symbol = %s", trade.Symbol)
	}
	if trade.Action != models.ActionBuy {
		t.Errorf("lower-case action not normalized: %s", trade.Action)
	}
	if trade.Strategy != "momentum" {
		t.Errorf("strategy = %q", trade.Strategy)
	}
	if trade.OptionType != models.OptionCall {
		t.Errorf("option type = %s", trade.OptionType)
	}
	if trade.TradeType != models.TradeTypeOption {
		t.Errorf("trade type = %s", trade.TradeType)
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportTrades(&buf, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "symbol") {
		t.Error("header row missing from empty export")
	}
}
