// Package journal wires the persistence layer to the computation engines,
// exposing one account's journal as a single service.
package journal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"tradejournal/internal/backtest"
	"tradejournal/internal/dates"
	"tradejournal/internal/errors"
	"tradejournal/internal/insights"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/pnl"
	"tradejournal/internal/portfolio"
	"tradejournal/internal/store"
)

// Service is one account's journal. Each call loads the current history from
// the store and derives everything fresh; the service itself caches nothing.
type Service struct {
	store   store.DataStore
	account string
	logger  zerolog.Logger
}

// NewService creates a journal service for the given account.
func NewService(st store.DataStore, account string, logger zerolog.Logger) *Service {
	return &Service{
		store:   st,
		account: account,
		logger:  logging.WithAccount(logger, account),
	}
}

// Account returns the account this service is scoped to.
func (s *Service) Account() string {
	return s.account
}

// TradeInput carries the raw field values of a new trade. Dates arrive as
// strings and run through the tolerant parser; missing fields take the same
// defaults the web form used to apply.
type TradeInput struct {
	Symbol         string
	Action         string
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	SoldAmount     decimal.Decimal
	TransactionFee decimal.Decimal
	Date           string
	Notes          string
	Strategy       string
	OptionType     string
	Strike         decimal.Decimal
	Expiration     string
	TradeType      string
}

// AddTrade validates, normalizes and stores a new trade, returning the
// stored record.
func (s *Service) AddTrade(ctx context.Context, input TradeInput) (*models.Trade, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, errors.NewValidationError("symbol", input.Symbol, "must not be empty")
	}
	if input.Quantity.IsNegative() {
		return nil, errors.NewValidationError("quantity", input.Quantity.String(), "must not be negative")
	}
	if input.Price.IsNegative() {
		return nil, errors.NewValidationError("price", input.Price.String(), "must not be negative")
	}

	action := models.NormalizeAction(input.Action)
	if action == "" {
		action = models.ActionSell
	}
	tradeType := models.NormalizeTradeType(input.TradeType)

	optionType := models.OptionType(strings.ToUpper(strings.TrimSpace(input.OptionType)))
	if tradeType == models.TradeTypeOption && optionType == "" {
		optionType = models.OptionCall
	}
	if tradeType == models.TradeTypeStock {
		optionType = ""
	}

	date, ok := dates.Parse(input.Date)
	if !ok {
		date = time.Now()
	}

	trade := &models.Trade{
		ID:             uuid.NewString(),
		Symbol:         symbol,
		Action:         action,
		Quantity:       input.Quantity,
		Price:          input.Price,
		SoldAmount:     input.SoldAmount,
		TransactionFee: input.TransactionFee,
		Date:           date,
		Notes:          input.Notes,
		Strategy:       strings.TrimSpace(input.Strategy),
		OptionType:     optionType,
		Strike:         input.Strike,
		Expiration:     strings.TrimSpace(input.Expiration),
		TradeType:      tradeType,
		CreatedAt:      time.Now(),
	}

	if err := s.store.SaveTrade(ctx, s.account, trade); err != nil {
		return nil, err
	}
	logging.LogTrade(s.logger, trade.ID, trade.Symbol, string(trade.Action), trade.Quantity, trade.Price)
	return trade, nil
}

// TradeUpdate holds optional replacement values; nil fields keep the stored
// value.
type TradeUpdate struct {
	Symbol         *string
	Action         *string
	Quantity       *decimal.Decimal
	Price          *decimal.Decimal
	SoldAmount     *decimal.Decimal
	TransactionFee *decimal.Decimal
	Date           *string
	Notes          *string
	Strategy       *string
	OptionType     *string
	Strike         *decimal.Decimal
	Expiration     *string
	TradeType      *string
}

// UpdateTrade applies the non-nil fields of the update to an existing trade.
func (s *Service) UpdateTrade(ctx context.Context, tradeID string, update TradeUpdate) (*models.Trade, error) {
	trade, err := s.store.GetTrade(ctx, s.account, tradeID)
	if err != nil {
		return nil, err
	}

	if update.Symbol != nil {
		trade.Symbol = strings.ToUpper(strings.TrimSpace(*update.Symbol))
	}
	if update.Action != nil {
		trade.Action = models.NormalizeAction(*update.Action)
	}
	if update.Quantity != nil {
		trade.Quantity = *update.Quantity
	}
	if update.Price != nil {
		trade.Price = *update.Price
	}
	if update.SoldAmount != nil {
		trade.SoldAmount = *update.SoldAmount
	}
	if update.TransactionFee != nil {
		trade.TransactionFee = *update.TransactionFee
	}
	if update.Date != nil {
		if date, ok := dates.Parse(*update.Date); ok {
			trade.Date = date
		}
	}
	if update.Notes != nil {
		trade.Notes = *update.Notes
	}
	if update.Strategy != nil {
		trade.Strategy = strings.TrimSpace(*update.Strategy)
	}
	if update.OptionType != nil {
		trade.OptionType = models.OptionType(strings.ToUpper(strings.TrimSpace(*update.OptionType)))
	}
	if update.Strike != nil {
		trade.Strike = *update.Strike
	}
	if update.Expiration != nil {
		trade.Expiration = strings.TrimSpace(*update.Expiration)
	}
	if update.TradeType != nil {
		trade.TradeType = models.NormalizeTradeType(*update.TradeType)
	}

	if err := s.store.UpdateTrade(ctx, s.account, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

// DeleteTrade removes a trade, reporting whether it existed.
func (s *Service) DeleteTrade(ctx context.Context, tradeID string) (bool, error) {
	return s.store.DeleteTrade(ctx, s.account, tradeID)
}

// GetTrade fetches one trade by id.
func (s *Service) GetTrade(ctx context.Context, tradeID string) (*models.Trade, error) {
	return s.store.GetTrade(ctx, s.account, tradeID)
}

// Ledger loads the full trade history as an ordered view.
func (s *Service) Ledger(ctx context.Context) (pnl.Ledger, error) {
	trades, err := s.store.GetTrades(ctx, s.account, store.TradeFilter{})
	if err != nil {
		return pnl.Ledger{}, err
	}
	return pnl.NewLedger(trades), nil
}

// RecentTrades returns the newest trades, up to limit.
func (s *Service) RecentTrades(ctx context.Context, limit int) ([]models.Trade, error) {
	return s.store.GetTrades(ctx, s.account, store.TradeFilter{Limit: limit, Descending: true})
}

// RecordPortfolioValue stores the account's total value for a calendar day,
// replacing any earlier value for the same day.
func (s *Service) RecordPortfolioValue(ctx context.Context, day string, amount decimal.Decimal, notes string) (*models.Snapshot, error) {
	date, ok := dates.Parse(day)
	if !ok {
		date = time.Now()
	}

	snapshot := &models.Snapshot{
		ID:        uuid.NewString(),
		Date:      dates.Day(date),
		Amount:    amount.Round(2),
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	if err := s.store.UpsertSnapshot(ctx, s.account, snapshot); err != nil {
		return nil, err
	}
	logging.LogSnapshot(s.logger, dates.DayKey(snapshot.Date), snapshot.Amount)
	return snapshot, nil
}

// AddAdjustment stores a manual summary-level correction.
func (s *Service) AddAdjustment(ctx context.Context, day string, amount decimal.Decimal, scope, description string) (*models.Adjustment, error) {
	adjustment := &models.Adjustment{
		ID:          uuid.NewString(),
		Amount:      amount,
		ApplyTo:     models.NormalizeScope(scope),
		Description: description,
		CreatedAt:   time.Now(),
	}
	if day != "" {
		if date, ok := dates.Parse(day); ok {
			adjustment.Date = date
		}
	}
	if err := s.store.SaveAdjustment(ctx, s.account, adjustment); err != nil {
		return nil, err
	}
	return adjustment, nil
}

// DailyBalances reconstructs the account's day-by-day balance series.
func (s *Service) DailyBalances(ctx context.Context) (portfolio.Series, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := s.store.GetSnapshots(ctx, s.account)
	if err != nil {
		return nil, err
	}
	return portfolio.DailyBalances(calc, snapshots, time.Now()), nil
}

// PortfolioSummary builds the balance history view with adjustments applied.
func (s *Service) PortfolioSummary(ctx context.Context, limit int) (portfolio.Summary, error) {
	series, err := s.DailyBalances(ctx)
	if err != nil {
		return portfolio.Summary{}, err
	}
	adjustments, err := s.store.GetAdjustments(ctx, s.account)
	if err != nil {
		return portfolio.Summary{}, err
	}
	return portfolio.Summarize(series, adjustments, limit), nil
}

// Metrics computes the period P&L report as of now.
func (s *Service) Metrics(ctx context.Context) (pnl.Report, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return pnl.Report{}, err
	}
	return calc.Metrics(time.Now()), nil
}

// OpenPositions lists instruments with a net open quantity.
func (s *Service) OpenPositions(ctx context.Context) ([]pnl.OpenPosition, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.OpenPositions(), nil
}

// Backtest runs one filter set against the full history.
func (s *Service) Backtest(ctx context.Context, filters backtest.Filters) (backtest.Metrics, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return backtest.Metrics{}, err
	}
	metrics := backtest.New(ledger).Run(filters)
	logging.LogBacktest(s.logger, metrics.OriginalTrades, metrics.FilteredTrades, metrics.TotalPnL)
	return metrics, nil
}

// CompareScenarios runs several named filter sets against the same history.
func (s *Service) CompareScenarios(ctx context.Context, scenarios []backtest.Scenario) (map[string]backtest.Metrics, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return backtest.New(ledger).CompareScenarios(scenarios), nil
}

// Insights runs the pattern analysis over the full history.
func (s *Service) Insights(ctx context.Context) (insights.Insights, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return insights.Insights{}, err
	}
	return insights.NewAnalyzer(calc).Analyze(time.Now()), nil
}

// TradesByMonth groups one month's trades by day with realized P&L attached.
func (s *Service) TradesByMonth(ctx context.Context, year int, month time.Month) (map[string]portfolio.DayTrades, error) {
	calc, err := s.calculator(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.TradesByMonth(calc, year, month), nil
}

// BalancesByMonth filters the daily series to one calendar month.
func (s *Service) BalancesByMonth(ctx context.Context, year int, month time.Month) (portfolio.Series, error) {
	series, err := s.DailyBalances(ctx)
	if err != nil {
		return nil, err
	}
	return series.ByMonth(year, month), nil
}

func (s *Service) calculator(ctx context.Context) (*pnl.Calculator, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, err
	}
	return pnl.NewCalculator(ledger), nil
}
