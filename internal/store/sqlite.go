// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// SQLiteStore implements DataStore using SQLite. Money and quantity columns
// are stored as TEXT to keep decimal values exact across a round trip.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.NewDataAccessError("open", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.NewDataAccessError("init schema", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Executed orders, the source of truth for every derived figure
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		action TEXT NOT NULL,
		quantity TEXT NOT NULL,
		price TEXT NOT NULL,
		sold_amount TEXT NOT NULL DEFAULT '0',
		transaction_fee TEXT NOT NULL DEFAULT '0',
		date DATETIME NOT NULL,
		notes TEXT,
		strategy TEXT,
		option_type TEXT,
		strike TEXT NOT NULL DEFAULT '0',
		expiration TEXT,
		trade_type TEXT NOT NULL DEFAULT 'OPTION',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- User-asserted account values, one per account per day
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date DATE NOT NULL,
		amount TEXT NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, date)
	);

	-- Manual summary-level corrections
	CREATE TABLE IF NOT EXISTS adjustments (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		date DATETIME,
		amount TEXT NOT NULL,
		apply_to TEXT NOT NULL DEFAULT 'since_start',
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_account_date ON trades(account_id, date);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_snapshots_account_date ON snapshots(account_id, date);
	CREATE INDEX IF NOT EXISTS idx_adjustments_account ON adjustments(account_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

const tradeColumns = "id, symbol, action, quantity, price, sold_amount, transaction_fee, date, notes, strategy, option_type, strike, expiration, trade_type, created_at"

// SaveTrade inserts a new trade.
func (s *SQLiteStore) SaveTrade(ctx context.Context, accountID string, trade *models.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, account_id, symbol, action, quantity, price, sold_amount, transaction_fee, date, notes, strategy, option_type, strike, expiration, trade_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, accountID, trade.Symbol, string(trade.Action), trade.Quantity.String(), trade.Price.String(),
		trade.SoldAmount.String(), trade.TransactionFee.String(), trade.Date, trade.Notes, trade.Strategy,
		string(trade.OptionType), trade.Strike.String(), trade.Expiration, string(trade.TradeType), trade.CreatedAt)
	if err != nil {
		return errors.NewDataAccessError("save trade", err)
	}
	return nil
}

// GetTrade fetches one trade by id, returning ErrTradeNotFound when absent.
func (s *SQLiteStore) GetTrade(ctx context.Context, accountID, tradeID string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tradeColumns+" FROM trades WHERE account_id = ? AND id = ?", accountID, tradeID)

	trade, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTradeNotFound
	}
	if err != nil {
		return nil, errors.NewDataAccessError("get trade", err)
	}
	return trade, nil
}

// UpdateTrade rewrites every mutable column of an existing trade.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, accountID string, trade *models.Trade) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET symbol = ?, action = ?, quantity = ?, price = ?, sold_amount = ?, transaction_fee = ?,
		    date = ?, notes = ?, strategy = ?, option_type = ?, strike = ?, expiration = ?, trade_type = ?
		WHERE account_id = ? AND id = ?
	`, trade.Symbol, string(trade.Action), trade.Quantity.String(), trade.Price.String(),
		trade.SoldAmount.String(), trade.TransactionFee.String(), trade.Date, trade.Notes, trade.Strategy,
		string(trade.OptionType), trade.Strike.String(), trade.Expiration, string(trade.TradeType),
		accountID, trade.ID)
	if err != nil {
		return errors.NewDataAccessError("update trade", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDataAccessError("update trade", err)
	}
	if affected == 0 {
		return errors.ErrTradeNotFound
	}
	return nil
}

// DeleteTrade removes a trade, reporting whether a row existed.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, accountID, tradeID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM trades WHERE account_id = ? AND id = ?", accountID, tradeID)
	if err != nil {
		return false, errors.NewDataAccessError("delete trade", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDataAccessError("delete trade", err)
	}
	return affected > 0, nil
}

// GetTrades retrieves trades matching the filter, oldest first unless the
// filter asks for descending order.
func (s *SQLiteStore) GetTrades(ctx context.Context, accountID string, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE account_id = ?"
	args := []interface{}{accountID}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Strategy != "" {
		query += " AND strategy = ?"
		args = append(args, filter.Strategy)
	}
	if filter.Action != "" {
		query += " AND action = ?"
		args = append(args, filter.Action)
	}
	if !filter.StartDate.IsZero() {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	if filter.Descending {
		query += " ORDER BY date DESC"
	} else {
		query += " ORDER BY date ASC"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDataAccessError("query trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, errors.NewDataAccessError("scan trade", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataAccessError("query trades", err)
	}
	return trades, nil
}

// UpsertSnapshot writes a snapshot, replacing any existing one for the same
// account and day.
func (s *SQLiteStore) UpsertSnapshot(ctx context.Context, accountID string, snapshot *models.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, account_id, date, amount, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, date) DO UPDATE SET
			amount = excluded.amount,
			notes = excluded.notes
	`, snapshot.ID, accountID, snapshot.Date.Format("2006-01-02"), snapshot.Amount.String(), snapshot.Notes, snapshot.CreatedAt)
	if err != nil {
		return errors.NewDataAccessError("upsert snapshot", err)
	}
	return nil
}

// GetSnapshots returns an account's snapshots ordered by date ascending.
func (s *SQLiteStore) GetSnapshots(ctx context.Context, accountID string) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, amount, notes, created_at FROM snapshots WHERE account_id = ? ORDER BY date ASC", accountID)
	if err != nil {
		return nil, errors.NewDataAccessError("query snapshots", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		var amount string
		// The date column is declared DATE, so the driver hands back a
		// time.Time; scan it directly instead of re-parsing a string.
		if err := rows.Scan(&snap.ID, &snap.Date, &amount, &snap.Notes, &snap.CreatedAt); err != nil {
			return nil, errors.NewDataAccessError("scan snapshot", err)
		}
		snap.Amount, err = parseDecimal(amount)
		if err != nil {
			return nil, errors.NewDataAccessError("scan snapshot", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataAccessError("query snapshots", err)
	}
	return snapshots, nil
}

// SaveAdjustment inserts a manual adjustment.
func (s *SQLiteStore) SaveAdjustment(ctx context.Context, accountID string, adjustment *models.Adjustment) error {
	var date interface{}
	if !adjustment.Date.IsZero() {
		date = adjustment.Date
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adjustments (id, account_id, date, amount, apply_to, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, adjustment.ID, accountID, date, adjustment.Amount.String(), string(adjustment.ApplyTo), adjustment.Description, adjustment.CreatedAt)
	if err != nil {
		return errors.NewDataAccessError("save adjustment", err)
	}
	return nil
}

// GetAdjustments returns an account's adjustments ordered by creation time.
func (s *SQLiteStore) GetAdjustments(ctx context.Context, accountID string) ([]models.Adjustment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, amount, apply_to, description, created_at FROM adjustments WHERE account_id = ? ORDER BY created_at ASC", accountID)
	if err != nil {
		return nil, errors.NewDataAccessError("query adjustments", err)
	}
	defer rows.Close()

	var adjustments []models.Adjustment
	for rows.Next() {
		var adj models.Adjustment
		var date sql.NullTime
		var amount, applyTo string
		if err := rows.Scan(&adj.ID, &date, &amount, &applyTo, &adj.Description, &adj.CreatedAt); err != nil {
			return nil, errors.NewDataAccessError("scan adjustment", err)
		}
		if date.Valid {
			adj.Date = date.Time
		}
		adj.Amount, err = parseDecimal(amount)
		if err != nil {
			return nil, errors.NewDataAccessError("scan adjustment", err)
		}
		adj.ApplyTo = models.NormalizeScope(applyTo)
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataAccessError("query adjustments", err)
	}
	return adjustments, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var action, quantity, price, soldAmount, fee, optionType, strike, tradeType string
	var notes, strategy, expiration sql.NullString

	err := row.Scan(&t.ID, &t.Symbol, &action, &quantity, &price, &soldAmount, &fee,
		&t.Date, &notes, &strategy, &optionType, &strike, &expiration, &tradeType, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Action = models.NormalizeAction(action)
	t.Notes = notes.String
	t.Strategy = strategy.String
	t.OptionType = models.OptionType(optionType)
	t.Expiration = expiration.String
	t.TradeType = models.NormalizeTradeType(tradeType)

	fields := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&t.Quantity, quantity},
		{&t.Price, price},
		{&t.SoldAmount, soldAmount},
		{&t.TransactionFee, fee},
		{&t.Strike, strike},
	}
	for _, f := range fields {
		*f.dst, err = parseDecimal(f.raw)
		if err != nil {
			return nil, fmt.Errorf("bad decimal %q: %w", f.raw, err)
		}
	}
	return &t, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
