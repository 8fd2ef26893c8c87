// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

// DataStore defines the interface for journal persistence. Every operation
// is scoped to an account so one database can hold several journals.
type DataStore interface {
	// Trades
	SaveTrade(ctx context.Context, accountID string, trade *models.Trade) error
	GetTrade(ctx context.Context, accountID, tradeID string) (*models.Trade, error)
	UpdateTrade(ctx context.Context, accountID string, trade *models.Trade) error
	DeleteTrade(ctx context.Context, accountID, tradeID string) (bool, error)
	GetTrades(ctx context.Context, accountID string, filter TradeFilter) ([]models.Trade, error)

	// Portfolio snapshots
	UpsertSnapshot(ctx context.Context, accountID string, snapshot *models.Snapshot) error
	GetSnapshots(ctx context.Context, accountID string) ([]models.Snapshot, error)

	// Manual adjustments
	SaveAdjustment(ctx context.Context, accountID string, adjustment *models.Adjustment) error
	GetAdjustments(ctx context.Context, accountID string) ([]models.Adjustment, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol    string
	Strategy  string
	Action    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	// Descending orders by trade date newest first.
	Descending bool
}
