// Package ui implements the interactive terminal views: scanner, journal,
// watchlist and performance. Each view is an isolated bubbletea model that
// derives its rendering from the latest server response; there is no client
// cache and no optimistic update. Every mutation is a round trip followed by
// a full re-fetch of the affected list.
package ui

import (
	"context"

	"gapjournal/internal/api"
	"gapjournal/internal/models"
)

// Service is the slice of the backend client the views consume. *api.Client
// satisfies it; tests substitute a recording fake.
type Service interface {
	ScanGaps(ctx context.Context, q api.ScanQuery) (models.ScanResult, error)

	ListTrades(ctx context.Context, f api.TradeFilter) (models.TradePage, error)
	CreateTrade(ctx context.Context, tc api.TradeCreate) (models.Trade, string, error)
	CloseTrade(ctx context.Context, id int, exitPrice float64) (models.Trade, string, error)
	DeleteTrade(ctx context.Context, id int) (string, error)

	ListWatchlist(ctx context.Context, activeOnly bool) ([]models.WatchlistItem, error)
	CreateWatchlistItem(ctx context.Context, wc api.WatchlistCreate) (models.WatchlistItem, string, error)
	UpdateWatchlistItem(ctx context.Context, id int, wu api.WatchlistUpdate) (models.WatchlistItem, string, error)
	DeleteWatchlistItem(ctx context.Context, id int) (string, error)

	GetSummary(ctx context.Context) (models.StatsSummary, error)
	GetPnlSeries(ctx context.Context, days string) (models.PnlSeries, error)
	GetGapTypeBreakdown(ctx context.Context) (models.GapTypeBreakdown, error)
}
