// Package models defines the entities exchanged with the journal backend.
// Every value is a transient snapshot of server state; nothing here is
// persisted on the client side.
package models

import (
	"encoding/json"
	"time"
)

// naiveTimeLayout matches the backend's timestamps, which carry microseconds
// but no UTC offset.
const naiveTimeLayout = "2006-01-02T15:04:05.999999999"

// APITime is a timestamp as the backend serializes it. Values without an
// offset are read as UTC; RFC3339 is accepted too.
type APITime struct {
	time.Time
}

func (t *APITime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = ts
		return nil
	}
	ts, err := time.ParseInLocation(naiveTimeLayout, s, time.UTC)
	if err != nil {
		return err
	}
	t.Time = ts
	return nil
}

func (t APITime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// GapDirection is the direction of a price gap.
type GapDirection string

const (
	GapUp   GapDirection = "up"
	GapDown GapDirection = "down"
)

// TradeDirection is the side of a recorded trade.
type TradeDirection string

const (
	DirectionLong  TradeDirection = "long"
	DirectionShort TradeDirection = "short"
)

// GapType tags a trade with the gap setup it was taken on.
type GapType string

const (
	GapTypeUp   GapType = "gap_up"
	GapTypeDown GapType = "gap_down"
)

// TradeStatus is the server-owned lifecycle state of a trade.
// Cancelled has no client-side transition; it can only be reached by a
// server-side mutation and is rendered but never produced here.
type TradeStatus string

const (
	StatusOpen      TradeStatus = "open"
	StatusClosed    TradeStatus = "closed"
	StatusCancelled TradeStatus = "cancelled"
)

// GapResult is one row of a gap scan. Ephemeral: produced by a scan query
// and never stored.
type GapResult struct {
	Symbol     string       `json:"symbol"`
	Direction  GapDirection `json:"direction"`
	GapPercent float64      `json:"gap_percent"`
	GapAmount  float64      `json:"gap_amount"`
	PrevClose  float64      `json:"prev_close"`
	Open       float64      `json:"open"`
	Current    float64      `json:"current"`
	Volume     int64        `json:"volume"`
	Sector     string       `json:"sector"`
}

// ScanResult is the payload of a scanner query.
type ScanResult struct {
	ScanDate   string      `json:"scan_date"`
	TotalFound int         `json:"total_found"`
	Gaps       []GapResult `json:"gaps"`
}

// Trade is a recorded position. ExitPrice, ExitDate and Pnl are nil while the
// trade is open; the server computes them on close.
type Trade struct {
	ID          int            `json:"id"`
	Symbol      string         `json:"symbol"`
	Direction   TradeDirection `json:"direction"`
	EntryPrice  float64        `json:"entry_price"`
	ExitPrice   *float64       `json:"exit_price"`
	Quantity    int            `json:"quantity"`
	EntryDate   APITime        `json:"entry_date"`
	ExitDate    *APITime       `json:"exit_date"`
	Status      TradeStatus    `json:"status"`
	Pnl         *float64       `json:"pnl"`
	PnlPercent  *float64       `json:"pnl_percent"`
	Notes       string         `json:"notes"`
	GapType     GapType        `json:"gap_type"`
	GapPercent  *float64       `json:"gap_percent"`
	SetupRating *int           `json:"setup_rating"`
}

// IsOpen reports whether the trade can still be closed from the client.
func (t Trade) IsOpen() bool { return t.Status == StatusOpen }

// TradePage is the paginated payload of a trade list query.
type TradePage struct {
	Trades  []Trade `json:"trades"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
}

// WatchlistItem is a tracked symbol, independent of any trade.
type WatchlistItem struct {
	ID          int      `json:"id"`
	Symbol      string   `json:"symbol"`
	AddedDate   APITime  `json:"added_date"`
	Notes       string   `json:"notes"`
	TargetPrice *float64 `json:"target_price"`
	Sector      string   `json:"sector"`
	IsActive    bool     `json:"is_active"`
}

// StatsSummary is the server-computed performance summary. The client does
// no aggregation of its own.
type StatsSummary struct {
	TotalTrades          int     `json:"total_trades"`
	OpenTrades           int     `json:"open_trades"`
	ClosedTrades         int     `json:"closed_trades"`
	WinRate              float64 `json:"win_rate"`
	TotalPnl             float64 `json:"total_pnl"`
	AvgPnl               float64 `json:"avg_pnl"`
	BestTrade            float64 `json:"best_trade"`
	WorstTrade           float64 `json:"worst_trade"`
	AvgWinner            float64 `json:"avg_winner"`
	AvgLoser             float64 `json:"avg_loser"`
	ProfitFactor         float64 `json:"profit_factor"`
	MaxConsecutiveWins   int     `json:"max_consecutive_wins"`
	MaxConsecutiveLosses int     `json:"max_consecutive_losses"`
}

// PnlSeries holds index-aligned arrays for charting.
type PnlSeries struct {
	Labels        []string  `json:"labels"`
	CumulativePnl []float64 `json:"cumulative_pnl"`
	DailyPnl      []float64 `json:"daily_pnl"`
}

// GapTypeStats is the per-gap-type slice of the breakdown.
type GapTypeStats struct {
	Count    int     `json:"count"`
	WinRate  float64 `json:"win_rate"`
	AvgPnl   float64 `json:"avg_pnl"`
	TotalPnl float64 `json:"total_pnl"`
}

// GapTypeBreakdown maps gap_up/gap_down to their stats. Absent keys read as
// zero values.
type GapTypeBreakdown map[GapType]GapTypeStats

// Count returns the count for a gap type, zero when the key is absent.
func (b GapTypeBreakdown) Count(gt GapType) int { return b[gt].Count }
