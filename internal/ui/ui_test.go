package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"gapjournal/internal/api"
	"gapjournal/internal/models"
)

func init() {
	// Keep banner expiry ticks from stalling test runs.
	bannerDuration = time.Millisecond
}

// fakeService records calls and returns canned responses.
type fakeService struct {
	mu    sync.Mutex
	calls []string

	scanResult models.ScanResult
	scanErr    error

	trades    models.TradePage
	tradesErr error

	createTradeMsg string
	createTradeErr error
	closeTradeMsg  string
	closeTradeErr  error
	deleteTradeMsg string
	deleteTradeErr error

	watchlist       []models.WatchlistItem
	watchlistErr    error
	createWatchMsg  string
	createWatchErr  error
	updateWatchMsg  string
	updateWatchErr  error
	deleteWatchMsg  string
	deleteWatchErr  error
	lastWatchCreate api.WatchlistCreate
	lastWatchUpdate api.WatchlistUpdate

	summary      models.StatsSummary
	summaryErr   error
	series       models.PnlSeries
	seriesErr    error
	breakdown    models.GapTypeBreakdown
	breakdownErr error
}

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeService) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeService) ScanGaps(_ context.Context, _ api.ScanQuery) (models.ScanResult, error) {
	f.record("ScanGaps")
	return f.scanResult, f.scanErr
}

func (f *fakeService) ListTrades(_ context.Context, _ api.TradeFilter) (models.TradePage, error) {
	f.record("ListTrades")
	return f.trades, f.tradesErr
}

func (f *fakeService) CreateTrade(_ context.Context, _ api.TradeCreate) (models.Trade, string, error) {
	f.record("CreateTrade")
	return models.Trade{}, f.createTradeMsg, f.createTradeErr
}

func (f *fakeService) CloseTrade(_ context.Context, _ int, _ float64) (models.Trade, string, error) {
	f.record("CloseTrade")
	return models.Trade{}, f.closeTradeMsg, f.closeTradeErr
}

func (f *fakeService) DeleteTrade(_ context.Context, _ int) (string, error) {
	f.record("DeleteTrade")
	return f.deleteTradeMsg, f.deleteTradeErr
}

func (f *fakeService) ListWatchlist(_ context.Context, _ bool) ([]models.WatchlistItem, error) {
	f.record("ListWatchlist")
	return f.watchlist, f.watchlistErr
}

func (f *fakeService) CreateWatchlistItem(_ context.Context, wc api.WatchlistCreate) (models.WatchlistItem, string, error) {
	f.record("CreateWatchlistItem")
	f.mu.Lock()
	f.lastWatchCreate = wc
	f.mu.Unlock()
	return models.WatchlistItem{}, f.createWatchMsg, f.createWatchErr
}

func (f *fakeService) UpdateWatchlistItem(_ context.Context, _ int, wu api.WatchlistUpdate) (models.WatchlistItem, string, error) {
	f.record("UpdateWatchlistItem")
	f.mu.Lock()
	f.lastWatchUpdate = wu
	f.mu.Unlock()
	return models.WatchlistItem{}, f.updateWatchMsg, f.updateWatchErr
}

func (f *fakeService) DeleteWatchlistItem(_ context.Context, _ int) (string, error) {
	f.record("DeleteWatchlistItem")
	return f.deleteWatchMsg, f.deleteWatchErr
}

func (f *fakeService) GetSummary(_ context.Context) (models.StatsSummary, error) {
	f.record("GetSummary")
	return f.summary, f.summaryErr
}

func (f *fakeService) GetPnlSeries(_ context.Context, _ string) (models.PnlSeries, error) {
	f.record("GetPnlSeries")
	return f.series, f.seriesErr
}

func (f *fakeService) GetGapTypeBreakdown(_ context.Context) (models.GapTypeBreakdown, error) {
	f.record("GetGapTypeBreakdown")
	return f.breakdown, f.breakdownErr
}

var _ Service = (*fakeService)(nil)

// drain executes a command tree and returns the messages it produces,
// flattening batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testLogger() zerolog.Logger { return zerolog.Nop() }

func ptr[T any](v T) *T { return &v }
