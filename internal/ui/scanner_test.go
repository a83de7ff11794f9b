package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "gapjournal/internal/errors"
	"gapjournal/internal/models"
)

func newTestScanner(svc Service) (*ScannerModel, *Banner) {
	banner := NewBanner()
	return NewScannerModel(svc, banner, 3.0, testLogger()), banner
}

func scanRows(rows ...models.GapResult) models.ScanResult {
	return models.ScanResult{ScanDate: "2025-01-15", TotalFound: len(rows), Gaps: rows}
}

func TestScannerShowsExactlyOnePanel(t *testing.T) {
	svc := &fakeService{scanResult: scanRows(models.GapResult{Symbol: "AAPL", Direction: models.GapUp, GapPercent: 7.25})}
	m, banner := newTestScanner(svc)

	assert.Equal(t, scanPanelEmpty, m.panel)

	_, cmd := m.Update(keyMsg("enter"))
	assert.Equal(t, scanPanelLoading, m.panel)

	var loaded scanLoadedMsg
	for _, msg := range drain(cmd) {
		if lm, ok := msg.(scanLoadedMsg); ok {
			loaded = lm
		}
	}
	require.NoError(t, loaded.err)

	m.Update(loaded)
	assert.Equal(t, scanPanelResults, m.panel)

	// A failed rescan ends loading and falls back to the empty panel
	// instead of leaving stale rows up.
	_, cmd = m.Update(scanLoadedMsg{err: errs.ErrServerUnavailable})
	assert.Equal(t, scanPanelEmpty, m.panel)
	drain(cmd)
	assert.NotEmpty(t, banner.msg)
	assert.Equal(t, bannerError, banner.level)
}

func TestScannerEmptyResultShowsNoGapsHint(t *testing.T) {
	svc := &fakeService{scanResult: scanRows()}
	m, _ := newTestScanner(svc)

	m.Update(scanLoadedMsg{result: svc.scanResult})
	assert.Equal(t, scanPanelEmpty, m.panel)
	assert.Contains(t, m.View(), "No gaps found")
}

func TestScannerWatchDuplicateShowsWarning(t *testing.T) {
	svc := &fakeService{
		scanResult:     scanRows(models.GapResult{Symbol: "TSLA", Direction: models.GapUp, GapPercent: 4.1}),
		createWatchErr: errs.NewRequestError("POST", "/api/watchlist/", 409, "conflict", "Symbol already exists"),
	}
	m, banner := newTestScanner(svc)
	m.Update(scanLoadedMsg{result: svc.scanResult})

	_, cmd := m.Update(keyMsg("w"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, 1, svc.callCount("CreateWatchlistItem"))
	assert.Equal(t, "Symbol already exists", banner.msg)
	assert.Equal(t, bannerWarning, banner.level)
	// The result rows are untouched by the rejection.
	assert.Equal(t, scanPanelResults, m.panel)
}

func TestScannerWatchSuccessSendsSector(t *testing.T) {
	svc := &fakeService{
		scanResult:     scanRows(models.GapResult{Symbol: "NVDA", Direction: models.GapUp, GapPercent: 5.0, Sector: "Technology"}),
		createWatchMsg: "NVDA added to watchlist",
	}
	m, banner := newTestScanner(svc)
	m.Update(scanLoadedMsg{result: svc.scanResult})

	_, cmd := m.Update(keyMsg("w"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	require.NotNil(t, svc.lastWatchCreate.Sector)
	assert.Equal(t, "Technology", *svc.lastWatchCreate.Sector)
	assert.Equal(t, "NVDA added to watchlist", banner.msg)
	assert.Equal(t, bannerSuccess, banner.level)
}

func TestScannerTradeHandoffCarriesRowValues(t *testing.T) {
	row := models.GapResult{
		Symbol:     "AMD",
		Direction:  models.GapDown,
		GapPercent: 4.3,
		Current:    42.75,
	}
	svc := &fakeService{scanResult: scanRows(row)}
	m, _ := newTestScanner(svc)
	m.Update(scanLoadedMsg{result: svc.scanResult})

	_, cmd := m.Update(keyMsg("t"))
	msgs := drain(cmd)
	require.Len(t, msgs, 1)

	prefill, ok := msgs[0].(journalPrefillMsg)
	require.True(t, ok)
	assert.Equal(t, "AMD", prefill.prefill.Symbol)
	assert.Equal(t, models.GapTypeDown, prefill.prefill.GapType)
	assert.Equal(t, 42.75, prefill.prefill.EntryPrice)
	assert.Equal(t, 4.3, prefill.prefill.GapPercent)
}

func TestScannerRowRendering(t *testing.T) {
	svc := &fakeService{scanResult: scanRows(models.GapResult{
		Symbol:     "AAPL",
		Direction:  models.GapUp,
		GapPercent: 7.25,
		GapAmount:  3.10,
		PrevClose:  42.75,
		Open:       45.85,
		Current:    46.00,
		Volume:     2_500_000,
		Sector:     "Technology",
	})}
	m, _ := newTestScanner(svc)
	m.Update(scanLoadedMsg{result: svc.scanResult})

	// Prev close, open and current are three distinct cells.
	out := m.View()
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "+7.25%")
	assert.Contains(t, out, "$+3.10")
	assert.Contains(t, out, "$42.75")
	assert.Contains(t, out, "$45.85")
	assert.Contains(t, out, "$46.00")
	assert.Contains(t, out, "2.5M")
}
