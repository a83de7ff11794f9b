package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "gapjournal/internal/errors"
	"gapjournal/internal/models"
)

func newTestWatchlist(svc Service) (*WatchlistModel, *Banner) {
	banner := NewBanner()
	return NewWatchlistModel(svc, banner, testLogger()), banner
}

func watchItem(id int, symbol string) models.WatchlistItem {
	return models.WatchlistItem{
		ID: id, Symbol: symbol, Sector: "Technology",
		Notes: "watching the gap", TargetPrice: ptr(42.50),
		IsActive: true, AddedDate: models.APITime{Time: time.Now()},
	}
}

func TestWatchlistAddKeptOnFailureResetOnReopen(t *testing.T) {
	svc := &fakeService{
		createWatchErr: errs.NewRequestError("POST", "/api/watchlist/", 409, "conflict", "Symbol already exists"),
	}
	m, banner := newTestWatchlist(svc)

	_, cmd := m.Update(keyMsg("a"))
	drain(cmd)
	require.Equal(t, watchlistAdd, m.mode)
	m.inputs[watchFieldSymbol].SetValue("AAPL")
	m.inputs[watchFieldTarget].SetValue("50.00")

	_, cmd = m.Update(keyMsg("enter"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	// A rejected add keeps the form and its values for correction.
	assert.Equal(t, watchlistAdd, m.mode)
	assert.Equal(t, "AAPL", m.inputs[watchFieldSymbol].Value())
	assert.Equal(t, "Symbol already exists", banner.msg)

	// Reopening starts from a clean form.
	m.Update(keyMsg("esc"))
	_, cmd = m.Update(keyMsg("a"))
	drain(cmd)
	assert.Empty(t, m.inputs[watchFieldSymbol].Value())
}

func TestWatchlistAddSuccessReloads(t *testing.T) {
	svc := &fakeService{createWatchMsg: "AAPL added to watchlist"}
	m, banner := newTestWatchlist(svc)

	_, cmd := m.Update(keyMsg("a"))
	drain(cmd)
	m.inputs[watchFieldSymbol].SetValue("aapl")
	m.inputs[watchFieldTarget].SetValue("50.00")

	_, cmd = m.Update(keyMsg("enter"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, watchlistList, m.mode)
	assert.Equal(t, 1, svc.callCount("CreateWatchlistItem"))
	assert.Equal(t, 1, svc.callCount("ListWatchlist"))
	assert.Equal(t, "AAPL", svc.lastWatchCreate.Symbol)
	require.NotNil(t, svc.lastWatchCreate.TargetPrice)
	assert.Equal(t, 50.0, *svc.lastWatchCreate.TargetPrice)
	assert.Equal(t, "AAPL added to watchlist", banner.msg)
}

func TestWatchlistEditPrefilledFromItemStruct(t *testing.T) {
	item := watchItem(3, "MSFT")
	svc := &fakeService{watchlist: []models.WatchlistItem{item}}
	m, _ := newTestWatchlist(svc)
	m.Update(watchlistLoadedMsg{items: svc.watchlist})

	_, cmd := m.Update(keyMsg("e"))
	drain(cmd)

	require.Equal(t, watchlistEdit, m.mode)
	assert.Equal(t, "42.50", m.inputs[watchFieldTarget].Value())
	assert.Equal(t, "Technology", m.inputs[watchFieldSector].Value())
	assert.Equal(t, "watching the gap", m.inputs[watchFieldNotes].Value())
	assert.True(t, m.editFlag)
}

func TestWatchlistToggleResubmitsOtherFieldsUnchanged(t *testing.T) {
	item := watchItem(3, "MSFT")
	svc := &fakeService{watchlist: []models.WatchlistItem{item}}
	m, _ := newTestWatchlist(svc)
	m.Update(watchlistLoadedMsg{items: svc.watchlist})

	_, cmd := m.Update(keyMsg("t"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	require.Equal(t, 1, svc.callCount("UpdateWatchlistItem"))
	wu := svc.lastWatchUpdate
	assert.False(t, wu.IsActive)
	require.NotNil(t, wu.TargetPrice)
	assert.Equal(t, 42.50, *wu.TargetPrice)
	require.NotNil(t, wu.Sector)
	assert.Equal(t, "Technology", *wu.Sector)
	require.NotNil(t, wu.Notes)
	assert.Equal(t, "watching the gap", *wu.Notes)
}

func TestWatchlistDeleteIsConfirmGated(t *testing.T) {
	svc := &fakeService{watchlist: []models.WatchlistItem{watchItem(5, "AMD")}, deleteWatchMsg: "AMD removed from watchlist"}
	m, banner := newTestWatchlist(svc)
	m.Update(watchlistLoadedMsg{items: svc.watchlist})

	m.Update(keyMsg("x"))
	require.Equal(t, watchlistConfirmDelete, m.mode)
	m.Update(keyMsg("n"))
	assert.Equal(t, watchlistList, m.mode)
	assert.Equal(t, 0, svc.callCount("DeleteWatchlistItem"))

	m.Update(keyMsg("x"))
	_, cmd := m.Update(keyMsg("y"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, 1, svc.callCount("DeleteWatchlistItem"))
	assert.Equal(t, 1, svc.callCount("ListWatchlist"))
	assert.Equal(t, "AMD removed from watchlist", banner.msg)
}

func TestWatchlistScopeToggleRefetches(t *testing.T) {
	svc := &fakeService{}
	m, _ := newTestWatchlist(svc)
	require.True(t, m.activeOnly)

	_, cmd := m.Update(keyMsg("o"))
	drain(cmd)
	assert.False(t, m.activeOnly)
	assert.Equal(t, 1, svc.callCount("ListWatchlist"))
}

func TestWatchlistEmptyOptionalCellsRenderDash(t *testing.T) {
	item := watchItem(1, "NVDA")
	item.Sector = ""
	item.Notes = ""
	item.TargetPrice = nil
	svc := &fakeService{watchlist: []models.WatchlistItem{item}}
	m, _ := newTestWatchlist(svc)
	m.Update(watchlistLoadedMsg{items: svc.watchlist})

	out := m.View()
	row := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "NVDA") {
			row = line
		}
	}
	require.NotEmpty(t, row)
	assert.Equal(t, 3, strings.Count(row, "-"), "target, sector and notes all fall back to a dash")
}
