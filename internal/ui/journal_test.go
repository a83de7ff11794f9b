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

func newTestJournal(svc Service) (*JournalModel, *Banner) {
	banner := NewBanner()
	return NewJournalModel(svc, banner, 10*time.Millisecond, "01/02/2006", testLogger()), banner
}

func tradePage(trades ...models.Trade) models.TradePage {
	return models.TradePage{Trades: trades, Total: len(trades), Page: 1, PerPage: 50}
}

func openTrade(id int, symbol string) models.Trade {
	return models.Trade{
		ID: id, Symbol: symbol, Direction: models.DirectionLong,
		EntryPrice: 50, Quantity: 100, Status: models.StatusOpen,
		GapType: models.GapTypeUp, EntryDate: models.APITime{Time: time.Now()},
	}
}

func closedTrade(id int, symbol string, pnl float64) models.Trade {
	t := openTrade(id, symbol)
	t.Status = models.StatusClosed
	t.ExitPrice = ptr(55.0)
	t.Pnl = &pnl
	return t
}

func loadTrades(m *JournalModel, page models.TradePage) {
	m.Update(tradesLoadedMsg{gen: m.reqGen, page: page})
}

func TestJournalCloseRequiresPositiveExitPrice(t *testing.T) {
	svc := &fakeService{trades: tradePage(openTrade(1, "AAPL"))}
	m, banner := newTestJournal(svc)
	m.reqGen = 1
	loadTrades(m, svc.trades)

	_, cmd := m.Update(keyMsg("c"))
	drain(cmd)
	require.Equal(t, journalClose, m.mode)

	for _, bad := range []string{"0", "-5", "abc", ""} {
		m.closeInput.SetValue(bad)
		_, cmd := m.Update(keyMsg("enter"))
		drain(cmd)
		assert.Equal(t, journalClose, m.mode, "input %q should keep the form open", bad)
		assert.Equal(t, bannerError, banner.level)
		assert.Contains(t, banner.msg, "greater than zero")
	}
	// Nothing was sent for any of the rejected inputs.
	assert.Equal(t, 0, svc.callCount("CloseTrade"))

	m.closeInput.SetValue("55.50")
	_, cmd = m.Update(keyMsg("enter"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}
	assert.Equal(t, 1, svc.callCount("CloseTrade"))
}

func TestJournalCloseOnlyOfferedForOpenTrades(t *testing.T) {
	svc := &fakeService{trades: tradePage(closedTrade(1, "AAPL", 120))}
	m, _ := newTestJournal(svc)
	m.reqGen = 1
	loadTrades(m, svc.trades)

	m.Update(keyMsg("c"))
	assert.Equal(t, journalList, m.mode)
	assert.Equal(t, 0, svc.callCount("CloseTrade"))
	assert.NotContains(t, m.View(), "c close")
}

func TestJournalDeleteConfirmThenReload(t *testing.T) {
	svc := &fakeService{
		trades:         tradePage(openTrade(7, "TSLA")),
		deleteTradeMsg: "Trade deleted",
	}
	m, banner := newTestJournal(svc)
	m.reqGen = 1
	loadTrades(m, svc.trades)

	m.Update(keyMsg("x"))
	require.Equal(t, journalConfirmDelete, m.mode)

	// Declining leaves everything untouched.
	m.Update(keyMsg("n"))
	assert.Equal(t, journalList, m.mode)
	assert.Equal(t, 0, svc.callCount("DeleteTrade"))

	m.Update(keyMsg("x"))
	_, cmd := m.Update(keyMsg("y"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, 1, svc.callCount("DeleteTrade"))
	// The mutation is followed by a full list re-fetch.
	assert.Equal(t, 1, svc.callCount("ListTrades"))
	assert.Equal(t, "Trade deleted", banner.msg)
	assert.Equal(t, bannerSuccess, banner.level)
}

func TestJournalStaleListResponseDropped(t *testing.T) {
	svc := &fakeService{}
	m, _ := newTestJournal(svc)

	m.reload()
	m.reload()
	require.Equal(t, 2, m.reqGen)

	stale := tradesLoadedMsg{gen: 1, page: tradePage(openTrade(1, "OLD"))}
	m.Update(stale)
	assert.Empty(t, m.page.Trades)

	fresh := tradesLoadedMsg{gen: 2, page: tradePage(openTrade(2, "NEW"))}
	m.Update(fresh)
	require.Len(t, m.page.Trades, 1)
	assert.Equal(t, "NEW", m.page.Trades[0].Symbol)
}

func TestJournalCreateFailureKeepsFormValues(t *testing.T) {
	svc := &fakeService{
		createTradeErr: errs.NewRequestError("POST", "/api/trades/", 400, "invalid", "Entry price must be positive"),
	}
	m, banner := newTestJournal(svc)

	_, cmd := m.Update(keyMsg("n"))
	drain(cmd)
	require.Equal(t, journalCreate, m.mode)
	m.createInputs[createFieldSymbol].SetValue("AAPL")
	m.createInputs[createFieldEntryPrice].SetValue("-1")

	_, cmd = m.Update(keyMsg("enter"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, journalCreate, m.mode)
	assert.Equal(t, "AAPL", m.createInputs[createFieldSymbol].Value())
	assert.Equal(t, "-1", m.createInputs[createFieldEntryPrice].Value())
	assert.Equal(t, "Entry price must be positive", banner.msg)
	assert.Equal(t, bannerError, banner.level)
}

func TestJournalCreateSuccessReloadsList(t *testing.T) {
	svc := &fakeService{createTradeMsg: "Trade opened for AAPL"}
	m, banner := newTestJournal(svc)

	_, cmd := m.Update(keyMsg("n"))
	drain(cmd)
	m.createInputs[createFieldSymbol].SetValue("aapl")
	m.createInputs[createFieldEntryPrice].SetValue("45.85")
	m.createInputs[createFieldQuantity].SetValue("100")

	_, cmd = m.Update(keyMsg("enter"))
	for _, msg := range drain(cmd) {
		_, cmd2 := m.Update(msg)
		drain(cmd2)
	}

	assert.Equal(t, journalList, m.mode)
	assert.Equal(t, 1, svc.callCount("CreateTrade"))
	assert.Equal(t, 1, svc.callCount("ListTrades"))
	assert.Equal(t, "Trade opened for AAPL", banner.msg)
}

func TestJournalSymbolFilterDebounce(t *testing.T) {
	svc := &fakeService{}
	m, _ := newTestJournal(svc)

	_, cmd := m.Update(keyMsg("/"))
	drain(cmd)
	require.True(t, m.filterFocus)

	// Each keystroke bumps the sequence; only the newest tick may fetch.
	m.Update(keyMsg("a"))
	m.Update(keyMsg("b"))
	require.Equal(t, 2, m.debounceSeq)

	m.Update(symbolDebounceMsg{seq: 1})
	assert.Equal(t, 0, svc.callCount("ListTrades"))

	_, cmd = m.Update(symbolDebounceMsg{seq: 2})
	drain(cmd)
	assert.Equal(t, 1, svc.callCount("ListTrades"))
}

func TestJournalPrefillPopulatesCreateForm(t *testing.T) {
	svc := &fakeService{}
	m, _ := newTestJournal(svc)

	cmd := m.ApplyPrefill(TradePrefill{
		Symbol:     "AMD",
		GapType:    models.GapTypeDown,
		EntryPrice: 42.75,
		GapPercent: -4.26,
	})
	drain(cmd)

	assert.Equal(t, journalCreate, m.mode)
	assert.Equal(t, "AMD", m.createInputs[createFieldSymbol].Value())
	assert.Equal(t, models.GapTypeDown, m.gapType)
	assert.Equal(t, "42.75", m.createInputs[createFieldEntryPrice].Value())
	assert.Equal(t, "-4.26", m.createInputs[createFieldGapPercent].Value())
}

func TestJournalPnlCellsDashWhileOpen(t *testing.T) {
	svc := &fakeService{trades: tradePage(openTrade(1, "AAPL"), closedTrade(2, "TSLA", -12.5))}
	m, _ := newTestJournal(svc)
	m.reqGen = 1
	loadTrades(m, svc.trades)

	out := m.View()
	assert.Contains(t, out, "$-12.50")

	var aaplRow string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "AAPL") {
			aaplRow = line
		}
	}
	require.NotEmpty(t, aaplRow)
	// Open trades have no exit price or pnl yet; those cells render as
	// dashes instead of zeros.
	assert.NotContains(t, aaplRow, "$0.00")
	assert.Contains(t, aaplRow, " - ")
}
