package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapjournal/internal/config"
	"gapjournal/internal/models"
)

func newTestApp(svc Service) *App {
	cfg := &config.Config{}
	cfg.UI.DateFormat = "01/02/2006"
	cfg.UI.DefaultMinGap = 3.0
	cfg.UI.DefaultPeriodDays = 30
	cfg.UI.DebounceMillis = 10
	return NewApp(svc, cfg, testLogger())
}

func TestAppNumberKeysSwitchTabs(t *testing.T) {
	a := newTestApp(&fakeService{})
	require.Equal(t, 0, a.active)

	a.Update(keyMsg("3"))
	assert.Equal(t, 2, a.active)
	assert.Equal(t, "Watchlist", a.views[a.active].Title())
}

func TestAppTabKeysSuppressedWhileTyping(t *testing.T) {
	a := newTestApp(&fakeService{})
	a.active = a.tabIndex(a.journal)
	a.journal.filterFocus = true
	cmd := a.journal.symbolInput.Focus()
	drain(cmd)

	// "2" is a keystroke for the filter field, not a tab shortcut.
	a.Update(keyMsg("1"))
	assert.Equal(t, a.tabIndex(a.journal), a.active)
	assert.Contains(t, a.journal.symbolInput.Value(), "1")
}

func TestAppRoutesScannerHandoffToJournal(t *testing.T) {
	a := newTestApp(&fakeService{})
	require.Equal(t, 0, a.active)

	_, cmd := a.Update(journalPrefillMsg{prefill: TradePrefill{
		Symbol:     "AMD",
		GapType:    models.GapTypeDown,
		EntryPrice: 42.75,
		GapPercent: 4.3,
	}})
	drain(cmd)

	assert.Equal(t, a.tabIndex(a.journal), a.active)
	assert.Equal(t, journalCreate, a.journal.mode)
	assert.Equal(t, "AMD", a.journal.createInputs[createFieldSymbol].Value())
}

func TestAppEscDismissesBannerOutsideForms(t *testing.T) {
	a := newTestApp(&fakeService{})
	a.banner.Show(bannerError, "Server unavailable")
	require.NotEmpty(t, a.banner.View())

	a.Update(keyMsg("esc"))
	assert.Empty(t, a.banner.View())
}
