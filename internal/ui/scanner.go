package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"gapjournal/internal/api"
	errs "gapjournal/internal/errors"
	"gapjournal/internal/logging"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

// scanPanel is which of the three result panels is showing. Exactly one is
// visible at any time.
type scanPanel int

const (
	scanPanelEmpty scanPanel = iota
	scanPanelLoading
	scanPanelResults
)

type scanLoadedMsg struct {
	result models.ScanResult
	err    error
}

type watchAddedMsg struct {
	symbol string
	msg    string
	err    error
}

// journalPrefillMsg asks the app to switch to the journal view with the
// create form pre-populated from a scanner row.
type journalPrefillMsg struct {
	prefill TradePrefill
}

// TradePrefill carries scanner row values into the journal create form.
// The form reads these structs directly; nothing round-trips through
// rendered text.
type TradePrefill struct {
	Symbol     string
	GapType    models.GapType
	EntryPrice float64
	GapPercent float64
}

const (
	scanFieldMinGap = iota
	scanFieldSymbols
	scanFieldDate
	scanFieldCount
)

// ScannerModel is the gap scanner view: filters on top, one of three panels
// below (hint, spinner, results).
type ScannerModel struct {
	svc    Service
	banner *Banner
	logger zerolog.Logger

	inputs    [scanFieldCount]textinput.Model
	direction string // "", "up", "down"
	focus     int    // -1 browses results, otherwise a filter field
	spinner   spinner.Model

	panel   scanPanel
	result  models.ScanResult
	cursor  int
	scanned bool // at least one scan has completed

	width int
}

func NewScannerModel(svc Service, banner *Banner, defaultMinGap float64, logger zerolog.Logger) *ScannerModel {
	m := &ScannerModel{
		svc:     svc,
		banner:  banner,
		logger:  logging.WithView(logger, "scanner"),
		focus:   -1,
		panel:   scanPanelEmpty,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	minGap := textinput.New()
	minGap.Placeholder = fmt.Sprintf("%.1f", defaultMinGap)
	minGap.SetValue(strconv.FormatFloat(defaultMinGap, 'f', -1, 64))
	minGap.CharLimit = 6
	minGap.Width = 8
	m.inputs[scanFieldMinGap] = minGap

	symbols := textinput.New()
	symbols.Placeholder = "AAPL,TSLA"
	symbols.CharLimit = 120
	symbols.Width = 24
	m.inputs[scanFieldSymbols] = symbols

	date := textinput.New()
	date.Placeholder = "2025-01-15"
	date.CharLimit = 10
	date.Width = 12
	m.inputs[scanFieldDate] = date

	return m
}

func (m *ScannerModel) Init() tea.Cmd { return nil }

func (m *ScannerModel) Title() string { return "Scanner" }

// CapturingInput reports whether keystrokes belong to a filter field, in
// which case the app must not treat them as shortcuts.
func (m *ScannerModel) CapturingInput() bool { return m.focus >= 0 }

func (m *ScannerModel) scanCmd() tea.Cmd {
	q := api.ScanQuery{
		MinGap:    parseFloatOr(m.inputs[scanFieldMinGap].Value(), 3.0),
		Direction: m.direction,
		Symbols:   strings.TrimSpace(m.inputs[scanFieldSymbols].Value()),
		Date:      strings.TrimSpace(m.inputs[scanFieldDate].Value()),
	}
	svc := m.svc
	return func() tea.Msg {
		result, err := svc.ScanGaps(context.Background(), q)
		return scanLoadedMsg{result: result, err: err}
	}
}

func (m *ScannerModel) watchCmd(row models.GapResult) tea.Cmd {
	svc := m.svc
	wc := api.WatchlistCreate{Symbol: row.Symbol}
	if row.Sector != "" {
		sector := row.Sector
		wc.Sector = &sector
	}
	return func() tea.Msg {
		_, msg, err := svc.CreateWatchlistItem(context.Background(), wc)
		return watchAddedMsg{symbol: row.Symbol, msg: msg, err: err}
	}
}

func (m *ScannerModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.panel != scanPanelLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanLoadedMsg:
		if msg.err != nil {
			// Loading ends either way; on failure the panel falls back to
			// the empty state rather than showing stale rows.
			m.panel = scanPanelEmpty
			m.logger.Error().Err(msg.err).Msg("scan failed")
			return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Scan failed: could not reach the server"))
		}
		m.result = msg.result
		m.scanned = true
		m.cursor = 0
		if len(msg.result.Gaps) == 0 {
			m.panel = scanPanelEmpty
		} else {
			m.panel = scanPanelResults
		}
		return m, nil

	case watchAddedMsg:
		if msg.err != nil {
			level := bannerError
			if errs.IsClientError(msg.err) {
				// Duplicates and similar rejections are advisory here, the
				// scan rows are unaffected.
				level = bannerWarning
			}
			return m, m.banner.Show(level, errs.ServerMessage(msg.err))
		}
		text := msg.msg
		if text == "" {
			text = fmt.Sprintf("%s added to watchlist", msg.symbol)
		}
		return m, m.banner.Show(bannerSuccess, text)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ScannerModel) handleKey(msg tea.KeyMsg) (view, tea.Cmd) {
	if m.focus >= 0 {
		switch msg.String() {
		case "esc":
			m.inputs[m.focus].Blur()
			m.focus = -1
			return m, nil
		case "tab":
			return m, m.focusField((m.focus + 1) % scanFieldCount)
		case "shift+tab":
			return m, m.focusField((m.focus + scanFieldCount - 1) % scanFieldCount)
		case "enter":
			m.inputs[m.focus].Blur()
			m.focus = -1
			return m, m.startScan()
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "f", "/":
		return m, m.focusField(scanFieldMinGap)
	case "d":
		m.cycleDirection()
		return m, nil
	case "enter", "r":
		return m, m.startScan()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.result.Gaps)-1 {
			m.cursor++
		}
	case "w":
		if row, ok := m.selectedRow(); ok {
			return m, m.watchCmd(row)
		}
	case "t":
		if row, ok := m.selectedRow(); ok {
			return m, func() tea.Msg {
				return journalPrefillMsg{prefill: TradePrefill{
					Symbol:     row.Symbol,
					GapType:    models.GapType("gap_" + string(row.Direction)),
					EntryPrice: row.Current,
					GapPercent: row.GapPercent,
				}}
			}
		}
	}
	return m, nil
}

func (m *ScannerModel) startScan() tea.Cmd {
	m.panel = scanPanelLoading
	return tea.Batch(m.spinner.Tick, m.scanCmd())
}

func (m *ScannerModel) focusField(i int) tea.Cmd {
	if m.focus >= 0 {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *ScannerModel) cycleDirection() {
	switch m.direction {
	case "":
		m.direction = "up"
	case "up":
		m.direction = "down"
	default:
		m.direction = ""
	}
}

func (m *ScannerModel) selectedRow() (models.GapResult, bool) {
	if m.panel != scanPanelResults || m.cursor >= len(m.result.Gaps) {
		return models.GapResult{}, false
	}
	return m.result.Gaps[m.cursor], true
}

func (m *ScannerModel) View() string {
	var b strings.Builder
	b.WriteString(m.filterBar())
	b.WriteString("\n\n")

	switch m.panel {
	case scanPanelLoading:
		b.WriteString(m.spinner.View() + " Scanning for gaps...")
	case scanPanelResults:
		b.WriteString(m.resultsTable())
	default:
		if m.scanned {
			b.WriteString(dimStyle.Render("No gaps found matching the filters."))
		} else {
			b.WriteString(dimStyle.Render("Press enter to scan. f edits filters, d cycles direction."))
		}
	}
	return b.String()
}

func (m *ScannerModel) filterBar() string {
	dir := "all"
	if m.direction != "" {
		dir = m.direction
	}
	parts := []string{
		formLabelStyle.Render("Min gap %") + m.inputs[scanFieldMinGap].View(),
		formLabelStyle.Render("Symbols") + m.inputs[scanFieldSymbols].View(),
		formLabelStyle.Render("Date") + m.inputs[scanFieldDate].View(),
		formLabelStyle.Render("Direction") + dir,
	}
	return strings.Join(parts, "\n")
}

func (m *ScannerModel) resultsTable() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d gaps found", m.result.TotalFound)))
	if m.result.ScanDate != "" {
		b.WriteString(dimStyle.Render("  " + m.result.ScanDate))
	}
	b.WriteString("\n")

	header := fmt.Sprintf("  %-8s %-4s %9s %9s %10s %10s %10s %8s %-14s",
		"SYMBOL", "DIR", "GAP%", "GAP$", "PREV", "OPEN", "CURRENT", "VOL", "SECTOR")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, g := range m.result.Gaps {
		glyph := format.DirectionGlyph(g.Direction)
		line := fmt.Sprintf("  %-8s %-4s %9s %9s %10s %10s %10s %8s %-14s",
			g.Symbol,
			glyph,
			format.Percent(signedGap(g)),
			format.SignedPrice(signedAmount(g)),
			format.Price(g.PrevClose),
			format.Price(g.Open),
			format.Price(g.Current),
			format.VolumeMillions(g.Volume),
			format.Truncate(g.Sector, 14),
		)
		style := valueStyle(signedGap(g))
		if i == m.cursor {
			line = "▸" + line[1:]
			b.WriteString(selectedStyle.Render(style.Render(line)))
		} else {
			b.WriteString(style.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("w watch  t trade  enter rescan"))
	return b.String()
}

// signedGap returns the gap percent with the sign implied by direction. The
// server reports magnitudes; down gaps render negative.
func signedGap(g models.GapResult) float64 {
	if g.Direction == models.GapDown {
		return -abs(g.GapPercent)
	}
	return abs(g.GapPercent)
}

func signedAmount(g models.GapResult) float64 {
	if g.Direction == models.GapDown {
		return -abs(g.GapAmount)
	}
	return abs(g.GapAmount)
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}
