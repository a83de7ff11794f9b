package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"gapjournal/internal/api"
	"gapjournal/internal/logging"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

type journalMode int

const (
	journalList journalMode = iota
	journalCreate
	journalClose
	journalConfirmDelete
)

// tradesLoadedMsg carries a refreshed trade page. gen ties the response to
// the request that asked for it; stale responses are dropped so a slow old
// fetch can never overwrite a newer filter's result.
type tradesLoadedMsg struct {
	gen  int
	page models.TradePage
	err  error
}

type tradeMutatedMsg struct {
	action string
	msg    string
	err    error
}

// symbolDebounceMsg fires after the typing pause. Only the newest scheduled
// tick triggers a fetch.
type symbolDebounceMsg struct{ seq int }

var statusCycle = []string{"", "open", "closed", "cancelled"}

const (
	createFieldSymbol = iota
	createFieldDirection
	createFieldGapType
	createFieldEntryPrice
	createFieldQuantity
	createFieldGapPercent
	createFieldRating
	createFieldNotes
	createFieldCount
)

// JournalModel is the trade journal view: filter bar, trade table, and the
// create, close and delete flows. Every mutation is followed by a full list
// re-fetch; the table always mirrors the latest server response.
type JournalModel struct {
	svc      Service
	banner   *Banner
	logger   zerolog.Logger
	debounce time.Duration
	dateFmt  string

	mode   journalMode
	page   models.TradePage
	cursor int
	loaded bool

	statusIdx   int
	symbolInput textinput.Model
	filterFocus bool
	debounceSeq int
	reqGen      int

	createInputs [createFieldCount]textinput.Model
	createFocus  int
	direction    models.TradeDirection
	gapType      models.GapType

	closeInput textinput.Model
	targetID   int

	width int
}

func NewJournalModel(svc Service, banner *Banner, debounce time.Duration, dateFmt string, logger zerolog.Logger) *JournalModel {
	m := &JournalModel{
		svc:      svc,
		banner:   banner,
		logger:   logging.WithView(logger, "journal"),
		debounce: debounce,
		dateFmt:  dateFmt,
	}

	sym := textinput.New()
	sym.Placeholder = "symbol"
	sym.CharLimit = 10
	sym.Width = 12
	m.symbolInput = sym

	exit := textinput.New()
	exit.Placeholder = "0.00"
	exit.CharLimit = 12
	exit.Width = 12
	m.closeInput = exit

	placeholders := [createFieldCount]string{"AAPL", "", "", "0.00", "100", "optional", "1-5", "optional"}
	for i := range m.createInputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 20
		m.createInputs[i] = ti
	}
	return m
}

func (m *JournalModel) Init() tea.Cmd { return m.reload() }

func (m *JournalModel) Title() string { return "Journal" }

func (m *JournalModel) CapturingInput() bool {
	return m.mode != journalList || m.filterFocus
}

// reload starts a fresh list fetch under a new generation.
func (m *JournalModel) reload() tea.Cmd {
	m.reqGen++
	gen := m.reqGen
	f := api.TradeFilter{
		Status: statusCycle[m.statusIdx],
		Symbol: strings.ToUpper(strings.TrimSpace(m.symbolInput.Value())),
	}
	svc := m.svc
	return func() tea.Msg {
		page, err := svc.ListTrades(context.Background(), f)
		return tradesLoadedMsg{gen: gen, page: page, err: err}
	}
}

// ApplyPrefill opens the create form with scanner row values filled in.
func (m *JournalModel) ApplyPrefill(p TradePrefill) tea.Cmd {
	cmd := m.openCreate()
	m.createInputs[createFieldSymbol].SetValue(p.Symbol)
	m.gapType = p.GapType
	m.createInputs[createFieldEntryPrice].SetValue(strconv.FormatFloat(p.EntryPrice, 'f', 2, 64))
	m.createInputs[createFieldGapPercent].SetValue(strconv.FormatFloat(p.GapPercent, 'f', 2, 64))
	return cmd
}

func (m *JournalModel) openCreate() tea.Cmd {
	m.mode = journalCreate
	m.direction = models.DirectionLong
	m.gapType = models.GapTypeUp
	for i := range m.createInputs {
		m.createInputs[i].SetValue("")
		m.createInputs[i].Blur()
	}
	m.createFocus = createFieldSymbol
	return m.createInputs[createFieldSymbol].Focus()
}

func (m *JournalModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tradesLoadedMsg:
		if msg.gen != m.reqGen {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("trade list fetch failed")
			return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Could not load trades"))
		}
		m.page = msg.page
		m.loaded = true
		if m.cursor >= len(m.page.Trades) {
			m.cursor = len(m.page.Trades) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case symbolDebounceMsg:
		if msg.seq != m.debounceSeq {
			return m, nil
		}
		return m, m.reload()

	case tradeMutatedMsg:
		return m.handleMutated(msg)

	case tea.KeyMsg:
		switch m.mode {
		case journalCreate:
			return m.handleCreateKey(msg)
		case journalClose:
			return m.handleCloseKey(msg)
		case journalConfirmDelete:
			return m.handleConfirmKey(msg)
		default:
			return m.handleListKey(msg)
		}
	}
	return m, nil
}

func (m *JournalModel) handleMutated(msg tradeMutatedMsg) (view, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error().Err(msg.err).Str("action", msg.action).Msg("trade mutation failed")
		// The create form stays open with its values so the user can fix
		// the rejected input; close and delete drop back to the list.
		if m.mode != journalCreate {
			m.mode = journalList
		}
		return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Request failed: could not reach the server"))
	}
	m.mode = journalList
	text := msg.msg
	if text == "" {
		text = "Trade " + msg.action + "d"
	}
	return m, tea.Batch(m.banner.Show(bannerSuccess, text), m.reload())
}

func (m *JournalModel) handleListKey(msg tea.KeyMsg) (view, tea.Cmd) {
	if m.filterFocus {
		switch msg.String() {
		case "esc", "enter":
			m.symbolInput.Blur()
			m.filterFocus = false
			return m, m.reload()
		}
		var cmd tea.Cmd
		m.symbolInput, cmd = m.symbolInput.Update(msg)
		// Each keystroke reschedules the fetch; only the last tick in a
		// burst survives the seq check.
		m.debounceSeq++
		seq := m.debounceSeq
		tick := tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return symbolDebounceMsg{seq: seq}
		})
		return m, tea.Batch(cmd, tick)
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.page.Trades)-1 {
			m.cursor++
		}
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		return m, m.reload()
	case "/", "f":
		m.filterFocus = true
		return m, m.symbolInput.Focus()
	case "n", "a":
		return m, m.openCreate()
	case "c":
		if t, ok := m.selectedTrade(); ok && t.IsOpen() {
			m.mode = journalClose
			m.targetID = t.ID
			m.closeInput.SetValue("")
			return m, m.closeInput.Focus()
		}
	case "x", "delete":
		if t, ok := m.selectedTrade(); ok {
			m.mode = journalConfirmDelete
			m.targetID = t.ID
		}
	case "r":
		return m, m.reload()
	}
	return m, nil
}

func (m *JournalModel) handleCreateKey(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = journalList
		return m, nil
	case "tab", "down":
		return m, m.focusCreate((m.createFocus + 1) % createFieldCount)
	case "shift+tab", "up":
		return m, m.focusCreate((m.createFocus + createFieldCount - 1) % createFieldCount)
	case "left", "right":
		switch m.createFocus {
		case createFieldDirection:
			if m.direction == models.DirectionLong {
				m.direction = models.DirectionShort
			} else {
				m.direction = models.DirectionLong
			}
			return m, nil
		case createFieldGapType:
			if m.gapType == models.GapTypeUp {
				m.gapType = models.GapTypeDown
			} else {
				m.gapType = models.GapTypeUp
			}
			return m, nil
		}
	case "enter":
		return m, m.submitCreate()
	}
	var cmd tea.Cmd
	m.createInputs[m.createFocus], cmd = m.createInputs[m.createFocus].Update(msg)
	return m, cmd
}

func (m *JournalModel) focusCreate(i int) tea.Cmd {
	m.createInputs[m.createFocus].Blur()
	m.createFocus = i
	if i == createFieldDirection || i == createFieldGapType {
		return nil
	}
	return m.createInputs[i].Focus()
}

// submitCreate builds the request body from the form. Malformed numeric text
// in required fields is sent as zero and left for the server to reject; the
// optional fields go out as null instead.
func (m *JournalModel) submitCreate() tea.Cmd {
	tc := api.TradeCreate{
		Symbol:     strings.ToUpper(strings.TrimSpace(m.createInputs[createFieldSymbol].Value())),
		Direction:  m.direction,
		GapType:    m.gapType,
		EntryPrice: parseFloatOr(m.createInputs[createFieldEntryPrice].Value(), 0),
		Quantity:   parseIntOr(m.createInputs[createFieldQuantity].Value(), 0),
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(m.createInputs[createFieldGapPercent].Value()), 64); err == nil {
		tc.GapPercent = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(m.createInputs[createFieldRating].Value())); err == nil {
		tc.SetupRating = &v
	}
	if notes := strings.TrimSpace(m.createInputs[createFieldNotes].Value()); notes != "" {
		tc.Notes = &notes
	}
	svc := m.svc
	return func() tea.Msg {
		_, msg, err := svc.CreateTrade(context.Background(), tc)
		return tradeMutatedMsg{action: "create", msg: msg, err: err}
	}
}

func (m *JournalModel) handleCloseKey(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = journalList
		return m, nil
	case "enter":
		price, err := strconv.ParseFloat(strings.TrimSpace(m.closeInput.Value()), 64)
		if err != nil || price <= 0 {
			// Local precondition: nothing is sent for a non-positive price.
			return m, m.banner.Show(bannerError, "Exit price must be greater than zero")
		}
		id := m.targetID
		svc := m.svc
		m.mode = journalList
		return m, func() tea.Msg {
			_, msg, err := svc.CloseTrade(context.Background(), id, price)
			return tradeMutatedMsg{action: "close", msg: msg, err: err}
		}
	}
	var cmd tea.Cmd
	m.closeInput, cmd = m.closeInput.Update(msg)
	return m, cmd
}

func (m *JournalModel) handleConfirmKey(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.targetID
		svc := m.svc
		m.mode = journalList
		return m, func() tea.Msg {
			msg, err := svc.DeleteTrade(context.Background(), id)
			return tradeMutatedMsg{action: "delete", msg: msg, err: err}
		}
	case "n", "N", "esc":
		m.mode = journalList
	}
	return m, nil
}

func (m *JournalModel) selectedTrade() (models.Trade, bool) {
	if m.cursor >= len(m.page.Trades) {
		return models.Trade{}, false
	}
	return m.page.Trades[m.cursor], true
}

func (m *JournalModel) View() string {
	switch m.mode {
	case journalCreate:
		return m.createView()
	case journalClose:
		return m.closeView()
	case journalConfirmDelete:
		return m.confirmView()
	}
	return m.listView()
}

func (m *JournalModel) listView() string {
	var b strings.Builder

	status := statusCycle[m.statusIdx]
	if status == "" {
		status = "all"
	}
	b.WriteString(formLabelStyle.Render("Status") + status)
	b.WriteString("   " + formLabelStyle.Render("Symbol") + m.symbolInput.View())
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("Loading trades..."))
		return b.String()
	}
	if len(m.page.Trades) == 0 {
		b.WriteString(dimStyle.Render("No trades recorded. Press n to add one."))
		return b.String()
	}

	header := fmt.Sprintf("  %-8s %-7s %-11s %-9s %10s %10s %6s %10s %9s %-6s %-9s",
		"SYMBOL", "DIR", "STATUS", "GAP", "ENTRY", "EXIT", "QTY", "P&L", "P&L%", "STARS", "DATE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, t := range m.page.Trades {
		gapCell := format.GapTypeGlyph(t.GapType) + fmt.Sprintf(" %-7s", format.GapPercent(t.GapPercent))
		pnlCell := pnlStyle(t.Pnl).Render(fmt.Sprintf("%10s", format.Pnl(t.Pnl)))
		pctCell := pnlStyle(t.PnlPercent).Render(fmt.Sprintf("%9s", pnlPercentCell(t.PnlPercent)))
		line := fmt.Sprintf("  %-8s %s %s %s %10s %10s %6d %s %s %-6s %-9s",
			t.Symbol,
			directionBadge(t.Direction),
			statusBadge(t.Status),
			gapCell,
			format.Price(t.EntryPrice),
			format.OptionalPrice(t.ExitPrice),
			t.Quantity,
			pnlCell,
			pctCell,
			format.Stars(t.SetupRating),
			format.Date(t.EntryDate.Time, m.dateFmt),
		)
		if i == m.cursor {
			line = "▸" + line[1:]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d trades", len(m.page.Trades), m.page.Total)))
	b.WriteString("\n")
	hints := "n new  x delete  s status  / symbol  r refresh"
	if t, ok := m.selectedTrade(); ok && t.IsOpen() {
		hints = "n new  c close  x delete  s status  / symbol  r refresh"
	}
	b.WriteString(dimStyle.Render(hints))
	return b.String()
}

func (m *JournalModel) createView() string {
	labels := [createFieldCount]string{
		"Symbol", "Direction", "Gap type", "Entry price", "Quantity",
		"Gap %", "Rating", "Notes",
	}
	var rows []string
	for i := range m.createInputs {
		var value string
		switch i {
		case createFieldDirection:
			value = string(m.direction)
		case createFieldGapType:
			value = string(m.gapType)
		default:
			value = m.createInputs[i].View()
		}
		marker := "  "
		if i == m.createFocus {
			marker = "▸ "
		}
		rows = append(rows, marker+formLabelStyle.Render(labels[i])+value)
	}
	body := titleStyle.Render("New Trade") + "\n\n" +
		strings.Join(rows, "\n") + "\n\n" +
		dimStyle.Render("tab next  ←/→ toggle  enter save  esc cancel")
	return modalStyle.Render(body)
}

func (m *JournalModel) closeView() string {
	body := titleStyle.Render(fmt.Sprintf("Close Trade #%d", m.targetID)) + "\n\n" +
		formLabelStyle.Render("Exit price") + m.closeInput.View() + "\n\n" +
		dimStyle.Render("enter close  esc cancel")
	return modalStyle.Render(body)
}

func (m *JournalModel) confirmView() string {
	body := titleStyle.Render(fmt.Sprintf("Delete Trade #%d", m.targetID)) + "\n\n" +
		"This cannot be undone. Delete? (y/n)"
	return modalStyle.Render(body)
}

func pnlPercentCell(v *float64) string {
	if v == nil {
		return format.Dash
	}
	return format.Percent(*v)
}

func parseIntOr(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}
