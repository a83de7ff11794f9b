package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"gapjournal/internal/api"
	"gapjournal/internal/logging"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

type watchlistMode int

const (
	watchlistList watchlistMode = iota
	watchlistAdd
	watchlistEdit
	watchlistConfirmDelete
)

type watchlistLoadedMsg struct {
	items []models.WatchlistItem
	err   error
}

type watchlistMutatedMsg struct {
	action string
	msg    string
	err    error
}

const (
	watchFieldSymbol = iota
	watchFieldTarget
	watchFieldSector
	watchFieldNotes
	watchFieldCount
)

// WatchlistModel is the watchlist view: an add form, the item table and the
// edit and delete flows. The edit form is prefilled from the item struct held
// in the latest list response, never from rendered text.
type WatchlistModel struct {
	svc    Service
	banner *Banner
	logger zerolog.Logger

	mode       watchlistMode
	items      []models.WatchlistItem
	cursor     int
	loaded     bool
	activeOnly bool

	inputs   [watchFieldCount]textinput.Model
	focus    int
	editing  models.WatchlistItem
	editFlag bool // is_active value while the edit form is open

	width int
}

func NewWatchlistModel(svc Service, banner *Banner, logger zerolog.Logger) *WatchlistModel {
	m := &WatchlistModel{
		svc:        svc,
		banner:     banner,
		logger:     logging.WithView(logger, "watchlist"),
		activeOnly: true,
	}
	placeholders := [watchFieldCount]string{"AAPL", "0.00", "Technology", "optional"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 20
		m.inputs[i] = ti
	}
	return m
}

func (m *WatchlistModel) Init() tea.Cmd { return m.reload() }

func (m *WatchlistModel) Title() string { return "Watchlist" }

func (m *WatchlistModel) CapturingInput() bool { return m.mode != watchlistList }

func (m *WatchlistModel) reload() tea.Cmd {
	svc := m.svc
	activeOnly := m.activeOnly
	return func() tea.Msg {
		items, err := svc.ListWatchlist(context.Background(), activeOnly)
		return watchlistLoadedMsg{items: items, err: err}
	}
}

func (m *WatchlistModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case watchlistLoadedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("watchlist fetch failed")
			return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Could not load watchlist"))
		}
		m.items = msg.items
		m.loaded = true
		if m.cursor >= len(m.items) {
			m.cursor = len(m.items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case watchlistMutatedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("action", msg.action).Msg("watchlist mutation failed")
			// Add and edit forms keep their values so a rejected submit can
			// be corrected in place.
			if m.mode == watchlistConfirmDelete {
				m.mode = watchlistList
			}
			return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Request failed: could not reach the server"))
		}
		m.mode = watchlistList
		text := msg.msg
		if text == "" {
			text = "Watchlist updated"
		}
		return m, tea.Batch(m.banner.Show(bannerSuccess, text), m.reload())

	case tea.KeyMsg:
		switch m.mode {
		case watchlistAdd, watchlistEdit:
			return m.handleFormKey(msg)
		case watchlistConfirmDelete:
			return m.handleConfirmKey(msg)
		default:
			return m.handleListKey(msg)
		}
	}
	return m, nil
}

func (m *WatchlistModel) handleListKey(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "a", "n":
		m.mode = watchlistAdd
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		return m, m.focusField(watchFieldSymbol)
	case "e":
		if item, ok := m.selectedItem(); ok {
			return m, m.openEdit(item)
		}
	case "t":
		// Toggle active without opening the form; the other fields are
		// resubmitted unchanged from the item struct.
		if item, ok := m.selectedItem(); ok {
			return m, m.toggleActiveCmd(item)
		}
	case "x", "delete":
		if _, ok := m.selectedItem(); ok {
			m.mode = watchlistConfirmDelete
		}
	case "o":
		m.activeOnly = !m.activeOnly
		return m, m.reload()
	case "r":
		return m, m.reload()
	}
	return m, nil
}

func (m *WatchlistModel) openEdit(item models.WatchlistItem) tea.Cmd {
	m.mode = watchlistEdit
	m.editing = item
	m.editFlag = item.IsActive
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.inputs[watchFieldSymbol].SetValue(item.Symbol)
	if item.TargetPrice != nil {
		m.inputs[watchFieldTarget].SetValue(strconv.FormatFloat(*item.TargetPrice, 'f', 2, 64))
	}
	m.inputs[watchFieldSector].SetValue(item.Sector)
	m.inputs[watchFieldNotes].SetValue(item.Notes)
	return m.focusField(watchFieldTarget)
}

func (m *WatchlistModel) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *WatchlistModel) handleFormKey(msg tea.KeyMsg) (view, tea.Cmd) {
	first := watchFieldSymbol
	if m.mode == watchlistEdit {
		// Symbol is immutable once an item exists.
		first = watchFieldTarget
	}
	span := watchFieldCount - first

	switch msg.String() {
	case "esc":
		m.mode = watchlistList
		return m, nil
	case "tab", "down":
		return m, m.focusField(first + (m.focus-first+1)%span)
	case "shift+tab", "up":
		return m, m.focusField(first + (m.focus-first+span-1)%span)
	case "ctrl+a":
		if m.mode == watchlistEdit {
			m.editFlag = !m.editFlag
			return m, nil
		}
	case "enter":
		if m.mode == watchlistEdit {
			return m, m.submitEdit()
		}
		return m, m.submitAdd()
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *WatchlistModel) submitAdd() tea.Cmd {
	wc := api.WatchlistCreate{
		Symbol: strings.ToUpper(strings.TrimSpace(m.inputs[watchFieldSymbol].Value())),
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[watchFieldTarget].Value()), 64); err == nil {
		wc.TargetPrice = &v
	}
	if s := strings.TrimSpace(m.inputs[watchFieldSector].Value()); s != "" {
		wc.Sector = &s
	}
	if s := strings.TrimSpace(m.inputs[watchFieldNotes].Value()); s != "" {
		wc.Notes = &s
	}
	svc := m.svc
	return func() tea.Msg {
		_, msg, err := svc.CreateWatchlistItem(context.Background(), wc)
		return watchlistMutatedMsg{action: "add", msg: msg, err: err}
	}
}

func (m *WatchlistModel) submitEdit() tea.Cmd {
	wu := api.WatchlistUpdate{IsActive: m.editFlag}
	if v, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[watchFieldTarget].Value()), 64); err == nil {
		wu.TargetPrice = &v
	}
	if s := strings.TrimSpace(m.inputs[watchFieldSector].Value()); s != "" {
		wu.Sector = &s
	}
	if s := strings.TrimSpace(m.inputs[watchFieldNotes].Value()); s != "" {
		wu.Notes = &s
	}
	id := m.editing.ID
	svc := m.svc
	return func() tea.Msg {
		_, msg, err := svc.UpdateWatchlistItem(context.Background(), id, wu)
		return watchlistMutatedMsg{action: "update", msg: msg, err: err}
	}
}

func (m *WatchlistModel) toggleActiveCmd(item models.WatchlistItem) tea.Cmd {
	wu := api.WatchlistUpdate{
		TargetPrice: item.TargetPrice,
		IsActive:    !item.IsActive,
	}
	if item.Sector != "" {
		sector := item.Sector
		wu.Sector = &sector
	}
	if item.Notes != "" {
		notes := item.Notes
		wu.Notes = &notes
	}
	id := item.ID
	svc := m.svc
	return func() tea.Msg {
		_, msg, err := svc.UpdateWatchlistItem(context.Background(), id, wu)
		return watchlistMutatedMsg{action: "toggle", msg: msg, err: err}
	}
}

func (m *WatchlistModel) handleConfirmKey(msg tea.KeyMsg) (view, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		item, ok := m.selectedItem()
		if !ok {
			m.mode = watchlistList
			return m, nil
		}
		id := item.ID
		svc := m.svc
		return m, func() tea.Msg {
			msg, err := svc.DeleteWatchlistItem(context.Background(), id)
			return watchlistMutatedMsg{action: "delete", msg: msg, err: err}
		}
	case "n", "N", "esc":
		m.mode = watchlistList
	}
	return m, nil
}

func (m *WatchlistModel) selectedItem() (models.WatchlistItem, bool) {
	if m.cursor >= len(m.items) {
		return models.WatchlistItem{}, false
	}
	return m.items[m.cursor], true
}

func (m *WatchlistModel) View() string {
	switch m.mode {
	case watchlistAdd:
		return m.formView("Add Symbol", false)
	case watchlistEdit:
		return m.formView("Edit "+m.editing.Symbol, true)
	case watchlistConfirmDelete:
		item, _ := m.selectedItem()
		body := titleStyle.Render("Remove "+item.Symbol) + "\n\n" +
			"Remove from watchlist? (y/n)"
		return modalStyle.Render(body)
	}
	return m.listView()
}

func (m *WatchlistModel) listView() string {
	var b strings.Builder

	scope := "active only"
	if !m.activeOnly {
		scope = "all items"
	}
	b.WriteString(formLabelStyle.Render("Showing") + scope)
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(dimStyle.Render("Loading watchlist..."))
		return b.String()
	}
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("Watchlist is empty. Press a to add a symbol."))
		return b.String()
	}

	header := fmt.Sprintf("  %-8s %10s %-14s %-8s %-10s %s",
		"SYMBOL", "TARGET", "SECTOR", "STATUS", "ADDED", "NOTES")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, item := range m.items {
		badge := badgeActiveStyle.Render(" active ")
		if !item.IsActive {
			badge = badgeInactiveStyle.Render("inactive")
		}
		line := fmt.Sprintf("  %-8s %10s %-14s %s %-10s %s",
			item.Symbol,
			format.OptionalPrice(item.TargetPrice),
			format.Truncate(format.OrDash(item.Sector), 14),
			badge,
			format.Date(item.AddedDate.Time, "01/02/2006"),
			format.Truncate(format.OrDash(item.Notes), 30),
		)
		if i == m.cursor {
			line = "▸" + line[1:]
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("a add  e edit  t toggle active  x remove  o scope  r refresh"))
	return b.String()
}

func (m *WatchlistModel) formView(title string, edit bool) string {
	labels := [watchFieldCount]string{"Symbol", "Target price", "Sector", "Notes"}
	first := watchFieldSymbol
	if edit {
		first = watchFieldTarget
	}

	var rows []string
	if edit {
		rows = append(rows, "  "+formLabelStyle.Render("Symbol")+dimStyle.Render(m.editing.Symbol))
	}
	for i := first; i < watchFieldCount; i++ {
		marker := "  "
		if i == m.focus {
			marker = "▸ "
		}
		rows = append(rows, marker+formLabelStyle.Render(labels[i])+m.inputs[i].View())
	}
	if edit {
		state := "yes"
		if !m.editFlag {
			state = "no"
		}
		rows = append(rows, "  "+formLabelStyle.Render("Active")+state+dimStyle.Render("  (ctrl+a toggles)"))
	}

	body := titleStyle.Render(title) + "\n\n" +
		strings.Join(rows, "\n") + "\n\n" +
		dimStyle.Render("tab next  enter save  esc cancel")
	return modalStyle.Render(body)
}
