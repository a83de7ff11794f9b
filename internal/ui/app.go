package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"gapjournal/internal/config"
)

// view is what every tab implements. Update returns the (possibly same)
// view so models can keep pointer receivers.
type view interface {
	Init() tea.Cmd
	Update(tea.Msg) (view, tea.Cmd)
	View() string
	Title() string
	// CapturingInput reports whether the view currently owns plain
	// keystrokes; while true the app suppresses tab shortcuts.
	CapturingInput() bool
}

// App is the root model: a tab bar, the active view, and the shared banner.
type App struct {
	views  []view
	active int
	banner *Banner
	logger zerolog.Logger

	journal *JournalModel

	width  int
	height int
}

// NewApp builds the four tabs against a shared backend service.
func NewApp(svc Service, cfg *config.Config, logger zerolog.Logger) *App {
	banner := NewBanner()
	journal := NewJournalModel(svc, banner, cfg.UI.Debounce(), cfg.UI.DateFormat, logger)
	return &App{
		views: []view{
			NewScannerModel(svc, banner, cfg.UI.DefaultMinGap, logger),
			journal,
			NewWatchlistModel(svc, banner, logger),
			NewPerformanceModel(svc, banner, cfg.UI.DefaultPeriodDays, logger),
		},
		journal: journal,
		banner:  banner,
		logger:  logger,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.views))
	for _, v := range a.views {
		if cmd := v.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Every view needs the size, not just the visible one.
		var cmds []tea.Cmd
		for i, v := range a.views {
			nv, cmd := v.Update(msg)
			a.views[i] = nv
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return a, tea.Batch(cmds...)

	case bannerExpiredMsg:
		a.banner.Update(msg)
		return a, nil

	case journalPrefillMsg:
		// Scanner handoff: switch to the journal tab with the create form
		// pre-populated from the selected row.
		a.active = a.tabIndex(a.journal)
		return a, a.journal.ApplyPrefill(msg.prefill)

	case tea.KeyMsg:
		if !a.views[a.active].CapturingInput() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "esc":
				if a.banner.msg != "" {
					a.banner.Dismiss()
					return a, nil
				}
			case "1", "2", "3", "4":
				idx := int(msg.String()[0] - '1')
				if idx != a.active && idx < len(a.views) {
					a.active = idx
				}
				return a, nil
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		nv, cmd := a.views[a.active].Update(msg)
		a.views[a.active] = nv
		return a, cmd
	}

	// Everything else (fetch results, ticks) is routed to all views; each
	// model ignores messages it did not ask for.
	var cmds []tea.Cmd
	for i, v := range a.views {
		nv, cmd := v.Update(msg)
		a.views[i] = nv
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *App) tabIndex(target view) int {
	for i, v := range a.views {
		if v == target {
			return i
		}
	}
	return a.active
}

func (a *App) View() string {
	var tabs []string
	for i, v := range a.views {
		label := v.Title()
		if i == a.active {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var b strings.Builder
	b.WriteString(bar)
	b.WriteString("\n")
	if banner := a.banner.View(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(a.views[a.active].View())
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(" 1-4 switch view  q quit "))
	return b.String()
}
