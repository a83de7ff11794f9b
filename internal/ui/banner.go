package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	errs "gapjournal/internal/errors"
)

type bannerLevel int

const (
	bannerInfo bannerLevel = iota
	bannerSuccess
	bannerWarning
	bannerError
)

var bannerStyles = map[bannerLevel]lipgloss.Style{
	bannerInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")).Padding(0, 1),
	bannerSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1),
	bannerWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1),
	bannerError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1),
}

// bannerDuration is how long a message stays visible before it clears
// itself. Tests shorten it.
var bannerDuration = 3 * time.Second

// bannerExpiredMsg clears the banner, but only when seq still matches the
// message that scheduled it. A newer message replaces an older one and the
// older expiry must not cut the newer one short.
type bannerExpiredMsg struct{ seq int }

// Banner is the shared transient message line. All views report through the
// same instance so only one message is visible at a time.
type Banner struct {
	msg   string
	level bannerLevel
	seq   int
}

func NewBanner() *Banner { return &Banner{} }

// Show replaces any current message and schedules its expiry.
func (b *Banner) Show(level bannerLevel, msg string) tea.Cmd {
	b.msg = msg
	b.level = level
	b.seq++
	seq := b.seq
	return tea.Tick(bannerDuration, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

// Dismiss clears the current message ahead of its timer. Bumping seq makes
// the pending expiry a no-op.
func (b *Banner) Dismiss() {
	b.msg = ""
	b.seq++
}

func (b *Banner) Update(msg tea.Msg) {
	if m, ok := msg.(bannerExpiredMsg); ok && m.seq == b.seq {
		b.msg = ""
	}
}

func (b *Banner) View() string {
	if b.msg == "" {
		return ""
	}
	return bannerStyles[b.level].Render(b.msg)
}

// errorBannerText picks the line to show for a failed request: the server's
// own message for structured rejections, a generic fallback for transport
// failures and garbled responses.
func errorBannerText(err error, fallback string) string {
	if errs.Is(err, errs.ErrServerUnavailable) || errs.Is(err, errs.ErrTimeout) || errs.Is(err, errs.ErrBadResponse) {
		return fallback
	}
	return errs.ServerMessage(err)
}
