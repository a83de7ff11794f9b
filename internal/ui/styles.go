package ui

import (
	"github.com/charmbracelet/lipgloss"

	"gapjournal/internal/models"
)

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	badgeLongStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	badgeShortStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9"))
	badgeOpenStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12"))
	badgeClosedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("245"))
	badgeCancelledStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	badgeActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	badgeInactiveStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("245"))

	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")).Padding(0, 1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))

	formLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// pnlStyle returns the style for a nullable pnl value: positive iff > 0,
// negative iff < 0, neutral for zero or null.
func pnlStyle(pnl *float64) lipgloss.Style {
	if pnl == nil {
		return neutralStyle
	}
	switch {
	case *pnl > 0:
		return positiveStyle
	case *pnl < 0:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// valueStyle styles a plain value by sign.
func valueStyle(v float64) lipgloss.Style {
	if v >= 0 {
		return positiveStyle
	}
	return negativeStyle
}

// directionBadge renders the fixed-width side badge for a trade row.
func directionBadge(d models.TradeDirection) string {
	if d == models.DirectionShort {
		return badgeShortStyle.Render(" SHORT ")
	}
	return badgeLongStyle.Render(" LONG  ")
}

// statusBadge renders the fixed-width lifecycle badge for a trade row.
func statusBadge(s models.TradeStatus) string {
	switch s {
	case models.StatusClosed:
		return badgeClosedStyle.Render("  closed   ")
	case models.StatusCancelled:
		return badgeCancelledStyle.Render(" cancelled ")
	default:
		return badgeOpenStyle.Render("   open    ")
	}
}
