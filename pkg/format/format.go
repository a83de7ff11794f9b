// Package format holds the display formatting rules shared by the command
// output and the interactive views.
package format

import (
	"fmt"
	"strings"
	"time"

	"gapjournal/internal/models"
)

// Dash is the placeholder for absent optional values.
const Dash = "-"

// Price formats a dollar amount with two decimals. The sign, when negative,
// sits between the symbol and the digits: "$-3.10".
func Price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// SignedPrice formats a dollar amount with an explicit plus for positive
// values: "$+3.10".
func SignedPrice(v float64) string {
	if v > 0 {
		return fmt.Sprintf("$+%.2f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// Percent formats a percentage with two decimals and an explicit plus for
// positive values: "+7.25%".
func Percent(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// WinRate formats an unsigned rate with one decimal: "62.5%".
func WinRate(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// GapPercent formats a trade's gap percentage with one decimal, or a dash
// when the trade has none recorded.
func GapPercent(v *float64) string {
	if v == nil {
		return Dash
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// OptionalPrice formats a nullable dollar amount, dash when absent.
func OptionalPrice(v *float64) string {
	if v == nil {
		return Dash
	}
	return Price(*v)
}

// VolumeMillions renders share volume in millions with one decimal: "2.5M".
func VolumeMillions(volume int64) string {
	return fmt.Sprintf("%.1fM", float64(volume)/1e6)
}

// Stars renders a 1-5 setup rating as filled star glyphs, dash when unrated.
func Stars(rating *int) string {
	if rating == nil || *rating < 1 {
		return Dash
	}
	n := *rating
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n)
}

// DirectionGlyph returns the arrow for a gap direction.
func DirectionGlyph(d models.GapDirection) string {
	if d == models.GapUp {
		return "▲"
	}
	return "▼"
}

// GapTypeGlyph returns the arrow for a trade's gap type.
func GapTypeGlyph(gt models.GapType) string {
	if gt == models.GapTypeUp {
		return "▲"
	}
	return "▼"
}

// Date formats a timestamp with the configured date layout.
func Date(t time.Time, layout string) string {
	if layout == "" {
		layout = "01/02/2006"
	}
	return t.Local().Format(layout)
}

// OrDash substitutes a dash for empty optional strings.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dash
	}
	return s
}

// Pnl formats a nullable pnl value: dash when null, plain two-decimal
// dollars otherwise.
func Pnl(v *float64) string {
	if v == nil {
		return Dash
	}
	return Price(*v)
}

// Truncate shortens a string to maxLen with ellipsis.
func Truncate(s string, maxLen int) string {
	// Counted in runes so a multibyte character at the cut is never split.
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
