package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gapjournal/pkg/format"
)

// Chart handles are owned by the view that draws them. On every refresh the
// owner drops its handles and builds new ones from the fresh series, so a
// failed refresh leaves the previous charts untouched.

var chartBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// LineChart renders a cumulative series as a filled sparkline column chart
// with min and max axis labels.
type LineChart struct {
	labels []string
	values []float64
	height int
}

func NewLineChart(labels []string, values []float64) *LineChart {
	return &LineChart{labels: labels, values: values, height: 8}
}

func (c *LineChart) View(width int) string {
	if len(c.values) == 0 {
		return dimStyle.Render("no data")
	}
	min, max := c.values[0], c.values[0]
	for _, v := range c.values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	cols := sampleSeries(c.values, width)
	rows := make([]string, c.height)
	for r := 0; r < c.height; r++ {
		var sb strings.Builder
		// Row 0 is the top of the chart.
		lo := float64(c.height-1-r) / float64(c.height)
		hi := float64(c.height-r) / float64(c.height)
		for _, v := range cols {
			frac := (v - min) / span
			switch {
			case frac >= hi:
				sb.WriteRune('█')
			case frac > lo:
				part := (frac - lo) * float64(c.height)
				idx := int(part * float64(len(chartBlocks)-1))
				if idx >= len(chartBlocks) {
					idx = len(chartBlocks) - 1
				}
				sb.WriteRune(chartBlocks[idx])
			default:
				sb.WriteRune(' ')
			}
		}
		rows[r] = positiveStyle.Render(sb.String())
	}

	axis := dimStyle.Render(format.Price(max)) + "\n" +
		strings.Join(rows, "\n") + "\n" +
		dimStyle.Render(format.Price(min))
	if len(c.labels) > 0 {
		first, last := c.labels[0], c.labels[len(c.labels)-1]
		gap := width - len(first) - len(last)
		if gap < 1 {
			gap = 1
		}
		axis += "\n" + dimStyle.Render(first+strings.Repeat(" ", gap)+last)
	}
	return axis
}

// BarChart renders a daily series as one column per sampled point, green for
// gains and red for losses around a zero baseline.
type BarChart struct {
	values []float64
	height int
}

func NewBarChart(values []float64) *BarChart {
	return &BarChart{values: values, height: 8}
}

func (c *BarChart) View(width int) string {
	if len(c.values) == 0 {
		return dimStyle.Render("no data")
	}
	var maxAbs float64
	for _, v := range c.values {
		if a := abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	cols := sampleSeries(c.values, width)
	half := c.height / 2
	rows := make([]string, c.height)
	for r := 0; r < c.height; r++ {
		var sb strings.Builder
		for _, v := range cols {
			h := int(abs(v) / maxAbs * float64(half))
			if h == 0 && v != 0 {
				h = 1
			}
			var on bool
			if r < half {
				// Above the baseline, filled from the middle up.
				on = v > 0 && half-r <= h
			} else {
				on = v < 0 && r-half < h
			}
			if on {
				ch := "█"
				if v > 0 {
					sb.WriteString(positiveStyle.Render(ch))
				} else {
					sb.WriteString(negativeStyle.Render(ch))
				}
			} else if r == half {
				sb.WriteString(dimStyle.Render("─"))
			} else {
				sb.WriteString(" ")
			}
		}
		rows[r] = sb.String()
	}
	return dimStyle.Render(format.Price(maxAbs)) + "\n" +
		strings.Join(rows, "\n") + "\n" +
		dimStyle.Render(format.Price(-maxAbs))
}

// DonutChart renders a two-segment proportional bar with a legend, standing
// in for a ring chart in a character grid.
type DonutChart struct {
	labels []string
	counts []int
	styles []lipgloss.Style
}

func NewDonutChart(labels []string, counts []int, styles []lipgloss.Style) *DonutChart {
	return &DonutChart{labels: labels, counts: counts, styles: styles}
}

func (c *DonutChart) View(width int) string {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	if total == 0 {
		return dimStyle.Render("no data")
	}

	var bar strings.Builder
	used := 0
	for i, n := range c.counts {
		w := n * width / total
		if i == len(c.counts)-1 {
			w = width - used
		}
		used += w
		bar.WriteString(c.styles[i].Render(strings.Repeat("█", w)))
	}

	var legend []string
	for i, label := range c.labels {
		pct := float64(c.counts[i]) / float64(total) * 100
		legend = append(legend, c.styles[i].Render("■")+fmt.Sprintf(" %s %d (%.1f%%)", label, c.counts[i], pct))
	}
	return bar.String() + "\n" + strings.Join(legend, "  ")
}

// sampleSeries resizes a series to exactly width points by nearest-index
// sampling, so short and long periods both fill the chart area.
func sampleSeries(values []float64, width int) []float64 {
	if width < 1 {
		width = 1
	}
	out := make([]float64, width)
	for i := range out {
		idx := i * len(values) / width
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
