package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"gapjournal/internal/logging"
	"gapjournal/internal/models"
	"gapjournal/pkg/format"
)

var periodCycle = []string{"7", "30", "90", "365", "all"}

// statsLoadedMsg is the single result of the three concurrent stats fetches.
// It is all or nothing: any individual failure surfaces as err and none of
// the partial payloads are applied.
type statsLoadedMsg struct {
	period    string
	summary   models.StatsSummary
	series    models.PnlSeries
	breakdown models.GapTypeBreakdown
	err       error
}

// PerformanceModel is the performance view: summary cards plus three charts
// built from the latest complete stats response. The chart handles are
// dropped and rebuilt on every successful refresh; a failed refresh keeps
// the previous ones on screen.
type PerformanceModel struct {
	svc    Service
	banner *Banner
	logger zerolog.Logger

	periodIdx int
	loading   bool
	loaded    bool

	summary   models.StatsSummary
	breakdown models.GapTypeBreakdown

	cumChart   *LineChart
	dailyChart *BarChart
	gapChart   *DonutChart

	width int
}

func NewPerformanceModel(svc Service, banner *Banner, defaultPeriodDays int, logger zerolog.Logger) *PerformanceModel {
	m := &PerformanceModel{
		svc:    svc,
		banner: banner,
		logger: logging.WithView(logger, "performance"),
		width:  80,
	}
	def := strconv.Itoa(defaultPeriodDays)
	for i, p := range periodCycle {
		if p == def {
			m.periodIdx = i
		}
	}
	return m
}

func (m *PerformanceModel) Init() tea.Cmd { return m.reload() }

func (m *PerformanceModel) Title() string { return "Performance" }

func (m *PerformanceModel) CapturingInput() bool { return false }

// reload fans the three stats endpoints out concurrently and joins them into
// one message, so the view either updates completely or not at all.
func (m *PerformanceModel) reload() tea.Cmd {
	m.loading = true
	period := periodCycle[m.periodIdx]
	svc := m.svc
	return func() tea.Msg {
		var (
			wg        sync.WaitGroup
			summary   models.StatsSummary
			series    models.PnlSeries
			breakdown models.GapTypeBreakdown
			errSum    error
			errSer    error
			errBrk    error
		)
		ctx := context.Background()
		wg.Add(3)
		go func() {
			defer wg.Done()
			summary, errSum = svc.GetSummary(ctx)
		}()
		go func() {
			defer wg.Done()
			series, errSer = svc.GetPnlSeries(ctx, period)
		}()
		go func() {
			defer wg.Done()
			breakdown, errBrk = svc.GetGapTypeBreakdown(ctx)
		}()
		wg.Wait()

		err := errSum
		if err == nil {
			err = errSer
		}
		if err == nil {
			err = errBrk
		}
		return statsLoadedMsg{
			period:    period,
			summary:   summary,
			series:    series,
			breakdown: breakdown,
			err:       err,
		}
	}
}

func (m *PerformanceModel) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("stats fetch failed")
			return m, m.banner.Show(bannerError, errorBannerText(msg.err, "Could not load performance stats"))
		}
		m.summary = msg.summary
		m.breakdown = msg.breakdown
		m.rebuildCharts(msg.series)
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periodCycle)
			return m, m.reload()
		case "r", "enter":
			return m, m.reload()
		}
	}
	return m, nil
}

// rebuildCharts drops the old handles before building replacements from the
// fresh series.
func (m *PerformanceModel) rebuildCharts(series models.PnlSeries) {
	m.cumChart = nil
	m.dailyChart = nil
	m.gapChart = nil

	m.cumChart = NewLineChart(series.Labels, series.CumulativePnl)
	m.dailyChart = NewBarChart(series.DailyPnl)
	m.gapChart = NewDonutChart(
		[]string{"gap up", "gap down"},
		[]int{m.breakdown.Count(models.GapTypeUp), m.breakdown.Count(models.GapTypeDown)},
		[]lipgloss.Style{positiveStyle, negativeStyle},
	)
}

func (m *PerformanceModel) View() string {
	var b strings.Builder

	period := periodCycle[m.periodIdx]
	if period != "all" {
		period += " days"
	}
	b.WriteString(formLabelStyle.Render("Period") + period + dimStyle.Render("  (p cycles)"))
	b.WriteString("\n\n")

	if !m.loaded {
		if m.loading {
			b.WriteString(dimStyle.Render("Loading stats..."))
		} else {
			b.WriteString(dimStyle.Render("No stats loaded. Press r to fetch."))
		}
		return b.String()
	}

	b.WriteString(m.cardsView())
	b.WriteString("\n\n")

	chartWidth := m.width - 4
	if chartWidth < 20 {
		chartWidth = 20
	}
	b.WriteString(headerStyle.Render("CUMULATIVE P&L"))
	b.WriteString("\n")
	b.WriteString(m.cumChart.View(chartWidth))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("DAILY P&L"))
	b.WriteString("\n")
	b.WriteString(m.dailyChart.View(chartWidth))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("GAP DIRECTION"))
	b.WriteString("\n")
	b.WriteString(m.gapChart.View(chartWidth))
	b.WriteString("\n\n")
	b.WriteString(m.breakdownView())
	return b.String()
}

func (m *PerformanceModel) cardsView() string {
	s := m.summary

	winRateStyle := negativeStyle
	if s.WinRate >= 50 {
		winRateStyle = positiveStyle
	}

	cards := []string{
		card("Trades", fmt.Sprintf("%d (%d open)", s.TotalTrades, s.OpenTrades), neutralStyle),
		card("Win rate", format.WinRate(s.WinRate), winRateStyle),
		card("Total P&L", format.Price(s.TotalPnl), valueStyle(s.TotalPnl)),
		card("Avg P&L", format.Price(s.AvgPnl), valueStyle(s.AvgPnl)),
		// Best is a gain and worst is a loss whenever they are nonzero.
		card("Best", format.Price(s.BestTrade), positiveStyle),
		card("Worst", format.Price(s.WorstTrade), negativeStyle),
		card("Profit factor", fmt.Sprintf("%.2f", s.ProfitFactor), neutralStyle),
		card("Streaks", fmt.Sprintf("%dW / %dL", s.MaxConsecutiveWins, s.MaxConsecutiveLosses), neutralStyle),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func card(label, value string, style lipgloss.Style) string {
	body := dimStyle.Render(label) + "\n" + style.Bold(true).Render(value)
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(body)
}

func (m *PerformanceModel) breakdownView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %7s %9s %10s %10s", "GAP TYPE", "TRADES", "WIN%", "AVG P&L", "TOTAL P&L")))
	b.WriteString("\n")
	for _, gt := range []models.GapType{models.GapTypeUp, models.GapTypeDown} {
		stats, ok := m.breakdown[gt]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%-10s %7d %9s %10s %10s",
			format.GapTypeGlyph(gt)+" "+string(gt),
			stats.Count,
			format.WinRate(stats.WinRate),
			format.Price(stats.AvgPnl),
			format.Price(stats.TotalPnl),
		)
		b.WriteString(valueStyle(stats.TotalPnl).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
