package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
)

// statsChartDays is how many days the statistics chart covers per range.
var statsChartDays = map[stats.Range]int{
	stats.Range7Days:  7,
	stats.Range30Days: 30,
	stats.RangeYear:   30,
	stats.RangeAll:    30,
}

type chartMode int

const (
	chartBar chartMode = iota
	chartLine
)

func (m chartMode) String() string {
	if m == chartLine {
		return "line"
	}
	return "bar"
}

type statisticsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	rng    stats.Range
	sortBy stats.SortField
	desc   bool
	chart  chartMode
	cursor int
	offset int
}

func newStatisticsModel(tr *tracker.Tracker) statisticsModel {
	return statisticsModel{
		tracker: tr,
		rng:     stats.Range30Days,
		sortBy:  stats.SortByDate,
		desc:    true,
	}
}

func (s *statisticsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

// rows returns the filtered and sorted records the table shows.
func (s statisticsModel) rows() []store.StudyLog {
	filtered := stats.Filter(s.tracker.Logs(), s.rng, s.tracker.Now())
	return stats.Sorted(filtered, s.sortBy, s.desc)
}

func (s statisticsModel) tableHeight() int {
	h := s.height - 26
	if h < 5 {
		h = 5
	}
	return h
}

func (s statisticsModel) update(msg tea.Msg) (statisticsModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	rows := s.rows()

	switch {
	case key.Matches(km, keys.Range):
		s.rng = nextRange(s.rng)
		s.cursor, s.offset = 0, 0
	case key.Matches(km, keys.Sort):
		if s.sortBy == stats.SortByDate {
			s.sortBy = stats.SortByHours
		} else {
			s.sortBy = stats.SortByDate
		}
		s.cursor, s.offset = 0, 0
	case key.Matches(km, keys.Order):
		s.desc = !s.desc
		s.cursor, s.offset = 0, 0
	case key.Matches(km, keys.Chart):
		if s.chart == chartBar {
			s.chart = chartLine
		} else {
			s.chart = chartBar
		}
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(rows)-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Enter):
		if s.cursor < len(rows) {
			date := rows[s.cursor].Date
			return s, func() tea.Msg { return editDateMsg{date: date} }
		}
	}

	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.tableHeight() {
		s.offset = s.cursor - s.tableHeight() + 1
	}
	return s, nil
}

func nextRange(r stats.Range) stats.Range {
	for i, x := range stats.Ranges {
		if x == r {
			return stats.Ranges[(i+1)%len(stats.Ranges)]
		}
	}
	return stats.RangeAll
}

func (s statisticsModel) view() string {
	w := s.width - 4
	rows := s.rows()
	sum := stats.Summarize(rows)

	var tabs []string
	for _, r := range stats.Ranges {
		if r == s.rng {
			tabs = append(tabs, activeTabStyle.Render(r.Label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(r.Label()))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Statistics"), "  ", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...),
	)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total", formatHours(sum.Total)),
		statCard("Average", formatHours(sum.Average)),
		statCard("Weekday avg", formatHours(sum.Weekday)),
		statCard("Weekend avg", formatHours(sum.Weekend)),
	)

	chart := s.renderChart(w)
	table := s.renderTable(rows, w)

	order := "asc"
	if s.desc {
		order = "desc"
	}
	sortName := "date"
	if s.sortBy == stats.SortByHours {
		sortName = "hours"
	}
	nav := mutedStyle.Render(fmt.Sprintf("  f: range  s: sort (%s)  o: order (%s)  g: chart (%s)  enter: edit", sortName, order, s.chart))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", cards, "", chart, "", table, "", nav),
	)
}

func (s statisticsModel) renderChart(w int) string {
	n := statsChartDays[s.rng]
	points := stats.Series(s.tracker.Logs(), s.tracker.Now(), n)

	chartWidth := w - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	label := mutedStyle.Render(fmt.Sprintf("Last %d days", n))

	if s.chart == chartLine {
		line := streamlinechart.New(chartWidth, 8)
		for _, p := range points {
			line.Push(p.Hours)
		}
		line.Draw()
		return lipgloss.JoinVertical(lipgloss.Left, label, line.View())
	}

	chart := barchart.New(chartWidth, 8)
	chart.PushAll(seriesBars(points))
	chart.Draw()
	return lipgloss.JoinVertical(lipgloss.Left, label, chart.View())
}

func (s statisticsModel) renderTable(rows []store.StudyLog, w int) string {
	if len(rows) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var out []string
	out = append(out, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %7s  %s", "Date", "Day", "Hours", "Notes")))
	out = append(out, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 60))))

	end := min(s.offset+s.tableHeight(), len(rows))
	for i := s.offset; i < end; i++ {
		l := rows[i]
		day := ""
		if d, err := time.Parse(store.DateLayout, l.Date); err == nil {
			day = d.Format("Mon")
		}
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		notes := l.Notes
		if limit := w - 40; limit > 3 && len(notes) > limit {
			notes = notes[:limit-3] + "..."
		}
		out = append(out, style.Render(fmt.Sprintf("%s%-12s %-10s %7.1f  %s", cursor, l.Date, day, l.Hours, notes)))
	}
	if len(rows) > end-s.offset {
		out = append(out, mutedStyle.Render(fmt.Sprintf("  %d of %d", s.cursor+1, len(rows))))
	}
	return strings.Join(out, "\n")
}
