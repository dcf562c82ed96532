package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
)

type dashboardModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	selected time.Time // UTC midnight

	formActive bool
	form       *huh.Form
	deleting   bool

	// Form values as pointers (survive value copies)
	hoursInput *string
	notesInput *string
	confirmed  *bool
}

func newDashboardModel(tr *tracker.Tracker) dashboardModel {
	hours, notes, ok := "", "", false
	return dashboardModel{
		tracker:    tr,
		selected:   stats.Day(tr.Now()),
		hoursInput: &hours,
		notesInput: &notes,
		confirmed:  &ok,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) selectedDate() string {
	return d.selected.Format(store.DateLayout)
}

// selectDate moves the selection to date. Malformed dates are ignored.
func (d *dashboardModel) selectDate(date string) {
	if t, err := stats.ParseDate(date); err == nil {
		d.selected = t
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Left):
			d.selected = d.selected.AddDate(0, 0, -1)
		case key.Matches(msg, keys.Right):
			d.selected = d.selected.AddDate(0, 0, 1)
		case key.Matches(msg, keys.Up):
			d.selected = d.selected.AddDate(0, 0, -7)
		case key.Matches(msg, keys.Down):
			d.selected = d.selected.AddDate(0, 0, 7)
		case key.Matches(msg, keys.PrevYear):
			d.selected = d.selected.AddDate(-1, 0, 0)
		case key.Matches(msg, keys.NextYear):
			d.selected = d.selected.AddDate(1, 0, 0)
		case key.Matches(msg, keys.Today):
			d.selected = stats.Day(d.tracker.Now())
		case key.Matches(msg, keys.Enter):
			return d.showForm()
		case key.Matches(msg, keys.Delete):
			return d.showDelete()
		}
	}
	return d, nil
}

// showForm opens the entry form for the selected day, prefilled from its record.
func (d dashboardModel) showForm() (dashboardModel, tea.Cmd) {
	*d.hoursInput, *d.notesInput = "", ""
	if l, ok := d.tracker.Entry(d.selectedDate()); ok {
		*d.hoursInput = strconv.FormatFloat(l.Hours, 'f', -1, 64)
		*d.notesInput = l.Notes
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Hours studied").Placeholder("0-24").Value(d.hoursInput),
			huh.NewText().Title("Notes").CharLimit(400).Value(d.notesInput),
		).Title("Log for " + d.selected.Format("Mon, Jan 2 2006")),
	).WithShowHelp(true)

	d.formActive = true
	d.deleting = false
	return d, d.form.Init()
}

func (d dashboardModel) showDelete() (dashboardModel, tea.Cmd) {
	if _, ok := d.tracker.Entry(d.selectedDate()); !ok {
		return d, nil
	}
	*d.confirmed = false
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete the entry for %s?", d.selectedDate())).
				Affirmative("Delete").
				Negative("Cancel").
				Value(d.confirmed),
		),
	)
	d.formActive = true
	d.deleting = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		d.formActive = false
		d.form = nil
		if d.deleting {
			return d, d.deleteEntry()
		}
		return d, d.saveEntry()
	case huh.StateAborted:
		d.formActive = false
		d.form = nil
		return d, nil
	}
	return d, cmd
}

func (d dashboardModel) saveEntry() tea.Cmd {
	hours, err := tracker.ParseHours(*d.hoursInput)
	if err != nil {
		return nil
	}
	date := d.selectedDate()
	err = d.tracker.SaveEntry(date, hours, *d.notesInput)
	return resultCmd(err, "Saved "+date)
}

func (d dashboardModel) deleteEntry() tea.Cmd {
	if !*d.confirmed {
		return nil
	}
	date := d.selectedDate()
	return resultCmd(d.tracker.DeleteEntry(date), "Deleted "+date)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	w := d.width - 4
	snap := d.tracker.Snapshot()
	today := d.tracker.Now()

	cards := d.renderCards(snap.Logs, today)
	heatmap := d.renderHeatmapPanel(snap, w)

	var bottom string
	if d.formActive && d.form != nil {
		bottom = activePanelStyle.Width(w).Render(d.form.View())
	} else {
		bottom = lipgloss.JoinVertical(lipgloss.Left,
			d.renderSelection(w),
			d.renderWeekChart(snap.Logs, today, w),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, heatmap, bottom)
}

func (d dashboardModel) renderCards(logs []store.StudyLog, today time.Time) string {
	streak := stats.Streaks(logs, today)
	cards := []string{
		statCard("Total", formatHours(stats.Total(logs))),
		statCard("Daily average", formatHours(stats.AverageDaily(logs))),
		statCard("Current streak", pluralDays(streak.Current)),
		statCard("Longest streak", pluralDays(streak.Longest)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func statCard(label, value string) string {
	return cardStyle.Width(18).Render(
		lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(label), cardValueStyle.Render(value)),
	)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func (d dashboardModel) renderHeatmapPanel(snap tracker.Snapshot, w int) string {
	year := d.selected.Year()
	cells := stats.Grid(snap.Logs, year)
	compact := w < 53*2+heatmapGutter+6

	title := titleStyle.Render(fmt.Sprintf("%d", year))
	hint := mutedStyle.Render("  ←/→ day  ↑/↓ week  [/] year  t today")
	grid := renderHeatmap(cells, snap.Preferences.HeatmapTheme, d.selected, compact)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title+hint, "", grid))
}

func (d dashboardModel) renderSelection(w int) string {
	date := d.selectedDate()
	header := titleStyle.Render(d.selected.Format("Monday, January 2 2006"))

	l, ok := d.tracker.Entry(date)
	if !ok {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No study logged. Press enter to add an entry."),
		))
	}

	line := highlightStyle.Render(formatHours(l.Hours))
	if l.Notes != "" {
		line += "  " + normalItemStyle.Render(l.Notes)
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		line,
		mutedStyle.Render("enter: edit  d: delete"),
	))
}

func (d dashboardModel) renderWeekChart(logs []store.StudyLog, today time.Time, w int) string {
	points := stats.Series(logs, today, 7)

	chartWidth := w - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chart := barchart.New(chartWidth, 8)
	chart.PushAll(seriesBars(points))
	chart.Draw()

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Last 7 days"), "", chart.View(),
	))
}

func seriesBars(points []stats.Point) []barchart.BarData {
	bars := make([]barchart.BarData, 0, len(points))
	style := lipgloss.NewStyle().Foreground(colorHighlight)
	for _, p := range points {
		bars = append(bars, barchart.BarData{
			Label:  p.Label,
			Values: []barchart.BarValue{{Name: "hours", Value: p.Hours, Style: style}},
		})
	}
	return bars
}
