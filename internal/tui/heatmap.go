package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
)

var weekdayLabels = [7]string{"", "Mon", "", "Wed", "", "Fri", ""}

const heatmapGutter = 4

// renderHeatmap draws a year of cells as seven weekday rows by week columns.
// compact uses one column per week instead of two.
func renderHeatmap(cells []stats.Cell, theme store.HeatmapTheme, selected time.Time, compact bool) string {
	colors := palette(theme)
	cw := 2
	if compact {
		cw = 1
	}

	weeks := 0
	for _, c := range cells {
		if c.Week+1 > weeks {
			weeks = c.Week + 1
		}
	}

	grid := make([][]string, 7)
	for r := range grid {
		grid[r] = make([]string, weeks)
		for w := range grid[r] {
			grid[r][w] = strings.Repeat(" ", cw)
		}
	}

	months := []rune(strings.Repeat(" ", weeks*cw))
	for _, c := range cells {
		glyph := "■"
		style := lipgloss.NewStyle().Foreground(colors[c.Level])
		if c.Date.Equal(selected) {
			glyph = "◆"
			style = style.Foreground(colorAccent).Bold(true)
		}
		grid[c.Weekday][c.Week] = style.Render(glyph) + strings.Repeat(" ", cw-1)

		if c.Date.Day() == 1 {
			label := []rune(c.Date.Format("Jan"))
			at := c.Week * cw
			if at+len(label) <= len(months) {
				copy(months[at:], label)
			}
		}
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(strings.Repeat(" ", heatmapGutter)+string(months)))
	for r := 0; r < 7; r++ {
		gutter := mutedStyle.Render(lipgloss.NewStyle().Width(heatmapGutter).Render(weekdayLabels[r]))
		rows = append(rows, gutter+strings.Join(grid[r], ""))
	}
	rows = append(rows, "", renderLegend(colors))
	return strings.Join(rows, "\n")
}

func renderLegend(colors [5]lipgloss.Color) string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(strings.Repeat(" ", heatmapGutter) + "Less "))
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("■"))
		b.WriteString(" ")
	}
	b.WriteString(mutedStyle.Render("More"))
	return b.String()
}
