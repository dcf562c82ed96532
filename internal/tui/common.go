package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focusflow/internal/insights"
	"github.com/sadopc/focusflow/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewStatistics
	viewGoals
	viewTimer
	viewInsights
	viewSettings
)

var viewNames = []string{"Dashboard", "Statistics", "Goals", "Timer", "Insights", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// editDateMsg opens the dashboard entry form for a date.
type editDateMsg struct {
	date string
}

type exportDoneMsg struct {
	path string
}

type insightsResultMsg struct {
	seq      int
	analysis insights.Analysis
	err      error
}

// dialSettleMsg ends a dial scroll if no newer scroll happened since.
type dialSettleMsg struct {
	seq int
}

// --- Helpers ---

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func statusErr(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
}

// resultCmd reports a tracker error. Rejected input is dropped without a
// message.
func resultCmd(err error, ok string) tea.Cmd {
	switch {
	case err == nil:
		if ok == "" {
			return nil
		}
		return status(ok)
	case errors.Is(err, tracker.ErrInvalidInput):
		return nil
	default:
		return statusErr(err)
	}
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatClock is MM:SS below an hour and H:MM:SS above.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}
