package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/export"
	"github.com/sadopc/focusflow/internal/insights"
	"github.com/sadopc/focusflow/internal/session"
	"github.com/sadopc/focusflow/internal/tracker"
)

// Options wires the app to its collaborators.
type Options struct {
	Tracker         *tracker.Tracker
	Engine          *session.Engine
	Analyzer        insights.Analyzer
	InsightsTimeout time.Duration
	Logger          *slog.Logger
	// ExportDir is where the export picker writes files. Defaults to $HOME.
	ExportDir       string
}

// App is the root Bubble Tea model.
type App struct {
	tracker   *tracker.Tracker
	engine    *session.Engine
	logger    *slog.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard  dashboardModel
	statistics statisticsModel
	goals      goalsModel
	timer      timerModel
	insights   insightsModel
	settings   settingsModel

	help   help.Model
	status string
}

func NewApp(o Options) App {
	h := help.New()
	h.ShowAll = false

	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Engine == nil {
		o.Engine = session.New(session.WithLogger(o.Logger))
	}
	if o.InsightsTimeout <= 0 {
		o.InsightsTimeout = insights.DefaultTimeout
	}
	if o.Analyzer == nil {
		o.Analyzer = insights.NewGemini("", "", "", o.InsightsTimeout)
	}
	if o.ExportDir == "" {
		o.ExportDir, _ = os.UserHomeDir()
	}
	o.Engine.SetSoundEnabled(o.Tracker.Preferences().SoundEnabled)

	return App{
		tracker:    o.Tracker,
		engine:     o.Engine,
		logger:     o.Logger,
		exportDir:  o.ExportDir,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(o.Tracker),
		statistics: newStatisticsModel(o.Tracker),
		goals:      newGoalsModel(o.Tracker),
		timer:      newTimerModel(o.Engine, o.Tracker),
		insights:   newInsightsModel(o.Tracker, o.Analyzer, o.InsightsTimeout, o.Logger),
		settings:   newSettingsModel(o.Tracker),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.statistics.setSize(a.width, contentHeight)
		a.goals.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.insights.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStatistics
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewGoals
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewInsights
			return a, nil
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	// The session keeps running whichever view is active.
	case session.TickMsg, dialSettleMsg:
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case insightsResultMsg, spinner.TickMsg:
		a.insights, cmd = a.insights.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.logger.Error("ui error", "msg", msg.text)
		}
		return a, nil

	case prefsChangedMsg:
		a.engine.SetSoundEnabled(msg.prefs.SoundEnabled)
		return a, nil

	case editDateMsg:
		a.activeView = viewDashboard
		a.dashboard.selectDate(msg.date)
		a.dashboard, cmd = a.dashboard.showForm()
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewStatistics:
		a.statistics, cmd = a.statistics.update(msg)
	case viewGoals:
		a.goals, cmd = a.goals.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewInsights:
		a.insights, cmd = a.insights.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewGoals:
		return a.goals.formActive
	case viewTimer:
		return a.timer.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewStatistics:
		content = a.statistics.view()
	case viewGoals:
		content = a.goals.view()
	case viewTimer:
		content = a.timer.view()
	case viewInsights:
		content = a.insights.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusflow")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Session indicator in footer
	timerInfo := ""
	switch {
	case a.engine.Running():
		timerInfo = successStyle.Render(" ● " + formatClock(a.engine.Display()))
	case a.engine.Paused():
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(a.engine.Display()))
	case a.engine.Completed():
		timerInfo = successStyle.Render(" ✓ done")
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	logs := a.tracker.Logs()
	dir := a.exportDir
	dateStr := a.tracker.Today()
	return func() tea.Msg {
		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("focusflow-export-%s.csv", dateStr))
			if err := export.ToCSV(logs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("focusflow-export-%s.json", dateStr))
			if err := export.ToJSON(logs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}
