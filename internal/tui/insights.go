package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/insights"
	"github.com/sadopc/focusflow/internal/tracker"
)

type insightsModel struct {
	tracker  *tracker.Tracker
	analyzer insights.Analyzer
	timeout  time.Duration
	logger   *slog.Logger
	width    int
	height   int

	spinner  spinner.Model
	seq      insights.Sequence
	loading  bool
	analysis *insights.Analysis
	err      error
}

func newInsightsModel(tr *tracker.Tracker, a insights.Analyzer, timeout time.Duration, logger *slog.Logger) insightsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return insightsModel{
		tracker:  tr,
		analyzer: a,
		timeout:  timeout,
		logger:   logger,
		spinner:  sp,
	}
}

func (m *insightsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m insightsModel) update(msg tea.Msg) (insightsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case insightsResultMsg:
		if !m.seq.Latest(msg.seq) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.logger.Warn("insights failed", "err", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		a := msg.analysis
		m.analysis = &a
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Analyze), key.Matches(msg, keys.Enter):
			return m.request()
		case key.Matches(msg, keys.Back):
			m.err = nil
		}
	}
	return m, nil
}

// request starts an analysis of the current logs. A newer request supersedes
// any still in flight.
func (m insightsModel) request() (insightsModel, tea.Cmd) {
	seq := m.seq.Next()
	m.loading = true
	m.err = nil

	logs := m.tracker.Logs()
	analyzer, timeout := m.analyzer, m.timeout
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := analyzer.Analyze(ctx, logs)
		return insightsResultMsg{seq: seq, analysis: a, err: err}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

func (m insightsModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("AI Insights")

	var body []string
	switch {
	case m.loading:
		body = append(body, m.spinner.View()+" "+mutedStyle.Render("Analyzing your study habits..."))
	case m.err != nil:
		body = append(body,
			errorStyle.Render("Unable to generate insights right now."),
			mutedStyle.Render(m.err.Error()),
			"",
			mutedStyle.Render("a: try again  esc: dismiss"),
		)
	case m.analysis == nil:
		body = append(body,
			mutedStyle.Render("Get feedback on the last 90 days of study."),
			"",
			mutedStyle.Render("Press a to analyze"),
		)
	default:
		body = append(body, m.renderAnalysis(w)...)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, body...)...))
}

func (m insightsModel) renderAnalysis(w int) []string {
	a := m.analysis
	wrap := lipgloss.NewStyle().Width(w - 6)

	out := []string{wrap.Render(a.Summary), ""}
	out = append(out, successStyle.Bold(true).Render("Strengths"))
	for _, s := range a.Strengths {
		out = append(out, wrap.Render("  + "+s))
	}
	out = append(out, "", warningStyle.Bold(true).Render("To improve"))
	for _, s := range a.Improvements {
		out = append(out, wrap.Render("  - "+s))
	}
	if strings.TrimSpace(a.Tip) != "" {
		out = append(out, "", highlightStyle.Bold(true).Render("Tip"), wrap.Render("  "+a.Tip))
	}
	out = append(out, "", mutedStyle.Render("a: analyze again"))
	return out
}
