package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
)

type goalsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	bar progress.Model

	formActive bool
	form       *huh.Form

	weekly  *string
	monthly *string
	yearly  *string
}

func newGoalsModel(tr *tracker.Tracker) goalsModel {
	wk, mo, yr := "", "", ""
	return goalsModel{
		tracker: tr,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		weekly:  &wk,
		monthly: &mo,
		yearly:  &yr,
	}
}

func (g *goalsModel) setSize(w, h int) {
	g.width = w
	g.height = h
	barWidth := w - 20
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	g.bar.Width = barWidth
}

func (g goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if g.formActive && g.form != nil {
		return g.updateForm(msg)
	}
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Enter) {
		return g.showForm()
	}
	return g, nil
}

func (g goalsModel) showForm() (goalsModel, tea.Cmd) {
	cur := g.tracker.Goals()
	*g.weekly = strconv.Itoa(cur.Weekly)
	*g.monthly = strconv.Itoa(cur.Monthly)
	*g.yearly = strconv.Itoa(cur.Yearly)

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Weekly goal (hours)").Value(g.weekly),
			huh.NewInput().Title("Monthly goal (hours)").Value(g.monthly),
			huh.NewInput().Title("Yearly goal (hours)").Value(g.yearly),
		).Title("Goals"),
	).WithShowHelp(true)

	g.formActive = true
	return g, g.form.Init()
}

func (g goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			g.formActive = false
			g.form = nil
			return g, nil
		}
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	switch g.form.State {
	case huh.StateCompleted:
		g.formActive = false
		g.form = nil
		return g, g.save()
	case huh.StateAborted:
		g.formActive = false
		g.form = nil
	}
	return g, cmd
}

func (g goalsModel) save() tea.Cmd {
	var goals store.Goals
	var err error
	if goals.Weekly, err = tracker.ParseGoal(*g.weekly); err != nil {
		return nil
	}
	if goals.Monthly, err = tracker.ParseGoal(*g.monthly); err != nil {
		return nil
	}
	if goals.Yearly, err = tracker.ParseGoal(*g.yearly); err != nil {
		return nil
	}
	return resultCmd(g.tracker.UpdateGoals(goals), "Goals updated")
}

func (g goalsModel) view() string {
	w := g.width - 4
	title := titleStyle.Render("Goals")

	if g.formActive && g.form != nil {
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", g.form.View()))
	}

	goals := g.tracker.Goals()
	p := stats.GoalsProgress(g.tracker.Logs(), goals, g.tracker.Now())

	rows := []string{
		title,
		"",
		g.renderGoal("This week", p.Hours.Week, goals.Weekly, p.Weekly),
		"",
		g.renderGoal("This month", p.Hours.Month, goals.Monthly, p.Monthly),
		"",
		g.renderGoal("This year", p.Hours.Year, goals.Yearly, p.Yearly),
		"",
		mutedStyle.Render("Press enter to edit goals"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (g goalsModel) renderGoal(label string, hours float64, goal int, pct float64) string {
	head := fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Width(12).Render(label),
		highlightStyle.Render(fmt.Sprintf("%.1f / %d h", hours, goal)),
	)
	done := ""
	if pct >= 100 {
		done = successStyle.Render("  ✓ reached")
	}
	return lipgloss.JoinVertical(lipgloss.Left, head+done, g.bar.ViewAs(pct/100))
}
