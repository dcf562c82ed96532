package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/focusflow/internal/session"
	"github.com/sadopc/focusflow/internal/tracker"
)

// dialSettleDelay is how long the dial waits after the last scroll before
// following the engine again.
const dialSettleDelay = 400 * time.Millisecond

type timerFocus int

const (
	focusDial timerFocus = iota
	focusHistory
)

type timerForm int

const (
	formLabel timerForm = iota
	formEdit
	formDelete
)

const (
	actionSave = "save"
	actionLog  = "log"
)

type timerModel struct {
	engine  *session.Engine
	tracker *tracker.Tracker
	width   int
	height  int

	dial   session.Dial
	wheel  session.Wheel
	focus  timerFocus
	cursor int
	bar    progress.Model

	formActive bool
	form       *huh.Form
	formKind   timerForm
	editing    session.Editor

	// Form values as pointers (survive value copies)
	labelInput   *string
	startInput   *string
	endInput     *string
	minutesInput *string
	editLabel    *string
	editAction   *string
	confirmed    *bool
}

func newTimerModel(e *session.Engine, tr *tracker.Tracker) timerModel {
	label, start, end, mins, editLabel, action := "", "", "", "", "", actionSave
	ok := false
	return timerModel{
		engine:       e,
		tracker:      tr,
		dial:         session.NewDial(e.Planned()),
		wheel:        session.MinutesWheel,
		bar:          progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithoutPercentage(), progress.WithWidth(40)),
		labelInput:   &label,
		startInput:   &start,
		endInput:     &end,
		minutesInput: &mins,
		editLabel:    &editLabel,
		editAction:   &action,
		confirmed:    &ok,
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	barWidth := w - 16
	if barWidth > 50 {
		barWidth = 50
	}
	if barWidth < 10 {
		barWidth = 10
	}
	t.bar.Width = barWidth
}

func (t timerModel) running() bool { return t.engine.Running() }

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case session.TickMsg:
		wasRunning := t.engine.Running()
		cmd := t.engine.Update(msg)
		if wasRunning && t.engine.Completed() {
			c, _ := t.engine.Pending()
			return t, status(fmt.Sprintf("%s complete. Press c on the timer to log %.1f hrs", c.Label, c.Hours))
		}
		return t, cmd

	case dialSettleMsg:
		if t.dial.Settle(msg.seq) {
			t.dial.Sync(t.engine.Planned())
		}
		return t, nil
	}

	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	switch {
	case key.Matches(km, keys.Toggle):
		return t, t.engine.Toggle()
	case key.Matches(km, keys.Reset):
		t.engine.Reset()
		t.dial.Sync(t.engine.Planned())
		return t, nil
	case key.Matches(km, keys.Finish):
		if t.engine.Finish() {
			c, _ := t.engine.Pending()
			return t, status(fmt.Sprintf("Stopwatch finished at %s", formatClock(time.Duration(c.Seconds)*time.Second)))
		}
		return t, nil
	case key.Matches(km, keys.Mode):
		if t.engine.Mode() == session.Countdown {
			t.engine.SwitchMode(session.CountUp)
		} else {
			t.engine.SwitchMode(session.Countdown)
		}
		t.dial.Sync(t.engine.Planned())
		return t, nil
	case key.Matches(km, keys.Log):
		return t.logCompleted()
	case key.Matches(km, keys.Label):
		return t.showLabelForm()
	case key.Matches(km, keys.Preset):
		t.engine.Preset(nextPreset(t.engine.Planned()))
		t.dial.Sync(t.engine.Planned())
		return t, nil
	case key.Matches(km, keys.Focus):
		if t.focus == focusDial {
			t.focus = focusHistory
		} else {
			t.focus = focusDial
		}
		return t, nil
	}

	if t.focus == focusHistory {
		return t.updateHistory(km)
	}
	return t.updateDial(km)
}

func (t timerModel) updateDial(km tea.KeyMsg) (timerModel, tea.Cmd) {
	if t.engine.Mode() != session.Countdown || t.engine.Running() {
		return t, nil
	}
	delta := 0
	switch {
	case key.Matches(km, keys.Left):
		t.wheel = session.HoursWheel
	case key.Matches(km, keys.Right):
		t.wheel = session.MinutesWheel
	case key.Matches(km, keys.Up):
		delta = 1
	case key.Matches(km, keys.Down):
		delta = -1
	}
	if delta == 0 {
		return t, nil
	}

	total, changed := t.dial.Scroll(t.wheel, delta)
	if changed {
		t.engine.Configure(total)
	}
	seq := t.dial.Seq()
	return t, tea.Tick(dialSettleDelay, func(time.Time) tea.Msg { return dialSettleMsg{seq: seq} })
}

func (t timerModel) updateHistory(km tea.KeyMsg) (timerModel, tea.Cmd) {
	records := t.engine.History().All()
	switch {
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		if t.cursor < len(records)-1 {
			t.cursor++
		}
	case key.Matches(km, keys.Enter):
		if t.cursor < len(records) {
			return t.showEditForm(records[t.cursor])
		}
	case key.Matches(km, keys.Delete):
		if t.cursor < len(records) {
			return t.showDeleteForm(records[t.cursor])
		}
	}
	return t, nil
}

func nextPreset(current time.Duration) int {
	mins := int(current / time.Minute)
	for _, p := range session.Presets {
		if p > mins {
			return p
		}
	}
	return session.Presets[0]
}

// logCompleted adds the completed session to today's log and resets the engine.
func (t timerModel) logCompleted() (timerModel, tea.Cmd) {
	c, ok := t.engine.Pending()
	if !ok {
		return t, nil
	}
	l, err := t.tracker.LogSession(t.tracker.Today(), c.Hours, c.Label)
	if err != nil {
		return t, resultCmd(err, "")
	}
	t.engine.Logged()
	t.dial.Sync(t.engine.Planned())
	return t, status(fmt.Sprintf("Session logged! Total for today: %.1f hrs", l.Hours))
}

func (t timerModel) showLabelForm() (timerModel, tea.Cmd) {
	if t.engine.Running() {
		return t, nil
	}
	*t.labelInput = t.engine.Label()
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("What are you working on?").Placeholder("Focus Session").Value(t.labelInput),
		),
	)
	t.formActive = true
	t.formKind = formLabel
	return t, t.form.Init()
}

func (t timerModel) showEditForm(r session.Record) (timerModel, tea.Cmd) {
	t.editing = session.NewEditor(r)
	*t.startInput = t.editing.StartText()
	*t.endInput = t.editing.EndText()
	*t.minutesInput = strconv.Itoa(t.editing.Minutes)
	*t.editLabel = t.editing.Label
	*t.editAction = actionSave

	actions := []huh.Option[string]{huh.NewOption("Save changes", actionSave)}
	if !r.Logged {
		actions = append(actions, huh.NewOption("Save and log to today", actionLog))
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start").Description(session.EditLayout).Value(t.startInput),
			huh.NewInput().Title("End").Description("changing the end recomputes the duration").Value(t.endInput),
			huh.NewInput().Title("Duration (minutes)").Value(t.minutesInput),
			huh.NewInput().Title("Label").Value(t.editLabel),
			huh.NewSelect[string]().Title("Then").Options(actions...).Value(t.editAction),
		).Title("Edit session"),
	).WithShowHelp(true)
	t.formActive = true
	t.formKind = formEdit
	return t, t.form.Init()
}

func (t timerModel) showDeleteForm(r session.Record) (timerModel, tea.Cmd) {
	*t.confirmed = false
	t.editing = session.NewEditor(r)
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q from history?", r.Label)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(t.confirmed),
		),
	)
	t.formActive = true
	t.formKind = formDelete
	return t, t.form.Init()
}

func (t timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	switch t.form.State {
	case huh.StateCompleted:
		t.formActive = false
		t.form = nil
		return t.submitForm()
	case huh.StateAborted:
		t.formActive = false
		t.form = nil
	}
	return t, cmd
}

func (t timerModel) submitForm() (timerModel, tea.Cmd) {
	h := t.engine.History()
	switch t.formKind {
	case formLabel:
		t.engine.SetLabel(strings.TrimSpace(*t.labelInput))
		return t, nil

	case formDelete:
		if *t.confirmed && h.Delete(t.editing.ID) {
			if t.cursor >= h.Len() && t.cursor > 0 {
				t.cursor--
			}
			return t, status("Session deleted")
		}
		return t, nil

	case formEdit:
		ed := t.applyEdits()
		if *t.editAction != actionLog {
			ed.Save(h)
			return t, status("Session updated")
		}
		c := ed.Commit()
		l, err := t.tracker.LogSession(t.tracker.Today(), c.Hours, c.Label)
		if err != nil {
			ed.Save(h)
			return t, resultCmd(err, "")
		}
		ed.Logged(h)
		return t, status(fmt.Sprintf("Session logged! Total for today: %.1f hrs", l.Hours))
	}
	return t, nil
}

// applyEdits reconciles the form inputs. The start is applied first; a
// changed duration then wins over a changed end. Malformed fields keep their
// previous value.
func (t timerModel) applyEdits() session.Editor {
	ed := t.editing
	origEnd, origMinutes := ed.EndText(), strconv.Itoa(ed.Minutes)

	ed.ParseStart(*t.startInput)
	switch {
	case strings.TrimSpace(*t.minutesInput) != origMinutes:
		ed.ParseMinutes(*t.minutesInput)
	case strings.TrimSpace(*t.endInput) != origEnd:
		ed.ParseEnd(*t.endInput)
	}
	ed.Label = strings.TrimSpace(*t.editLabel)
	if ed.Label == "" {
		ed.Label = t.editing.Label
	}
	return ed
}

func (t timerModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		return activePanelStyle.Width(w).Render(t.form.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.renderClock(w),
		t.renderHistory(w),
	)
}

func (t timerModel) renderClock(w int) string {
	e := t.engine

	var tabs []string
	for _, m := range []session.Mode{session.Countdown, session.CountUp} {
		if m == e.Mode() {
			tabs = append(tabs, activeTabStyle.Render(m.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(m.String()))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	clock := formatClock(e.Display())
	var timeDisplay, indicator string
	switch {
	case e.Completed():
		c, _ := e.Pending()
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		indicator = successStyle.Render(fmt.Sprintf("✓  COMPLETED  c: log %.1f hrs", c.Hours))
	case e.Running():
		timeDisplay = timerRunningStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  RUNNING")
	case e.Paused():
		timeDisplay = timerPausedStyle.Width(w - 6).Render(clock)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("■  READY")
	}

	label := e.Label()
	if label == "" {
		label = mutedStyle.Render("untitled session (n to name)")
	} else {
		label = highlightStyle.Render(label)
	}

	parts := []string{modeTabs, "", timeDisplay, indicator, label}
	if e.Mode() == session.Countdown {
		parts = append(parts, "", t.bar.ViewAs(e.Fraction()), "", t.renderPresets(), "", t.renderDial())
	}
	parts = append(parts, "", mutedStyle.Render(t.controls()))

	style := panelStyle
	if e.Running() {
		style = activePanelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (t timerModel) controls() string {
	e := t.engine
	switch {
	case e.Completed():
		return "c: log  r: reset  m: switch mode"
	case e.Mode() == session.CountUp:
		return "space: start/pause  f: finish  r: reset  m: timer"
	case e.Running():
		return "space: pause"
	default:
		return "space: start  p: preset  ←/→ ↑/↓: dial  r: reset  m: stopwatch  v: history"
	}
}

func (t timerModel) renderPresets() string {
	planned := int(t.engine.Planned() / time.Minute)
	var items []string
	for _, p := range session.Presets {
		label := fmt.Sprintf(" %dm ", p)
		if p == planned && t.engine.Planned()%time.Minute == 0 {
			items = append(items, selectedItemStyle.Render("["+strings.TrimSpace(label)+"]"))
		} else {
			items = append(items, mutedStyle.Render(label))
		}
	}
	return strings.Join(items, " ")
}

// renderDial draws both wheels with the neighbouring values above and below.
func (t timerModel) renderDial() string {
	wheel := func(w session.Wheel, value, limit int, unit string) string {
		style := normalItemStyle
		if t.focus == focusDial && t.wheel == w && !t.engine.Running() {
			style = selectedItemStyle
		}
		above, below := "  ", "  "
		if value > 0 {
			above = fmt.Sprintf("%02d", value-1)
		}
		if value < limit {
			below = fmt.Sprintf("%02d", value+1)
		}
		return lipgloss.JoinVertical(lipgloss.Center,
			mutedStyle.Render(above),
			style.Render(fmt.Sprintf("%02d %s", value, unit)),
			mutedStyle.Render(below),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		wheel(session.HoursWheel, t.dial.Hours, 23, "h"),
		"   ",
		wheel(session.MinutesWheel, t.dial.Minutes, 59, "m"),
	)
}

func (t timerModel) renderHistory(w int) string {
	records := t.engine.History().All()
	title := titleStyle.Render("Session history")
	if t.focus == focusHistory {
		title = selectedItemStyle.Render("Session history")
	}
	if len(records) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("Completed sessions appear here"),
		))
	}

	rows := []string{title}
	for i, r := range records {
		cursor := "  "
		style := normalItemStyle
		if t.focus == focusHistory && i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		mark := mutedStyle.Render("·")
		if r.Logged {
			mark = successStyle.Render("✓")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s  %8s  ",
			cursor, mark, r.Timestamp.Format("Jan 02 15:04"), formatClock(time.Duration(r.Duration)*time.Second),
		))+style.Render(r.Label))
	}
	if t.focus == focusHistory {
		rows = append(rows, "", mutedStyle.Render("enter: edit  d: delete  v: back to dial"))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
