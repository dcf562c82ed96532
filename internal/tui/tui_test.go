package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focusflow/internal/insights"
	"github.com/sadopc/focusflow/internal/session"
	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
	"github.com/sadopc/focusflow/internal/tracker"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return tracker.New(s, tracker.WithClock(func() time.Time { return testNow }))
}

// fakeAnalyzer returns a fixed result and counts calls.
type fakeAnalyzer struct {
	calls    int
	analysis insights.Analysis
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, logs []store.StudyLog) (insights.Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

// fastEngine ticks every millisecond so a tick command can be run inline.
func fastEngine() *session.Engine {
	return session.New(
		session.WithInterval(time.Millisecond),
		session.WithClock(func() time.Time { return testNow }),
	)
}

func newTestApp(t *testing.T) App {
	t.Helper()
	return NewApp(Options{
		Tracker:   newTestTracker(t),
		Engine:    fastEngine(),
		Analyzer:  &fakeAnalyzer{},
		ExportDir: t.TempDir(),
	})
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and returns its message, or nil for a nil command.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{time.Second, "00:00:01"},
		{time.Minute, "00:01:00"},
		{time.Hour, "01:00:00"},
		{2*time.Hour + 30*time.Minute + 15*time.Second, "02:30:15"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{time.Second, "00:01"},
		{25 * time.Minute, "25:00"},
		{5*time.Minute + 30*time.Second, "05:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{-time.Second, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		h    float64
		want string
	}{
		{0, "0.0h"},
		{1.5, "1.5h"},
		{24, "24.0h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.h); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.h, got, tt.want)
		}
	}
}

func TestResultCmd(t *testing.T) {
	if resultCmd(nil, "") != nil {
		t.Fatal("no error and no message should produce no command")
	}
	if msg, ok := run(resultCmd(nil, "done")).(statusMsg); !ok || msg.text != "done" || msg.isError {
		t.Fatalf("unexpected success message: %#v", msg)
	}
	invalid := fmt.Errorf("%w: hours", tracker.ErrInvalidInput)
	if resultCmd(invalid, "done") != nil {
		t.Fatal("rejected input should be dropped silently")
	}
	if msg, ok := run(resultCmd(errors.New("disk full"), "done")).(statusMsg); !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestNextPreset(t *testing.T) {
	tests := []struct {
		current time.Duration
		want    int
	}{
		{0, 15},
		{15 * time.Minute, 25},
		{25 * time.Minute, 45},
		{60 * time.Minute, 90},
		{90 * time.Minute, 15},
		{3 * time.Hour, 15},
	}
	for _, tt := range tests {
		if got := nextPreset(tt.current); got != tt.want {
			t.Errorf("nextPreset(%v) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 6 {
		t.Fatalf("expected 6 view names, got %d", len(viewNames))
	}
	for i, name := range viewNames {
		if name == "" {
			t.Fatalf("view %d has empty name", i)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewSettings != 5 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardInit(t *testing.T) {
	d := newDashboardModel(newTestTracker(t))
	if d.selectedDate() != "2024-03-15" {
		t.Fatalf("expected today selected, got %s", d.selectedDate())
	}
	if d.formActive {
		t.Fatal("form should not be active initially")
	}
}

func TestDashboardNavigation(t *testing.T) {
	d := newDashboardModel(newTestTracker(t))

	d, _ = d.update(keyMsg("h"))
	if d.selectedDate() != "2024-03-14" {
		t.Fatalf("left should go back a day, got %s", d.selectedDate())
	}
	d, _ = d.update(keyMsg("k"))
	if d.selectedDate() != "2024-03-07" {
		t.Fatalf("up should go back a week, got %s", d.selectedDate())
	}
	d, _ = d.update(keyMsg("["))
	if d.selectedDate() != "2023-03-07" {
		t.Fatalf("[ should go back a year, got %s", d.selectedDate())
	}
	d, _ = d.update(keyMsg("t"))
	if d.selectedDate() != "2024-03-15" {
		t.Fatalf("t should return to today, got %s", d.selectedDate())
	}
}

func TestDashboardSelectDateIgnoresMalformed(t *testing.T) {
	d := newDashboardModel(newTestTracker(t))
	d.selectDate("2024-02-29")
	d.selectDate("someday")
	if d.selectedDate() != "2024-02-29" {
		t.Fatalf("selection = %s", d.selectedDate())
	}
}

func TestDashboardFormPrefill(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-15", 2.5, "chapter 4")

	d := newDashboardModel(tr)
	d, _ = d.showForm()
	if !d.formActive {
		t.Fatal("form should be active")
	}
	if *d.hoursInput != "2.5" || *d.notesInput != "chapter 4" {
		t.Fatalf("prefill = %q / %q", *d.hoursInput, *d.notesInput)
	}

	d, _ = d.update(keyMsg("esc"))
	if d.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestDashboardSaveEntry(t *testing.T) {
	tr := newTestTracker(t)
	d := newDashboardModel(tr)
	d, _ = d.showForm()
	*d.hoursInput = "3"
	*d.notesInput = "revision"

	msg, ok := run(d.saveEntry()).(statusMsg)
	if !ok || msg.isError {
		t.Fatalf("unexpected message %#v", msg)
	}
	l, ok := tr.Entry("2024-03-15")
	if !ok || l.Hours != 3 || l.Notes != "revision" {
		t.Fatalf("entry = %+v, %v", l, ok)
	}
}

func TestDashboardSaveEntryInvalidHours(t *testing.T) {
	tr := newTestTracker(t)
	d := newDashboardModel(tr)
	for _, in := range []string{"", "abc", "-1", "25"} {
		*d.hoursInput = in
		if cmd := d.saveEntry(); cmd != nil {
			t.Fatalf("%q: expected silent rejection", in)
		}
	}
	if len(tr.Logs()) != 0 {
		t.Fatal("nothing should be saved")
	}
}

func TestDashboardDelete(t *testing.T) {
	tr := newTestTracker(t)
	d := newDashboardModel(tr)

	d, _ = d.showDelete()
	if d.formActive {
		t.Fatal("delete on an empty day should do nothing")
	}

	tr.SaveEntry("2024-03-15", 1, "")
	d, _ = d.showDelete()
	if !d.formActive || !d.deleting {
		t.Fatal("delete confirmation should open")
	}
	if d.deleteEntry() != nil {
		t.Fatal("unconfirmed delete should do nothing")
	}
	*d.confirmed = true
	run(d.deleteEntry())
	if _, ok := tr.Entry("2024-03-15"); ok {
		t.Fatal("entry should be deleted")
	}
}

func TestDashboardView(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-14", 4, "")
	d := newDashboardModel(tr)
	d.setSize(140, 50)
	out := d.view()
	if !strings.Contains(out, "Mar") {
		t.Fatal("dashboard should render month labels")
	}
}

// ============================================================
// Statistics model
// ============================================================

func TestStatisticsRowsAndSort(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-10", 1, "")
	tr.SaveEntry("2024-03-12", 5, "")
	tr.SaveEntry("2024-01-01", 3, "")

	s := newStatisticsModel(tr)
	rows := s.rows()
	if len(rows) != 2 || rows[0].Date != "2024-03-12" {
		t.Fatalf("30 day rows, newest first: %v", rows)
	}

	s, _ = s.update(keyMsg("f")) // -> 7 days
	if s.rng != stats.Range7Days {
		t.Fatalf("range = %v", s.rng)
	}
	s, _ = s.update(keyMsg("f")) // -> all
	s, _ = s.update(keyMsg("s")) // sort by hours
	rows = s.rows()
	if len(rows) != 3 || rows[0].Hours != 5 || rows[2].Hours != 1 {
		t.Fatalf("sorted by hours desc: %v", rows)
	}
	s, _ = s.update(keyMsg("o"))
	if rows = s.rows(); rows[0].Hours != 1 {
		t.Fatalf("ascending: %v", rows)
	}
}

func TestStatisticsEnterEditsDate(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-10", 1, "")
	tr.SaveEntry("2024-03-12", 5, "")

	s := newStatisticsModel(tr)
	s.setSize(120, 40)
	s, _ = s.update(keyMsg("down"))
	_, cmd := s.update(keyMsg("enter"))
	msg, ok := run(cmd).(editDateMsg)
	if !ok || msg.date != "2024-03-10" {
		t.Fatalf("expected edit of 2024-03-10, got %#v", msg)
	}
}

func TestStatisticsChartToggle(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-10", 1, "")
	tr.SaveEntry("2024-03-12", 5, "")

	s := newStatisticsModel(tr)
	s.setSize(120, 40)
	if s.chart != chartBar {
		t.Fatalf("default chart = %v", s.chart)
	}
	bar := s.renderChart(100)

	s, _ = s.update(keyMsg("g"))
	if s.chart != chartLine {
		t.Fatalf("chart = %v, want line", s.chart)
	}
	line := s.renderChart(100)
	if line == bar {
		t.Fatal("line chart should render differently from the bar chart")
	}
	if !strings.Contains(s.view(), "g: chart (line)") {
		t.Fatal("nav should show the line chart mode")
	}

	s, _ = s.update(keyMsg("g"))
	if s.chart != chartBar {
		t.Fatalf("chart = %v, want bar", s.chart)
	}
}

func TestNextRangeCycles(t *testing.T) {
	r := stats.RangeAll
	for range stats.Ranges {
		r = nextRange(r)
	}
	if r != stats.RangeAll {
		t.Fatalf("cycling all ranges should come back, got %v", r)
	}
}

// ============================================================
// Goals & settings
// ============================================================

func TestGoalsSave(t *testing.T) {
	tr := newTestTracker(t)
	g := newGoalsModel(tr)
	g, _ = g.showForm()
	if *g.weekly != "40" {
		t.Fatalf("weekly prefill = %q", *g.weekly)
	}
	*g.weekly, *g.monthly, *g.yearly = "10", "50", "600"
	run(g.save())
	if got := tr.Goals(); got != (store.Goals{Weekly: 10, Monthly: 50, Yearly: 600}) {
		t.Fatalf("goals = %+v", got)
	}

	*g.weekly = "0"
	if g.save() != nil {
		t.Fatal("a zero goal should be rejected silently")
	}
	if tr.Goals().Weekly != 10 {
		t.Fatal("rejected goals should not be stored")
	}
}

func TestSettingsSave(t *testing.T) {
	tr := newTestTracker(t)
	s := newSettingsModel(tr)
	s, _ = s.showForm()
	*s.soundEnabled = false
	*s.theme = string(store.ThemeOrange)

	msgs := run(s.save()).(tea.BatchMsg)
	var changed *prefsChangedMsg
	for _, c := range msgs {
		if m, ok := run(c).(prefsChangedMsg); ok {
			changed = &m
		}
	}
	if changed == nil || changed.prefs.SoundEnabled || changed.prefs.HeatmapTheme != store.ThemeOrange {
		t.Fatalf("prefs changed = %+v", changed)
	}
	if p := tr.Preferences(); p.SoundEnabled || p.HeatmapTheme != store.ThemeOrange {
		t.Fatalf("stored prefs = %+v", p)
	}
}

// ============================================================
// Timer model
// ============================================================

func TestTimerStopwatchLogFlow(t *testing.T) {
	tr := newTestTracker(t)
	e := fastEngine()
	tm := newTimerModel(e, tr)

	tm, _ = tm.update(keyMsg("m"))
	if e.Mode() != session.CountUp {
		t.Fatal("m should switch to the stopwatch")
	}
	tm, cmd := tm.update(keyMsg(" "))
	if !tm.running() {
		t.Fatal("space should start the stopwatch")
	}
	tm, _ = tm.update(run(cmd))
	if e.Elapsed() != time.Second {
		t.Fatalf("elapsed = %v", e.Elapsed())
	}

	tm, cmd = tm.update(keyMsg("f"))
	if !e.Completed() {
		t.Fatal("f should finish the stopwatch")
	}
	if _, ok := run(cmd).(statusMsg); !ok {
		t.Fatal("finishing should report a status")
	}

	tm, _ = tm.update(keyMsg("c"))
	if e.Completed() || e.Elapsed() != 0 {
		t.Fatal("logging should reset the engine")
	}
	if _, ok := tr.Entry("2024-03-15"); !ok {
		t.Fatal("session should be logged to today")
	}
	if r := e.History().All(); len(r) != 1 || !r[0].Logged {
		t.Fatalf("history = %+v", r)
	}
}

func TestTimerLogMergesIntoToday(t *testing.T) {
	tr := newTestTracker(t)
	tr.SaveEntry("2024-03-15", 2, "Reading")
	e := fastEngine()
	e.Configure(90 * time.Minute)
	tm := newTimerModel(e, tr)

	ed := session.NewEditor(e.History().Add(90*60, testNow, "Focus Session"))
	tm.editing = ed
	*tm.startInput = ed.StartText()
	*tm.endInput = ed.EndText()
	*tm.minutesInput = "90"
	*tm.editLabel = ed.Label
	*tm.editAction = actionLog
	tm.formKind = formEdit

	tm, _ = tm.submitForm()
	l, ok := tr.Entry("2024-03-15")
	if !ok || l.Hours != 3.5 || l.Notes != "Reading; Focus Session" {
		t.Fatalf("merged entry = %+v", l)
	}
}

func TestTimerApplyEditsDurationWins(t *testing.T) {
	tm := newTimerModel(fastEngine(), newTestTracker(t))
	r := tm.engine.History().Add(25*60, testNow, "Focus Session")
	tm.editing = session.NewEditor(r)
	*tm.startInput = tm.editing.StartText()
	*tm.endInput = "garbage"
	*tm.minutesInput = "40"
	*tm.editLabel = "  "

	ed := tm.applyEdits()
	if ed.Minutes != 40 {
		t.Fatalf("minutes = %d", ed.Minutes)
	}
	if ed.Label != "Focus Session" {
		t.Fatalf("blank label should keep the old one, got %q", ed.Label)
	}
}

func TestTimerCountdownCompletionStatus(t *testing.T) {
	tr := newTestTracker(t)
	e := fastEngine()
	e.SetSoundEnabled(false)
	e.Configure(time.Second)
	tm := newTimerModel(e, tr)

	tm, cmd := tm.update(keyMsg(" "))
	tm, cmd = tm.update(run(cmd))
	if !e.Completed() {
		t.Fatal("a one second countdown should complete on its first tick")
	}
	msg, ok := run(cmd).(statusMsg)
	if !ok || !strings.Contains(msg.text, "complete") {
		t.Fatalf("expected completion status, got %#v", msg)
	}
}

func TestTimerDialConfiguresEngine(t *testing.T) {
	e := fastEngine()
	tm := newTimerModel(e, newTestTracker(t))

	tm, cmd := tm.update(keyMsg("up"))
	if e.Planned() != 26*time.Minute {
		t.Fatalf("planned = %v", e.Planned())
	}
	if cmd == nil {
		t.Fatal("scrolling should schedule a settle")
	}
	if !tm.dial.Scrolling() {
		t.Fatal("dial should be scrolling")
	}
	tm, _ = tm.update(dialSettleMsg{seq: tm.dial.Seq()})
	if tm.dial.Scrolling() {
		t.Fatal("latest settle should end the scroll")
	}
}

func TestTimerDialLockedWhileRunning(t *testing.T) {
	e := fastEngine()
	tm := newTimerModel(e, newTestTracker(t))
	tm, _ = tm.update(keyMsg(" "))
	tm, _ = tm.update(keyMsg("up"))
	if e.Planned() != 25*time.Minute {
		t.Fatal("dial should not change a running session")
	}
}

func TestTimerLabelRefusedWhileRunning(t *testing.T) {
	e := fastEngine()
	tm := newTimerModel(e, newTestTracker(t))
	tm, _ = tm.update(keyMsg(" "))
	tm, _ = tm.update(keyMsg("n"))
	if tm.formActive {
		t.Fatal("label form should not open while running")
	}
}

// ============================================================
// Insights model
// ============================================================

func TestInsightsRequest(t *testing.T) {
	tr := newTestTracker(t)
	fa := &fakeAnalyzer{analysis: insights.Analysis{Summary: "steady", Tip: "rest"}}
	m := newInsightsModel(tr, fa, time.Second, nil)

	m, cmd := m.update(keyMsg("a"))
	if !m.loading {
		t.Fatal("should be loading")
	}
	var result insightsResultMsg
	for _, c := range run(cmd).(tea.BatchMsg) {
		if r, ok := run(c).(insightsResultMsg); ok {
			result = r
		}
	}
	m, _ = m.update(result)
	if m.loading || m.analysis == nil || m.analysis.Summary != "steady" {
		t.Fatalf("analysis = %+v", m.analysis)
	}
	if fa.calls != 1 {
		t.Fatalf("calls = %d", fa.calls)
	}
}

func TestInsightsIgnoresStaleResult(t *testing.T) {
	m := newInsightsModel(newTestTracker(t), &fakeAnalyzer{}, time.Second, nil)
	m, _ = m.request()
	m, _ = m.request()

	m, _ = m.update(insightsResultMsg{seq: 1, analysis: insights.Analysis{Summary: "old"}})
	if m.analysis != nil || !m.loading {
		t.Fatal("stale result should be ignored")
	}
	m, _ = m.update(insightsResultMsg{seq: 2, analysis: insights.Analysis{Summary: "new"}})
	if m.analysis == nil || m.analysis.Summary != "new" {
		t.Fatalf("latest result should apply, got %+v", m.analysis)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if !app.engine.SoundEnabled() {
		t.Fatal("sound should follow the default preference")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	app := newTestApp(t)
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	for v := range viewNames {
		app.activeView = viewState(v)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabKeys(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(keyMsg("4"))
	app = model.(App)
	if app.activeView != viewTimer {
		t.Fatalf("4 should open the timer, got %d", app.activeView)
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewInsights {
		t.Fatalf("tab should advance, got %d", app.activeView)
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	app.width = 160
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestApp(t)
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppPrefsChangedUpdatesEngine(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(prefsChangedMsg{prefs: store.Preferences{SoundEnabled: false, HeatmapTheme: store.ThemeBlue}})
	app = model.(App)
	if app.engine.SoundEnabled() {
		t.Fatal("engine sound should be disabled")
	}
}

func TestAppEditDateOpensDashboardForm(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewStatistics
	model, _ := app.Update(editDateMsg{date: "2024-03-01"})
	app = model.(App)

	if app.activeView != viewDashboard {
		t.Fatal("edit should switch to the dashboard")
	}
	if app.dashboard.selectedDate() != "2024-03-01" || !app.dashboard.formActive {
		t.Fatal("dashboard form should be open on the edited date")
	}
	if !app.isFormActive() {
		t.Fatal("app should report the active form")
	}
}

func TestAppRoutesTicksWhileAway(t *testing.T) {
	app := newTestApp(t)
	app.engine.SwitchMode(session.CountUp)
	cmd := app.engine.Toggle()
	app.activeView = viewGoals

	model, _ := app.Update(run(cmd))
	app = model.(App)
	if app.engine.Elapsed() != time.Second {
		t.Fatalf("tick should reach the engine from another view, elapsed = %v", app.engine.Elapsed())
	}
}

func TestAppExportCSV(t *testing.T) {
	app := newTestApp(t)
	app.tracker.SaveEntry("2024-03-15", 2, "notes")

	model, _ := app.Update(keyMsg("e"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	model, cmd := app.Update(keyMsg("enter"))
	app = model.(App)

	done, ok := run(cmd).(exportDoneMsg)
	if !ok {
		t.Fatal("expected export done")
	}
	if filepath.Base(done.path) != "focusflow-export-2024-03-15.csv" {
		t.Fatalf("path = %s", done.path)
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "2024-03-15") {
		t.Fatal("export should contain the entry")
	}
}

// ============================================================
// Heatmap
// ============================================================

func TestRenderHeatmap(t *testing.T) {
	logs := []store.StudyLog{{Date: "2024-01-01", Hours: 7}}
	cells := stats.Grid(logs, 2024)
	out := renderHeatmap(cells, store.ThemeGreen, stats.Day(testNow), false)
	if !strings.Contains(out, "Jan") || !strings.Contains(out, "Mon") {
		t.Fatal("heatmap should have month and weekday labels")
	}
	if !strings.Contains(out, "◆") {
		t.Fatal("heatmap should mark the selected day")
	}
}

func TestPaletteFallback(t *testing.T) {
	if palette("nope") != heatmapPalettes[store.ThemeGreen] {
		t.Fatal("unknown theme should fall back to green")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"card", func() string { return cardStyle.Render("test") }},
		{"cardValue", func() string { return cardValueStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
	}
	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
