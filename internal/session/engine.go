// Package session implements the countdown/stopwatch engine, its history of
// completed sessions and the helpers used to edit them.
package session

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/focusflow/internal/sound"
	"github.com/sadopc/focusflow/internal/stats"
)

type Mode int

const (
	Countdown Mode = iota
	CountUp
)

func (m Mode) String() string {
	if m == CountUp {
		return "Stopwatch"
	}
	return "Timer"
}

type RunState int

const (
	Idle RunState = iota
	Running
	Completed
)

var stateNames = map[RunState]string{
	Idle:      "IDLE",
	Running:   "RUNNING",
	Completed: "COMPLETED",
}

func (s RunState) String() string { return stateNames[s] }

// Presets are the quick countdown lengths in minutes.
var Presets = []int{15, 25, 30, 45, 60, 90}

const DefaultDuration = 25 * time.Minute

const (
	defaultCountdownLabel = "Focus Session"
	defaultCountUpLabel   = "Stopwatch Session"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances a running engine by one second. Ticks from another engine
// or from a superseded run are ignored.
type TickMsg struct {
	ID   int
	tag  int
	Time time.Time
}

// Commit is what logging a session adds to the day's study log.
type Commit struct {
	RecordID int64
	Seconds  int64
	Hours    float64
	Label    string
}

// Engine is the single live timer or stopwatch session.
type Engine struct {
	id  int
	tag int

	mode      Mode
	state     RunState
	planned   int64 // seconds
	remaining int64
	elapsed   int64
	label     string

	history     *History
	completedID int64

	player       sound.Player
	soundEnabled bool
	logger       *slog.Logger
	now          func() time.Time
	interval     time.Duration
}

type Option func(*Engine)

func WithPlayer(p sound.Player) Option {
	return func(e *Engine) { e.player = p }
}

func WithSound(enabled bool) Option {
	return func(e *Engine) { e.soundEnabled = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithInterval changes the tick period. The engine still counts one second
// per tick.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

func New(opts ...Option) *Engine {
	planned := int64(DefaultDuration / time.Second)
	e := &Engine{
		id:           nextID(),
		mode:         Countdown,
		state:        Idle,
		planned:      planned,
		remaining:    planned,
		history:      &History{},
		player:       sound.Silent{},
		soundEnabled: true,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		interval:     time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) ID() int                { return e.id }
func (e *Engine) Mode() Mode             { return e.mode }
func (e *Engine) State() RunState        { return e.state }
func (e *Engine) Running() bool          { return e.state == Running }
func (e *Engine) Completed() bool        { return e.state == Completed }
func (e *Engine) Label() string          { return e.label }
func (e *Engine) History() *History      { return e.history }
func (e *Engine) SoundEnabled() bool     { return e.soundEnabled }
func (e *Engine) SetSoundEnabled(b bool) { e.soundEnabled = b }

func (e *Engine) Planned() time.Duration   { return time.Duration(e.planned) * time.Second }
func (e *Engine) Remaining() time.Duration { return time.Duration(e.remaining) * time.Second }
func (e *Engine) Elapsed() time.Duration   { return time.Duration(e.elapsed) * time.Second }

// Display is the value shown on the dial: time left for a countdown, time
// accumulated for a stopwatch.
func (e *Engine) Display() time.Duration {
	if e.mode == CountUp {
		return e.Elapsed()
	}
	return e.Remaining()
}

// Paused reports an idle session that has progress to resume.
func (e *Engine) Paused() bool {
	if e.state != Idle {
		return false
	}
	if e.mode == CountUp {
		return e.elapsed > 0
	}
	return e.remaining != e.planned
}

// Fraction is the completed share of a countdown, 0..1.
func (e *Engine) Fraction() float64 {
	if e.mode == CountUp || e.planned == 0 {
		return 0
	}
	return float64(e.planned-e.remaining) / float64(e.planned)
}

// Configure sets the planned countdown length. It has no effect while running.
func (e *Engine) Configure(d time.Duration) bool {
	if e.state == Running || d < 0 {
		return false
	}
	e.planned = int64(d / time.Second)
	e.remaining = e.planned
	e.state = Idle
	e.completedID = 0
	return true
}

// Preset configures one of the quick lengths.
func (e *Engine) Preset(minutes int) bool {
	for _, p := range Presets {
		if p == minutes {
			return e.Configure(time.Duration(minutes) * time.Minute)
		}
	}
	return false
}

// Toggle starts or pauses the session. Starting returns the tick command.
// A completed session cannot resume, and a countdown with nothing left
// cannot start.
func (e *Engine) Toggle() tea.Cmd {
	switch e.state {
	case Running:
		e.stop()
		e.state = Idle
		return nil
	case Idle:
		if e.mode == Countdown && e.remaining <= 0 {
			return nil
		}
		e.state = Running
		return e.tick()
	}
	return nil
}

// Update handles TickMsg. Any other message is ignored.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	tm, ok := msg.(TickMsg)
	if !ok || tm.ID != e.id || tm.tag != e.tag || e.state != Running {
		return nil
	}

	if e.mode == Countdown {
		e.remaining--
		if e.remaining <= 0 {
			e.remaining = 0
			e.complete()
			return nil
		}
		return e.tick()
	}

	e.elapsed++
	return e.tick()
}

// Finish completes a stopwatch session by hand.
func (e *Engine) Finish() bool {
	if e.mode != CountUp || e.state == Completed || e.elapsed <= 0 {
		return false
	}
	e.complete()
	return true
}

// Reset returns to idle with the value restored. A running countdown must be
// paused first; a stopwatch can be reset while running.
func (e *Engine) Reset() bool {
	if e.state == Running && e.mode == Countdown {
		return false
	}
	e.stop()
	e.state = Idle
	e.remaining = e.planned
	e.elapsed = 0
	e.completedID = 0
	return true
}

// SwitchMode stops any running session and resets the target mode's value.
func (e *Engine) SwitchMode(m Mode) {
	e.stop()
	e.mode = m
	e.state = Idle
	e.completedID = 0
	if m == Countdown {
		e.remaining = e.planned
	} else {
		e.elapsed = 0
	}
}

// SetLabel changes the session objective. Refused while running.
func (e *Engine) SetLabel(label string) bool {
	if e.state == Running {
		return false
	}
	e.label = label
	return true
}

// Pending returns what logging the completed session would commit.
func (e *Engine) Pending() (Commit, bool) {
	if e.state != Completed {
		return Commit{}, false
	}
	secs := e.sessionSeconds()
	return Commit{
		RecordID: e.completedID,
		Seconds:  secs,
		Hours:    stats.SecondsToHours(secs),
		Label:    e.effectiveLabel(),
	}, true
}

// Logged marks the completed session's history entry as logged and resets.
func (e *Engine) Logged() {
	if e.state != Completed {
		return
	}
	if e.completedID != 0 {
		e.history.MarkLogged(e.completedID)
	}
	e.Reset()
}

func (e *Engine) complete() {
	e.stop()
	e.state = Completed

	rec := e.history.Add(e.sessionSeconds(), e.now(), e.effectiveLabel())
	e.completedID = rec.ID
	e.logger.Info("session completed", "mode", e.mode.String(), "seconds", rec.Duration, "label", rec.Label)

	if e.mode == Countdown && e.soundEnabled {
		if err := e.player.Play(); err != nil {
			e.logger.Warn("completion cue failed", "err", err)
		}
	}
}

func (e *Engine) sessionSeconds() int64 {
	if e.mode == Countdown {
		return e.planned
	}
	return e.elapsed
}

func (e *Engine) effectiveLabel() string {
	if e.label != "" {
		return e.label
	}
	if e.mode == CountUp {
		return defaultCountUpLabel
	}
	return defaultCountdownLabel
}

// stop invalidates any tick in flight.
func (e *Engine) stop() {
	e.tag++
}

func (e *Engine) tick() tea.Cmd {
	e.tag++
	id, tag := e.id, e.tag
	return tea.Tick(e.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag, Time: t}
	})
}
