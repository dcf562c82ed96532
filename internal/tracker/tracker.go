// Package tracker owns the in-memory copy of the study logs, goals and
// preferences and applies every change through the store.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
)

// ErrInvalidInput is returned for input that is rejected without touching
// any state.
var ErrInvalidInput = errors.New("invalid input")

// Store is the persistence the tracker writes through.
type Store interface {
	Logs() ([]store.StudyLog, error)
	UpsertLog(store.StudyLog) ([]store.StudyLog, error)
	DeleteLog(date string) ([]store.StudyLog, error)
	Seed(rng *rand.Rand, today time.Time) ([]store.StudyLog, error)
	Goals() store.Goals
	SaveGoals(store.Goals) (store.Goals, error)
	Preferences() store.Preferences
	SavePreferences(store.Preferences) error
}

// Snapshot is a read-only view of the tracker state.
type Snapshot struct {
	Logs        []store.StudyLog
	Goals       store.Goals
	Preferences store.Preferences
}

type Tracker struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	logs  []store.StudyLog
	goals store.Goals
	prefs store.Preferences
}

type Option func(*Tracker)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New loads the current state from s. A failed read starts from an empty
// collection.
func New(s Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Reload()
	return t
}

// Reload rereads everything from the store.
func (t *Tracker) Reload() {
	logs, err := t.store.Logs()
	if err != nil {
		t.logger.Error("load logs", "err", err)
		logs = []store.StudyLog{}
	}
	t.logs = logs
	t.goals = t.store.Goals()
	t.prefs = t.store.Preferences()
}

func (t *Tracker) Snapshot() Snapshot {
	logs := make([]store.StudyLog, len(t.logs))
	copy(logs, t.logs)
	return Snapshot{Logs: logs, Goals: t.goals, Preferences: t.prefs}
}

func (t *Tracker) Logs() []store.StudyLog         { return t.Snapshot().Logs }
func (t *Tracker) Goals() store.Goals             { return t.goals }
func (t *Tracker) Preferences() store.Preferences { return t.prefs }

// Today is the current local date in store format.
func (t *Tracker) Today() string {
	return t.now().Format(store.DateLayout)
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Entry returns the record for date from the current snapshot.
func (t *Tracker) Entry(date string) (store.StudyLog, bool) {
	for _, l := range t.logs {
		if l.Date == date {
			return l, true
		}
	}
	return store.StudyLog{}, false
}

// SaveEntry writes hours and notes for date, replacing whatever was there.
func (t *Tracker) SaveEntry(date string, hours float64, notes string) error {
	if err := validDate(date); err != nil {
		return err
	}
	if !validHours(hours) {
		return fmt.Errorf("%w: hours %v", ErrInvalidInput, hours)
	}
	return t.upsert(store.StudyLog{Date: date, Hours: hours, Notes: strings.TrimSpace(notes)})
}

// LogSession adds a finished session to date. Hours accumulate, capped at a
// full day, and the label is appended to existing notes.
func (t *Tracker) LogSession(date string, hours float64, label string) (store.StudyLog, error) {
	if err := validDate(date); err != nil {
		return store.StudyLog{}, err
	}
	if !validHours(hours) {
		return store.StudyLog{}, fmt.Errorf("%w: hours %v", ErrInvalidInput, hours)
	}

	l := store.StudyLog{Date: date, Hours: hours, Notes: label}
	if prior, ok := t.Entry(date); ok {
		l.Hours = prior.Hours + hours
		l.Notes = joinNotes(prior.Notes, label)
	}
	l.Hours = math.Min(stats.RoundHours(l.Hours), store.MaxHours)

	if err := t.upsert(l); err != nil {
		return store.StudyLog{}, err
	}
	t.logger.Info("session logged", "date", date, "added", hours, "total", l.Hours)
	return l, nil
}

// DeleteEntry removes the record for date.
func (t *Tracker) DeleteEntry(date string) error {
	if err := validDate(date); err != nil {
		return err
	}
	logs, err := t.store.DeleteLog(date)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	t.logs = logs
	t.logger.Info("entry deleted", "date", date)
	return nil
}

// UpdateGoals stores new targets. Every target must be positive.
func (t *Tracker) UpdateGoals(g store.Goals) error {
	if g.Weekly <= 0 || g.Monthly <= 0 || g.Yearly <= 0 {
		return fmt.Errorf("%w: goals must be positive", ErrInvalidInput)
	}
	saved, err := t.store.SaveGoals(g)
	if err != nil {
		return fmt.Errorf("update goals: %w", err)
	}
	t.goals = saved
	return nil
}

func (t *Tracker) UpdatePreferences(p store.Preferences) error {
	if !p.HeatmapTheme.Valid() {
		return fmt.Errorf("%w: theme %q", ErrInvalidInput, p.HeatmapTheme)
	}
	if err := t.store.SavePreferences(p); err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	t.prefs = p
	return nil
}

// Seed fills an empty store with sample data.
func (t *Tracker) Seed(rng *rand.Rand) error {
	logs, err := t.store.Seed(rng, t.now())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	t.logs = logs
	return nil
}

func (t *Tracker) upsert(l store.StudyLog) error {
	logs, err := t.store.UpsertLog(l)
	if err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	t.logs = logs
	return nil
}

// ParseHours reads an hours value typed by the user.
func ParseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !validHours(h) {
		return 0, fmt.Errorf("%w: hours %q", ErrInvalidInput, s)
	}
	return h, nil
}

// ParseGoal reads a goal target typed by the user.
func ParseGoal(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: goal %q", ErrInvalidInput, s)
	}
	return n, nil
}

func validDate(date string) error {
	if _, err := time.Parse(store.DateLayout, date); err != nil {
		return fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}
	return nil
}

func validHours(h float64) bool {
	return !math.IsNaN(h) && !math.IsInf(h, 0) && h >= 0 && h <= store.MaxHours
}

func joinNotes(prior, label string) string {
	switch {
	case prior == "":
		return label
	case label == "":
		return prior
	default:
		return prior + "; " + label
	}
}
