package session

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/focusflow/internal/stats"
)

// EditLayout is the text form of start and end in the edit view.
const EditLayout = "2006-01-02 15:04"

// Editor is the editable view of a history record. Start, End and Minutes
// stay consistent: changing start moves end, changing end recomputes the
// minutes, changing the minutes moves end.
type Editor struct {
	ID      int64
	Start   time.Time
	End     time.Time
	Minutes int
	Label   string
}

func NewEditor(r Record) Editor {
	start := r.Timestamp.Truncate(time.Minute)
	return Editor{
		ID:      r.ID,
		Start:   start,
		End:     start.Add(time.Duration(r.Duration) * time.Second).Truncate(time.Minute),
		Minutes: int(math.Round(float64(r.Duration) / 60)),
		Label:   r.Label,
	}
}

func (e *Editor) SetStart(t time.Time) {
	e.Start = t
	e.End = t.Add(time.Duration(e.Minutes) * time.Minute)
}

func (e *Editor) SetEnd(t time.Time) {
	e.End = t
	mins := int(math.Round(t.Sub(e.Start).Minutes()))
	if mins < 0 {
		mins = 0
	}
	e.Minutes = mins
}

func (e *Editor) SetMinutes(m int) bool {
	if m < 0 {
		return false
	}
	e.Minutes = m
	e.End = e.Start.Add(time.Duration(m) * time.Minute)
	return true
}

// ParseStart, ParseEnd and ParseMinutes apply text input. Malformed input is
// ignored and reported as false.
func (e *Editor) ParseStart(s string) bool {
	t, err := time.ParseInLocation(EditLayout, strings.TrimSpace(s), e.Start.Location())
	if err != nil {
		return false
	}
	e.SetStart(t)
	return true
}

func (e *Editor) ParseEnd(s string) bool {
	t, err := time.ParseInLocation(EditLayout, strings.TrimSpace(s), e.Start.Location())
	if err != nil {
		return false
	}
	e.SetEnd(t)
	return true
}

func (e *Editor) ParseMinutes(s string) bool {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return e.SetMinutes(m)
}

func (e Editor) StartText() string { return e.Start.Format(EditLayout) }
func (e Editor) EndText() string   { return e.End.Format(EditLayout) }

// Save writes start, duration and label back to the record.
func (e Editor) Save(h *History) bool {
	return h.Update(e.ID, e.Start, int64(e.Minutes)*60, e.Label)
}

// Commit is what logging the edited record adds to today's study log.
func (e Editor) Commit() Commit {
	return Commit{
		RecordID: e.ID,
		Seconds:  int64(e.Minutes) * 60,
		Hours:    stats.RoundHours(float64(e.Minutes) / 60),
		Label:    e.Label,
	}
}

// Logged saves the edit and marks the record logged.
func (e Editor) Logged(h *History) bool {
	if !e.Save(h) {
		return false
	}
	return h.MarkLogged(e.ID)
}
