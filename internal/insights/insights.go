// Package insights asks a language model for feedback on recent study habits.
package insights

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/sadopc/focusflow/internal/store"
)

// ErrUnavailable wraps every failure to produce an analysis.
var ErrUnavailable = errors.New("unable to generate insights")

// WindowSize is how many recent records are sent for analysis.
const WindowSize = 90

// Analysis is the structured feedback shown in the insights view.
type Analysis struct {
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Tip          string   `json:"tip"`
}

type Analyzer interface {
	Analyze(ctx context.Context, logs []store.StudyLog) (Analysis, error)
}

// Window returns at most n records, most recent date first.
func Window(logs []store.StudyLog, n int) []store.StudyLog {
	out := make([]store.StudyLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Prompt renders the request text for logs, one "date: hoursh" line each.
func Prompt(logs []store.StudyLog) string {
	var b strings.Builder
	b.WriteString("Analyze this study log data (Date: Hours) for the last 90 days.\n")
	b.WriteString("Provide a structured analysis of my study habits.\n\nData:\n")
	for _, l := range Window(logs, WindowSize) {
		b.WriteString(l.Date)
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(l.Hours, 'f', -1, 64))
		b.WriteString("h\n")
	}
	return b.String()
}

// Sequence numbers analysis requests so a late reply to an older request can
// be told apart from the latest one.
type Sequence struct {
	last int
}

// Next starts a new request and returns its number.
func (s *Sequence) Next() int {
	s.last++
	return s.last
}

// Latest reports whether n is the most recent request.
func (s *Sequence) Latest(n int) bool {
	return n == s.last
}
