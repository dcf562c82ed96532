package stats

import (
	"sort"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

type Range string

const (
	RangeAll    Range = "all"
	RangeYear   Range = "year"
	Range30Days Range = "30days"
	Range7Days  Range = "7days"
)

var Ranges = []Range{RangeAll, RangeYear, Range30Days, Range7Days}

func (r Range) Label() string {
	switch r {
	case RangeYear:
		return "Year"
	case Range30Days:
		return "30d"
	case Range7Days:
		return "7d"
	default:
		return "All"
	}
}

// Filter keeps the records inside r relative to today. The day-count ranges
// start n days before today; the year range starts on January 1st.
func Filter(logs []store.StudyLog, r Range, today time.Time) []store.StudyLog {
	today = Day(today)
	var cutoff time.Time
	switch r {
	case Range7Days:
		cutoff = today.AddDate(0, 0, -7)
	case Range30Days:
		cutoff = today.AddDate(0, 0, -30)
	case RangeYear:
		cutoff, _ = YearRange(today)
	default:
		out := make([]store.StudyLog, len(logs))
		copy(out, logs)
		return out
	}

	var out []store.StudyLog
	for _, l := range logs {
		d, err := ParseDate(l.Date)
		if err != nil || d.Before(cutoff) {
			continue
		}
		out = append(out, l)
	}
	return out
}

type SortField int

const (
	SortByDate SortField = iota
	SortByHours
)

// Sorted returns a sorted copy. Ties on hours fall back to date.
func Sorted(logs []store.StudyLog, field SortField, desc bool) []store.StudyLog {
	out := make([]store.StudyLog, len(logs))
	copy(out, logs)
	less := func(a, b store.StudyLog) bool {
		if field == SortByHours && a.Hours != b.Hours {
			return a.Hours < b.Hours
		}
		return a.Date < b.Date
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Split holds the average hours of weekday and weekend records.
type Split struct {
	Weekday float64
	Weekend float64
}

// Partition averages weekday and weekend records independently. An empty side
// averages to 0.
func Partition(logs []store.StudyLog) Split {
	var wdSum, weSum float64
	var wdN, weN int
	for _, l := range logs {
		d, err := ParseDate(l.Date)
		if err != nil {
			continue
		}
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weSum += l.Hours
			weN++
		} else {
			wdSum += l.Hours
			wdN++
		}
	}
	var s Split
	if wdN > 0 {
		s.Weekday = wdSum / float64(wdN)
	}
	if weN > 0 {
		s.Weekend = weSum / float64(weN)
	}
	return s
}

// Summary is the headline numbers of the statistics view.
type Summary struct {
	Total   float64
	Average float64
	Split
}

func Summarize(logs []store.StudyLog) Summary {
	return Summary{
		Total:   Total(logs),
		Average: AverageDaily(logs),
		Split:   Partition(logs),
	}
}
