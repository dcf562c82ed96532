// Package stats derives totals, rollups, goal progress and streaks from a
// snapshot of study logs. Every function recomputes from its input; nothing is
// cached, so an edit is visible on the next call.
package stats

import (
	"math"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

// Day truncates t to its calendar date, expressed at UTC midnight so that day
// arithmetic is unaffected by DST.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a log key into a UTC-midnight day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(store.DateLayout, s, time.UTC)
}

// RoundHours rounds to one decimal place.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// SecondsToHours converts a duration in seconds to hours at one decimal.
// Sessions shorter than three minutes round to 0.0.
func SecondsToHours(secs int64) float64 {
	return RoundHours(float64(secs) / 3600)
}

func Total(logs []store.StudyLog) float64 {
	var total float64
	for _, l := range logs {
		total += l.Hours
	}
	return total
}

// AverageDaily is Total over the number of records, 0 for an empty collection.
func AverageDaily(logs []store.StudyLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	return Total(logs) / float64(len(logs))
}

// Rollup sums hours of records dated within [from, to).
func Rollup(logs []store.StudyLog, from, to time.Time) float64 {
	from, to = Day(from), Day(to)
	var total float64
	for _, l := range logs {
		d, err := ParseDate(l.Date)
		if err != nil {
			continue
		}
		if !d.Before(from) && d.Before(to) {
			total += l.Hours
		}
	}
	return total
}

// WeekStart returns the Monday on or before day. Sunday belongs to the week
// that started six days earlier.
func WeekStart(day time.Time) time.Time {
	day = Day(day)
	weekday := day.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return day.AddDate(0, 0, -int(weekday-time.Monday))
}

func WeekRange(day time.Time) (time.Time, time.Time) {
	start := WeekStart(day)
	return start, start.AddDate(0, 0, 7)
}

func MonthRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func YearRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

// TrailingRange covers the n days ending with day (inclusive).
func TrailingRange(day time.Time, n int) (time.Time, time.Time) {
	end := Day(day).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -n), end
}

// PeriodHours holds the rollups for the periods containing today.
type PeriodHours struct {
	Week  float64
	Month float64
	Year  float64
}

func Periods(logs []store.StudyLog, today time.Time) PeriodHours {
	var p PeriodHours
	from, to := WeekRange(today)
	p.Week = Rollup(logs, from, to)
	from, to = MonthRange(today)
	p.Month = Rollup(logs, from, to)
	from, to = YearRange(today)
	p.Year = Rollup(logs, from, to)
	return p
}

// GoalProgress returns the percentage of goal reached, clamped to 100.
func GoalProgress(hours float64, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(100, 100*hours/float64(goal))
}

// Progress pairs each period's hours with its goal percentage.
type Progress struct {
	Hours   PeriodHours
	Weekly  float64
	Monthly float64
	Yearly  float64
}

func GoalsProgress(logs []store.StudyLog, goals store.Goals, today time.Time) Progress {
	h := Periods(logs, today)
	return Progress{
		Hours:   h,
		Weekly:  GoalProgress(h.Week, goals.Weekly),
		Monthly: GoalProgress(h.Month, goals.Monthly),
		Yearly:  GoalProgress(h.Year, goals.Yearly),
	}
}
