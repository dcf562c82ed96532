package stats

import (
	"sort"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

type Streak struct {
	Current int
	Longest int
}

// Streaks computes runs of consecutive active days (hours > 0). The current
// streak is zero unless the latest active day is today or yesterday.
func Streaks(logs []store.StudyLog, today time.Time) Streak {
	days := activeDays(logs)
	if len(days) == 0 {
		return Streak{}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if consecutive(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today = Day(today)
	last := days[len(days)-1]
	current := 0
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = 1
		for i := len(days) - 2; i >= 0; i-- {
			if !consecutive(days[i], days[i+1]) {
				break
			}
			current++
		}
	}

	return Streak{Current: current, Longest: longest}
}

func activeDays(logs []store.StudyLog) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, l := range logs {
		if l.Hours <= 0 {
			continue
		}
		d, err := ParseDate(l.Date)
		if err != nil || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func consecutive(prev, next time.Time) bool {
	return prev.AddDate(0, 0, 1).Equal(next)
}
