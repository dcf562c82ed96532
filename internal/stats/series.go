package stats

import (
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

// Point is one day of a chart series.
type Point struct {
	Date  time.Time
	Label string
	Hours float64
}

// Series returns one point per calendar day for the n days ending at end,
// oldest first. Days without a record are 0. Windows of up to a week are
// labelled by weekday ("Mon"), longer ones by month and day ("Jan 2").
func Series(logs []store.StudyLog, end time.Time, n int) []Point {
	if n <= 0 {
		return nil
	}
	byDate := make(map[string]float64, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l.Hours
	}

	layout := "Jan 2"
	if n <= 7 {
		layout = "Mon"
	}

	from, to := TrailingRange(end, n)
	points := make([]Point, 0, n)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		points = append(points, Point{
			Date:  d,
			Label: d.Format(layout),
			Hours: byDate[d.Format(store.DateLayout)],
		})
	}
	return points
}

// Cell is one day of the year heatmap. Week is the Sunday-based column since
// January 1st and Weekday the row (0 = Sunday).
type Cell struct {
	Date    time.Time
	Week    int
	Weekday int
	Hours   float64
	Notes   string
	Level   int
}

// Grid lays out every day of year for the heatmap.
func Grid(logs []store.StudyLog, year int) []Cell {
	byDate := make(map[string]store.StudyLog, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	offset := int(start.Weekday())

	var cells []Cell
	for d, i := start, 0; d.Before(end); d, i = d.AddDate(0, 0, 1), i+1 {
		l := byDate[d.Format(store.DateLayout)]
		cells = append(cells, Cell{
			Date:    d,
			Week:    (i + offset) / 7,
			Weekday: int(d.Weekday()),
			Hours:   l.Hours,
			Notes:   l.Notes,
			Level:   Level(l.Hours),
		})
	}
	return cells
}

// Level buckets a day's hours into five intensities.
func Level(hours float64) int {
	switch {
	case hours <= 0:
		return 0
	case hours < 2:
		return 1
	case hours < 4:
		return 2
	case hours < 6:
		return 3
	default:
		return 4
	}
}
