package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

// ToCSV writes logs to a new file at path.
func ToCSV(logs []store.StudyLog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, logs)
}

func WriteCSV(out io.Writer, logs []store.StudyLog) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"Date", "Weekday", "Hours", "Duration", "Notes"}); err != nil {
		return err
	}

	for _, l := range logs {
		row := []string{
			l.Date,
			weekday(l.Date),
			strconv.FormatFloat(l.Hours, 'f', 1, 64),
			formatHours(l.Hours),
			l.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func weekday(date string) string {
	d, err := time.Parse(store.DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}

// formatHours renders fractional hours as HH:MM.
func formatHours(h float64) string {
	mins := int64(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
