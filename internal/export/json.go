package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/focusflow/internal/stats"
	"github.com/sadopc/focusflow/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	TotalHours float64     `json:"total_hours"`
	Logs       []jsonEntry `json:"logs"`
}

type jsonEntry struct {
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Hours    float64 `json:"hours"`
	Duration string  `json:"duration"`
	Notes    string  `json:"notes,omitempty"`
}

// ToJSON writes logs to a new file at path.
func ToJSON(logs []store.StudyLog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	if err := WriteJSON(f, logs); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, logs []store.StudyLog) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
		TotalHours: stats.RoundHours(stats.Total(logs)),
	}

	for _, l := range logs {
		export.Logs = append(export.Logs, jsonEntry{
			Date:     l.Date,
			Weekday:  weekday(l.Date),
			Hours:    l.Hours,
			Duration: formatHours(l.Hours),
			Notes:    l.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
