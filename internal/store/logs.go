package store

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Logs returns every study log sorted by date ascending. Rows that no longer
// parse (bad date, non-numeric, negative or non-finite hours) are skipped.
func (s *Store) Logs() ([]StudyLog, error) {
	rows, err := s.db.Query(`SELECT date, hours, notes FROM study_logs ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	logs := []StudyLog{}
	for rows.Next() {
		var l StudyLog
		var hours any
		var notes sql.NullString
		if err := rows.Scan(&l.Date, &hours, &notes); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		h, ok := toHours(hours)
		if !ok {
			continue
		}
		l.Hours, l.Notes = h, notes.String
		if !validLog(l) {
			continue
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpsertLog replaces the record for l.Date (or inserts it) and returns the
// full collection. It never merges with the previous value.
func (s *Store) UpsertLog(l StudyLog) ([]StudyLog, error) {
	if !validLog(l) {
		return nil, fmt.Errorf("upsert log %q: invalid record", l.Date)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO study_logs (date, hours, notes, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET hours = excluded.hours, notes = excluded.notes, updated_at = excluded.updated_at`,
		l.Date, l.Hours, l.Notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert log %s: %w", l.Date, err)
	}
	return s.Logs()
}

// DeleteLog removes the record for date, if any, and returns the remaining collection.
func (s *Store) DeleteLog(date string) ([]StudyLog, error) {
	if _, err := s.db.Exec(`DELETE FROM study_logs WHERE date = ?`, date); err != nil {
		return nil, fmt.Errorf("delete log %s: %w", date, err)
	}
	return s.Logs()
}

func (s *Store) CountLogs() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM study_logs`).Scan(&n)
	return n, err
}

// toHours converts a raw hours column. SQLite keeps whatever type was
// written, so text that is not a number counts as corrupt.
func toHours(v any) (float64, bool) {
	switch h := v.(type) {
	case float64:
		return h, true
	case int64:
		return float64(h), true
	case string:
		f, err := strconv.ParseFloat(h, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(h), 64)
		return f, err == nil
	}
	return 0, false
}

func validLog(l StudyLog) bool {
	if _, err := time.Parse(DateLayout, l.Date); err != nil {
		return false
	}
	if math.IsNaN(l.Hours) || math.IsInf(l.Hours, 0) {
		return false
	}
	return l.Hours >= 0 && l.Hours <= MaxHours
}
