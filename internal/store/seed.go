package store

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Seed fills an empty store with a year of sample data ending at today.
// Roughly 70% of days get 1.0–7.0 hours. A store that already holds logs is
// returned untouched.
func (s *Store) Seed(rng *rand.Rand, today time.Time) ([]StudyLog, error) {
	n, err := s.CountLogs()
	if err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}
	if n > 0 {
		return s.Logs()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO study_logs (date, hours, notes) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		if rng.Float64() <= 0.3 {
			continue
		}
		d := day.AddDate(0, 0, -i)
		hours := math.Round((rng.Float64()*6+1)*10) / 10
		notes := ""
		if rng.Float64() > 0.8 {
			notes = "Focused study session"
		}
		if _, err := stmt.Exec(d.Format(DateLayout), hours, notes); err != nil {
			return nil, fmt.Errorf("seed %s: %w", d.Format(DateLayout), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}
	return s.Logs()
}
