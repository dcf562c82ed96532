package store

import (
	"encoding/json"
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Goals returns the stored targets. Missing, corrupt or non-positive fields
// fall back to DefaultGoals field by field.
func (s *Store) Goals() Goals {
	g := DefaultGoals
	raw, err := s.GetSetting("goals")
	if err != nil {
		return g
	}
	var stored Goals
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return g
	}
	if stored.Weekly > 0 {
		g.Weekly = stored.Weekly
	}
	if stored.Monthly > 0 {
		g.Monthly = stored.Monthly
	}
	if stored.Yearly > 0 {
		g.Yearly = stored.Yearly
	}
	return g
}

func (s *Store) SaveGoals(g Goals) (Goals, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return Goals{}, fmt.Errorf("marshal goals: %w", err)
	}
	if err := s.SetSetting("goals", string(data)); err != nil {
		return Goals{}, fmt.Errorf("save goals: %w", err)
	}
	return g, nil
}

func (s *Store) Preferences() Preferences {
	p := DefaultPreferences
	if v, err := s.GetSetting("sound_enabled"); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			p.SoundEnabled = b
		}
	}
	if v, err := s.GetSetting("heatmap_theme"); err == nil {
		if th := HeatmapTheme(v); th.Valid() {
			p.HeatmapTheme = th
		}
	}
	return p
}

func (s *Store) SavePreferences(p Preferences) error {
	if err := s.SetSetting("sound_enabled", strconv.FormatBool(p.SoundEnabled)); err != nil {
		return fmt.Errorf("save sound preference: %w", err)
	}
	theme := p.HeatmapTheme
	if !theme.Valid() {
		theme = ThemeGreen
	}
	if err := s.SetSetting("heatmap_theme", string(theme)); err != nil {
		return fmt.Errorf("save theme preference: %w", err)
	}
	return nil
}
