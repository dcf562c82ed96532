// Package config loads focusflow settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusflow/internal/insights"
)

type Insights struct {
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	APIKey   string        `yaml:"api_key"`
}

type Config struct {
	DBPath      string   `yaml:"db_path"`
	LogPath     string   `yaml:"log_path"`
	LogLevel    string   `yaml:"log_level"`
	SeedOnEmpty bool     `yaml:"seed_on_empty"`
	Insights    Insights `yaml:"insights"`
}

// Dir returns ~/.config/focusflow (or the platform equivalent).
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "focusflow"), nil
}

// DefaultPath returns the config file location inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Defaults() Config {
	c := Config{
		LogLevel: "info",
		Insights: Insights{
			Model:    insights.DefaultModel,
			Endpoint: insights.DefaultEndpoint,
			Timeout:  insights.DefaultTimeout,
		},
	}
	if dir, err := Dir(); err == nil {
		c.DBPath = filepath.Join(dir, "focusflow.db")
		c.LogPath = filepath.Join(dir, "focusflow.log")
	}
	return c
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg, err := loadFrom(path)
	if err != nil {
		return cfg, err
	}
	return applyEnv(cfg, os.Getenv), nil
}

func loadFrom(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Insights.Timeout <= 0 {
		cfg.Insights.Timeout = insights.DefaultTimeout
	}
	return cfg, nil
}

// applyEnv overlays FOCUSFLOW_DB and the Gemini key. GEMINI_API_KEY wins
// over API_KEY; either wins over the file.
func applyEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv("FOCUSFLOW_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		cfg.Insights.APIKey = v
	} else if v := getenv("API_KEY"); v != "" {
		cfg.Insights.APIKey = v
	}
	return cfg
}
