package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusflow/internal/insights"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" || cfg.SeedOnEmpty {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Insights.Model != insights.DefaultModel || cfg.Insights.Timeout != insights.DefaultTimeout {
		t.Fatalf("unexpected insights defaults: %+v", cfg.Insights)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := loadFrom("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Insights.Endpoint != insights.DefaultEndpoint {
		t.Fatalf("endpoint = %q", cfg.Insights.Endpoint)
	}
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(`
db_path: /tmp/study.db
log_level: debug
seed_on_empty: true
insights:
  model: gemini-pro
  timeout: 5s
  api_key: from-file
`), 0o644)

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/study.db" || cfg.LogLevel != "debug" || !cfg.SeedOnEmpty {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Insights.Model != "gemini-pro" || cfg.Insights.Timeout != 5*time.Second || cfg.Insights.APIKey != "from-file" {
		t.Fatalf("insights = %+v", cfg.Insights)
	}
	// untouched fields keep their defaults
	if cfg.Insights.Endpoint != insights.DefaultEndpoint {
		t.Fatalf("endpoint = %q", cfg.Insights.Endpoint)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("db_path: [unclosed"), 0o644)

	cfg, err := loadFrom(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if cfg.LogLevel != "info" {
		t.Fatal("malformed config should still return defaults")
	}
}

func TestApplyEnv(t *testing.T) {
	base := Defaults()
	base.Insights.APIKey = "from-file"

	cfg := applyEnv(base, env(map[string]string{"FOCUSFLOW_DB": "/data/x.db", "API_KEY": "fallback"}))
	if cfg.DBPath != "/data/x.db" {
		t.Fatalf("db = %q", cfg.DBPath)
	}
	if cfg.Insights.APIKey != "fallback" {
		t.Fatalf("key = %q", cfg.Insights.APIKey)
	}

	cfg = applyEnv(base, env(map[string]string{"GEMINI_API_KEY": "gemini", "API_KEY": "fallback"}))
	if cfg.Insights.APIKey != "gemini" {
		t.Fatalf("GEMINI_API_KEY should win, got %q", cfg.Insights.APIKey)
	}

	cfg = applyEnv(base, env(nil))
	if cfg.Insights.APIKey != "from-file" {
		t.Fatalf("file value should survive an empty environment, got %q", cfg.Insights.APIKey)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOpenLogger(t *testing.T) {
	cfg := Defaults()
	cfg.LogPath = filepath.Join(t.TempDir(), "logs", "focusflow.log")
	cfg.LogLevel = "warn"

	logger, closer, err := cfg.OpenLogger()
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	closer.Close()

	data, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "msg=shown k=v") {
		t.Fatalf("log contents:\n%s", data)
	}
}

func TestOpenLoggerDiscard(t *testing.T) {
	cfg := Defaults()
	cfg.LogPath = ""
	logger, closer, err := cfg.OpenLogger()
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
}
