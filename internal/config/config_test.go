package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"relative base url", func(c *Config) { c.Catalog.BaseURL = "catalog.huji.ac.il" }, "catalog.base_url"},
		{"trailing slash", func(c *Config) { c.Catalog.BaseURL = "https://catalog.huji.ac.il/" }, "must not end"},
		{"negative year", func(c *Config) { c.Catalog.Year = -1 }, "catalog.year"},
		{"empty selector", func(c *Config) { c.Catalog.PrimarySelector = "" }, "primary_selector"},
		{"quoted prefix", func(c *Config) { c.Catalog.AlternateIDPrefix = "a'b" }, "alternate_id_prefix"},
		{"bad on_error", func(c *Config) { c.Run.OnError = "retry" }, "run.on_error"},
		{"bad fetcher", func(c *Config) { c.Fetcher.Type = "curl" }, "fetcher.type"},
		{"zero timeout", func(c *Config) { c.Fetcher.RequestTimeout = 0 }, "request_timeout"},
		{"bad storage", func(c *Config) { c.Storage.Type = "csv" }, "storage.type"},
		{"mongo without uri", func(c *Config) { c.Storage.Type = "mongodb" }, "mongo_uri"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad metrics port", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Port = 0 }, "metrics.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateNegativeStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Start = -1

	err := Validate(cfg)
	if !errors.Is(err, types.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if !strings.Contains(err.Error(), "run.start") {
		t.Errorf("error %q should mention run.start", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facultyscrape.yaml")
	yaml := `
catalog:
  year: 2024
run:
  start: 150
  end: 160
  on_error: skip
fetcher:
  request_timeout: 5s
storage:
  type: jsonl
  output_path: out/faculties.jsonl
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Catalog.Year != 2024 {
		t.Errorf("expected year 2024, got %d", cfg.Catalog.Year)
	}
	if cfg.Run.Start != 150 || cfg.Run.End != 160 {
		t.Errorf("expected range 150-160, got %d-%d", cfg.Run.Start, cfg.Run.End)
	}
	if cfg.Run.OnError != OnErrorSkip {
		t.Errorf("expected on_error skip, got %q", cfg.Run.OnError)
	}
	if cfg.Fetcher.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Fetcher.RequestTimeout)
	}
	if cfg.Storage.Type != "jsonl" {
		t.Errorf("expected jsonl storage, got %q", cfg.Storage.Type)
	}
	// Untouched keys keep their defaults.
	if cfg.Catalog.BaseURL != "https://catalog.huji.ac.il" {
		t.Errorf("unexpected base url %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.ErrorMarker != "Something went wrong" {
		t.Errorf("unexpected error marker %q", cfg.Catalog.ErrorMarker)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FACULTYSCRAPE_RUN_END", "123")
	t.Setenv("FACULTYSCRAPE_CATALOG_BASE_URL", "http://localhost:8080")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.End != 123 {
		t.Errorf("expected env override end=123, got %d", cfg.Run.End)
	}
	if cfg.Catalog.BaseURL != "http://localhost:8080" {
		t.Errorf("expected env override base url, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected file value debug, got %q", cfg.Logging.Level)
	}
}

func TestPagesRoot(t *testing.T) {
	c := CatalogConfig{BaseURL: "https://catalog.huji.ac.il"}
	if got := c.PagesRoot(); got != "https://catalog.huji.ac.il/pages" {
		t.Errorf("unexpected pages root %q", got)
	}
}
