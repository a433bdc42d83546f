package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Catalog.BaseURL); err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if strings.HasSuffix(cfg.Catalog.BaseURL, "/") {
		return fmt.Errorf("catalog.base_url must not end with '/', got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Year < 0 {
		return fmt.Errorf("catalog.year must be >= 0, got %d", cfg.Catalog.Year)
	}
	if cfg.Catalog.PrimarySelector == "" {
		return fmt.Errorf("catalog.primary_selector must not be empty")
	}
	if cfg.Catalog.AlternateIDPrefix == "" {
		return fmt.Errorf("catalog.alternate_id_prefix must not be empty")
	}
	if strings.Contains(cfg.Catalog.AlternateIDPrefix, "'") {
		return fmt.Errorf("catalog.alternate_id_prefix must not contain quotes")
	}

	if cfg.Run.Start < 0 {
		return fmt.Errorf("%w: run.start must be >= 0, got %d", types.ErrInvalidRange, cfg.Run.Start)
	}
	if cfg.Run.OnError != OnErrorAbort && cfg.Run.OnError != OnErrorSkip {
		return fmt.Errorf("run.on_error must be 'abort' or 'skip', got %q", cfg.Run.OnError)
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	switch cfg.Storage.Type {
	case "json", "jsonl":
		if cfg.Storage.OutputPath == "" {
			return fmt.Errorf("storage.output_path must not be empty")
		}
	case "mongodb":
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for mongodb storage")
		}
	default:
		return fmt.Errorf("storage.type %q is not supported (valid: json, jsonl, mongodb)", cfg.Storage.Type)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that a URL is an absolute http(s) address.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
