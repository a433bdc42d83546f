package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Fault policies for a faculty id whose fetch fails or returns the error page.
const (
	OnErrorAbort = "abort"
	OnErrorSkip  = "skip"
)

// Config is the root configuration for facultyscrape.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Run     RunConfig     `mapstructure:"run"     yaml:"run"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// CatalogConfig describes the catalog site and the markup the parser expects.
type CatalogConfig struct {
	BaseURL           string `mapstructure:"base_url"            yaml:"base_url"`
	Year              int    `mapstructure:"year"                yaml:"year"` // 0 = current calendar year
	ErrorMarker       string `mapstructure:"error_marker"        yaml:"error_marker"`
	NameElement       string `mapstructure:"name_element"        yaml:"name_element"`
	PrimarySelector   string `mapstructure:"primary_selector"    yaml:"primary_selector"`
	AlternateIDPrefix string `mapstructure:"alternate_id_prefix" yaml:"alternate_id_prefix"`
}

// PagesRoot is the directory every catalog page lives under.
func (c CatalogConfig) PagesRoot() string {
	return c.BaseURL + "/pages"
}

// RunConfig controls the enumerated id range.
type RunConfig struct {
	Start   int    `mapstructure:"start"    yaml:"start"`
	End     int    `mapstructure:"end"      yaml:"end"`
	OnError string `mapstructure:"on_error" yaml:"on_error"`
}

// FetcherConfig controls the request fetcher.
type FetcherConfig struct {
	Type           string        `mapstructure:"type"            yaml:"type"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodySize    int64         `mapstructure:"max_body_size"   yaml:"max_body_size"`
	MaxRedirects   int           `mapstructure:"max_redirects"   yaml:"max_redirects"`
	TLSInsecure    bool          `mapstructure:"tls_insecure"    yaml:"tls_insecure"`
	UserAgents     []string      `mapstructure:"user_agents"     yaml:"user_agents"`
	AcceptLanguage string        `mapstructure:"accept_language" yaml:"accept_language"`
	Stealth        bool          `mapstructure:"stealth"         yaml:"stealth"`
}

// StorageConfig controls output/storage.
type StorageConfig struct {
	Type            string `mapstructure:"type"             yaml:"type"`
	OutputPath      string `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus text endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config pointed at the live catalog.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           "https://catalog.huji.ac.il",
			ErrorMarker:       "Something went wrong",
			NameElement:       "span#lblChugName",
			PrimarySelector:   "ul li a.contentsAnchor",
			AlternateIDPrefix: "lvMaslulim_ctrl",
		},
		Run: RunConfig{
			Start:   100,
			End:     999,
			OnError: OnErrorAbort,
		},
		Fetcher: FetcherConfig{
			Type:           "http",
			RequestTimeout: 30 * time.Second,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			MaxRedirects:   10,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			},
			AcceptLanguage: "en-US,en;q=0.9,he;q=0.8",
		},
		Storage: StorageConfig{
			Type:            "json",
			OutputPath:      "data/faculty-data.json",
			MongoDatabase:   "catalog",
			MongoCollection: "faculties",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
