package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/engine"
	"github.com/IshaanNene/facultyscrape/internal/fetcher"
	"github.com/IshaanNene/facultyscrape/internal/monitor"
	"github.com/IshaanNene/facultyscrape/internal/observability"
	"github.com/IshaanNene/facultyscrape/internal/storage"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

var (
	cfgFile    string
	verbose    bool
	startID    int
	endID      int
	year       int
	outputPath string
	outputType string
	onError    string
	fetchType  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "facultyscrape",
		Short: "Scrape faculties and study programs from the HUJI course catalog",
		Long: `facultyscrape enumerates faculty ids against the Hebrew University
catalog, extracts each faculty's study programs and writes them as one
JSON document sorted by faculty name.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Enumerate faculty ids and write the faculty document",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}

	cmd.Flags().IntVar(&startID, "start", 0, "first faculty id (default from config: 100)")
	cmd.Flags().IntVar(&endID, "end", 0, "last faculty id, inclusive (default from config: 999)")
	cmd.Flags().IntVar(&year, "year", 0, "catalog year (default: current year)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: json, jsonl, mongodb")
	cmd.Flags().StringVar(&onError, "on-error", "", "failure policy: abort or skip")
	cmd.Flags().StringVar(&fetchType, "fetcher", "", "fetcher: http or browser")

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cmd, cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create fetcher: %w", err)
	}
	defer f.Close()

	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	eng := engine.New(cfg, f, logger, engine.WithMetrics(metrics))

	started := time.Now()
	faculties, err := eng.Run(ctx, cfg.Run.Start, cfg.Run.End)
	if err != nil {
		return err
	}

	if cfg.Storage.Type == "json" {
		reportChanges(logger, cfg.Storage.OutputPath, faculties)
	}

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := store.Store(ctx, faculties); err != nil {
		store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	elapsed := time.Since(started)
	stats := metrics.Snapshot()

	logger.Info("scrape finished",
		"elapsed", elapsed,
		"faculties", stats["faculties"],
		"programs", stats["programs"],
		"skipped", stats["ids_skipped"],
		"storage", store.Name(),
	)

	fmt.Printf("\nScrape complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Requests:   %v sent, %v failed\n", stats["requests_total"], stats["requests_failed"])
	fmt.Printf("   Faculties:  %v found, %v dropped\n", stats["faculties"], stats["faculties_dropped"])
	fmt.Printf("   Programs:   %v\n", stats["programs"])
	if cfg.Storage.Type == "mongodb" {
		fmt.Printf("   Output:     %s.%s\n", cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
	} else {
		fmt.Printf("   Output:     %s\n", cfg.Storage.OutputPath)
	}

	return nil
}

// reportChanges logs how faculties differ from the document about to be
// overwritten.
func reportChanges(logger *slog.Logger, path string, faculties []*types.Faculty) {
	detector := monitor.NewChangeDetector(logger)
	previous, err := detector.LoadSnapshot(path)
	if err != nil {
		logger.Warn("previous output unreadable, skipping change report", "error", err)
		return
	}
	if previous == nil {
		return
	}

	changes := detector.Detect(previous, faculties)
	for _, c := range changes {
		logger.Info("catalog change", "change", c.String())
	}
	logger.Info("compared with previous output", "path", path, "changes", len(changes))
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("facultyscrape %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Catalog:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Catalog.BaseURL)
			fmt.Printf("  Pages Root:        %s\n", cfg.Catalog.PagesRoot())
			fmt.Printf("  Year:              %s\n", yearLabel(cfg.Catalog.Year))
			fmt.Printf("  Primary Selector:  %s\n", cfg.Catalog.PrimarySelector)
			fmt.Printf("  Alternate Prefix:  %s\n", cfg.Catalog.AlternateIDPrefix)
			fmt.Printf("\nRun:\n")
			fmt.Printf("  Range:             %d..%d\n", cfg.Run.Start, cfg.Run.End)
			fmt.Printf("  On Error:          %s\n", cfg.Run.OnError)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

func yearLabel(y int) string {
	if y > 0 {
		return fmt.Sprint(y)
	}
	return fmt.Sprintf("current (%d)", time.Now().Year())
}

// setupLogger creates a structured logger.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Run.Start = startID
	}
	if flags.Changed("end") {
		cfg.Run.End = endID
	}
	if flags.Changed("year") {
		cfg.Catalog.Year = year
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if onError != "" {
		cfg.Run.OnError = strings.ToLower(onError)
	}
	if fetchType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetchType)
	}
}
