package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks counters for a scrape run.
type Metrics struct {
	RequestsTotal   atomic.Int64
	RequestsFailed  atomic.Int64
	BytesDownloaded atomic.Int64

	PagesParsed      atomic.Int64
	ErrorPages       atomic.Int64
	IDsSkipped       atomic.Int64
	FacultiesFound   atomic.Int64
	ProgramsFound    atomic.Int64
	FacultiesDropped atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"facultyscrape_requests_total", "Total requests made", m.RequestsTotal.Load()},
		{"facultyscrape_requests_failed_total", "Total failed requests", m.RequestsFailed.Load()},
		{"facultyscrape_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
		{"facultyscrape_pages_parsed_total", "Total faculty pages parsed", m.PagesParsed.Load()},
		{"facultyscrape_error_pages_total", "Total catalog error pages received", m.ErrorPages.Load()},
		{"facultyscrape_ids_skipped_total", "Total faculty ids that yielded nothing", m.IDsSkipped.Load()},
		{"facultyscrape_faculties_total", "Total faculties collected", m.FacultiesFound.Load()},
		{"facultyscrape_programs_total", "Total programs collected", m.ProgramsFound.Load()},
		{"facultyscrape_faculties_dropped_total", "Total faculties dropped by the pipeline", m.FacultiesDropped.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server in the background.
func (m *Metrics) StartServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":    m.RequestsTotal.Load(),
		"requests_failed":   m.RequestsFailed.Load(),
		"bytes_downloaded":  m.BytesDownloaded.Load(),
		"pages_parsed":      m.PagesParsed.Load(),
		"error_pages":       m.ErrorPages.Load(),
		"ids_skipped":       m.IDsSkipped.Load(),
		"faculties":         m.FacultiesFound.Load(),
		"programs":          m.ProgramsFound.Load(),
		"faculties_dropped": m.FacultiesDropped.Load(),
	}
}
