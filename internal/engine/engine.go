package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/fetcher"
	"github.com/IshaanNene/facultyscrape/internal/observability"
	"github.com/IshaanNene/facultyscrape/internal/parser"
	"github.com/IshaanNene/facultyscrape/internal/pipeline"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// Pipeline is the interface for the faculty post-processing pipeline.
type Pipeline interface {
	Process(f *types.Faculty) (*types.Faculty, error)
}

// Engine enumerates faculty ids against the catalog, one request at a time,
// and aggregates the faculties it finds.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	fetcher  fetcher.Fetcher
	parser   *parser.FacultyParser
	pipeline Pipeline
	metrics  *observability.Metrics
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to pick the catalog year when none is configured.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPipeline replaces the default validate+dedup pipeline.
func WithPipeline(p Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// WithMetrics records run counters into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine that fetches through f. The engine does not close f.
func New(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		logger:  logger.With("component", "engine"),
		fetcher: f,
		parser:  parser.NewFacultyParser(cfg.Catalog, logger),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pipeline == nil {
		e.pipeline = pipeline.Default(logger)
	}
	if e.metrics == nil {
		e.metrics = observability.NewMetrics(logger)
	}
	return e
}

// Metrics returns the counters for this engine's runs.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Year returns the catalog year requests are built with.
func (e *Engine) Year() int {
	if e.cfg.Catalog.Year > 0 {
		return e.cfg.Catalog.Year
	}
	return e.now().Year()
}

// FacultyURL builds the faculty page address for id.
func (e *Engine) FacultyURL(id, year int) string {
	return fmt.Sprintf("%s/WebChugInfoNew.aspx?year=%d&faculty=1&entityId=%d&degreeCode=1",
		e.cfg.Catalog.PagesRoot(), year, id)
}

// Run scrapes every id in [start, end] in ascending order and returns the
// faculties found, sorted by name. A reversed range yields an empty result.
//
// With run.on_error "abort" any transport failure or catalog error page ends
// the run: the error wraps types.ErrRunAborted and no faculties are returned.
// With "skip" the failing id is logged and the run continues.
func (e *Engine) Run(ctx context.Context, start, end int) ([]*types.Faculty, error) {
	faculties := make([]*types.Faculty, 0)
	if start > end {
		e.logger.Warn("empty faculty range", "start", start, "end", end)
		return faculties, nil
	}
	if e.fetcher == nil {
		return nil, types.ErrNoFetcher
	}

	year := e.Year()
	skip := e.cfg.Run.OnError == config.OnErrorSkip

	e.logger.Info("starting scrape", "start", start, "end", end, "year", year, "on_error", e.cfg.Run.OnError)

	if err := e.bootstrap(ctx); err != nil {
		if !skip || ctx.Err() != nil {
			return nil, e.abort(0, err)
		}
		e.logger.Warn("bootstrap failed, continuing without session", "error", err)
	}

	for id := start; id <= end; id++ {
		if err := ctx.Err(); err != nil {
			return nil, e.abort(id, err)
		}

		faculty, err := e.scrapeFaculty(ctx, id, year)
		if err != nil {
			if skip && ctx.Err() == nil {
				e.metrics.IDsSkipped.Add(1)
				e.logger.Warn("faculty skipped", "faculty_id", id, "error", err)
				continue
			}
			return nil, e.abort(id, err)
		}
		if faculty == nil {
			e.metrics.IDsSkipped.Add(1)
			continue
		}

		faculty, err = e.pipeline.Process(faculty)
		if err != nil {
			e.logger.Warn("pipeline error", "faculty_id", id, "error", err)
		}
		if faculty == nil {
			e.metrics.FacultiesDropped.Add(1)
			continue
		}

		faculties = append(faculties, faculty)
		e.metrics.FacultiesFound.Add(1)
		e.metrics.ProgramsFound.Add(int64(len(faculty.Programs)))
		e.logger.Info("faculty added", "faculty_id", id, "name", faculty.Name, "programs", len(faculty.Programs))
	}

	types.SortFaculties(faculties)

	e.logger.Info("scrape complete", "faculties", len(faculties), "programs", e.metrics.ProgramsFound.Load())
	return faculties, nil
}

// bootstrap requests the site root so the session picks up its cookies.
func (e *Engine) bootstrap(ctx context.Context) error {
	req, err := types.NewRequest(strings.TrimSuffix(e.cfg.Catalog.BaseURL, "/") + "/")
	if err != nil {
		return err
	}
	req.Tag = types.TagBootstrap

	_, err = e.fetch(ctx, req)
	return err
}

// scrapeFaculty fetches and parses one id. It returns (nil, nil) when the
// page lists no programs.
func (e *Engine) scrapeFaculty(ctx context.Context, id, year int) (*types.Faculty, error) {
	req, err := types.NewRequest(e.FacultyURL(id, year))
	if err != nil {
		return nil, err
	}
	req.FacultyID = id

	e.logger.Debug("fetching faculty", "faculty_id", id, "url", req.URLString())

	resp, err := e.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	faculty, err := e.parser.ParseResponse(resp, year)
	e.metrics.PagesParsed.Add(1)
	switch {
	case err == nil:
		return faculty, nil
	case errors.Is(err, types.ErrNoPrograms):
		e.logger.Debug("no programs on page", "faculty_id", id)
		return nil, nil
	case errors.Is(err, types.ErrUpstreamErrorPage):
		e.metrics.ErrorPages.Add(1)
		e.logger.Error("received error page from catalog", "faculty_id", id, "url", req.URLString())
		return nil, err
	default:
		return nil, err
	}
}

func (e *Engine) fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	e.metrics.RequestsTotal.Add(1)
	resp, err := e.fetcher.Fetch(ctx, req)
	if err != nil {
		e.metrics.RequestsFailed.Add(1)
		return nil, err
	}
	e.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
	return resp, nil
}

func (e *Engine) abort(id int, err error) error {
	e.logger.Error("scrape aborted", "faculty_id", id, "error", err)
	return fmt.Errorf("%w at faculty %d: %w", types.ErrRunAborted, id, err)
}
