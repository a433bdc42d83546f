package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// Fetcher is the interface for all request fetcher implementations.
// A Fetcher owns one session: cookies set by earlier responses are sent
// with later requests for its whole lifetime.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New creates the fetcher selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "http", "":
		return NewHTTPFetcher(cfg, logger)
	case "browser":
		return NewBrowserFetcher(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", cfg.Fetcher.Type)
	}
}
