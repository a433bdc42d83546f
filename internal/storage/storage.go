package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists the final, sorted faculty list.
	Store(ctx context.Context, faculties []*types.Faculty) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "json":
		return NewJSONStorage(cfg.OutputPath, logger)
	case "jsonl":
		return NewJSONLStorage(cfg.OutputPath, logger)
	case "mongodb":
		return NewMongoStorage(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
