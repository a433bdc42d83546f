package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

// --- JSON Storage ---

// JSONStorage writes faculties as one pretty-printed JSON array.
type JSONStorage struct {
	path   string
	logger *slog.Logger
}

// NewJSONStorage creates a JSON file storage, creating the output directory.
func NewJSONStorage(outputPath string, logger *slog.Logger) (*JSONStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}
	return &JSONStorage{
		path:   outputPath,
		logger: logger.With("component", "json_storage"),
	}, nil
}

func (s *JSONStorage) Name() string { return "json" }

// Store replaces the output file with the faculties, indented by two spaces.
func (s *JSONStorage) Store(_ context.Context, faculties []*types.Faculty) error {
	if faculties == nil {
		faculties = []*types.Faculty{}
	}

	// URLs carry '&'; keep them readable instead of \u0026.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(faculties); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSON: %w", err)}
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSON written", "path", s.path, "faculties", len(faculties))
	return nil
}

func (s *JSONStorage) Close() error { return nil }

// --- JSONL Storage ---

// JSONLStorage writes one faculty object per line.
type JSONLStorage struct {
	path   string
	logger *slog.Logger
}

// NewJSONLStorage creates a JSONL file storage, creating the output directory.
func NewJSONLStorage(outputPath string, logger *slog.Logger) (*JSONLStorage, error) {
	if err := ensureDir(outputPath); err != nil {
		return nil, err
	}
	return &JSONLStorage{
		path:   outputPath,
		logger: logger.With("component", "jsonl_storage"),
	}, nil
}

func (s *JSONLStorage) Name() string { return "jsonl" }

func (s *JSONLStorage) Store(_ context.Context, faculties []*types.Faculty) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, f := range faculties {
		if err := enc.Encode(f); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSONL: %w", err)}
		}
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	s.logger.Info("JSONL written", "path", s.path, "faculties", len(faculties))
	return nil
}

func (s *JSONLStorage) Close() error { return nil }

func ensureDir(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// writeFileAtomic writes through a temp file so a failed write never
// leaves a truncated output behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
