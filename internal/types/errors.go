package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrUpstreamErrorPage = errors.New("catalog returned its error page")
	ErrNoPrograms        = errors.New("no programs found")
	ErrRunAborted        = errors.New("scrape run aborted")
	ErrInvalidRange      = errors.New("invalid faculty id range")
	ErrNoFetcher         = errors.New("no fetcher configured")
	ErrBodyTooLarge      = errors.New("response body exceeds size limit")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FacultyError ties a failure to the faculty id being processed.
type FacultyError struct {
	FacultyID int
	Err       error
}

func (e *FacultyError) Error() string {
	return fmt.Sprintf("faculty %d: %v", e.FacultyID, e.Err)
}

func (e *FacultyError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the processing pipeline.
type PipelineError struct {
	Stage   string
	Faculty *Faculty
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
