package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

// Middleware processes a faculty and returns the (possibly modified) record.
// Return nil to drop the faculty from the result.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms a faculty. Return nil to drop it.
	Process(f *types.Faculty) (*types.Faculty, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Default returns the pipeline every run uses.
func Default(logger *slog.Logger) *Pipeline {
	p := New(logger)
	p.Use(NewValidateMiddleware(logger))
	return p
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the faculty through all middleware in order.
func (p *Pipeline) Process(f *types.Faculty) (*types.Faculty, error) {
	current := f

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:   mw.Name(),
				Faculty: current,
				Err:     err,
			}
		}
		if result == nil {
			p.logger.Debug("faculty dropped", "stage", mw.Name(), "faculty_id", f.ID)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}

// --- Built-in Middleware ---

// ValidateMiddleware checks records against their struct tags and logs
// every failed rule. It reports only: records always pass through unchanged.
type ValidateMiddleware struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidateMiddleware creates a validation stage.
func NewValidateMiddleware(logger *slog.Logger) *ValidateMiddleware {
	return &ValidateMiddleware{
		validate: validator.New(),
		logger:   logger.With("component", "validate"),
	}
}

func (m *ValidateMiddleware) Name() string { return "validate" }

func (m *ValidateMiddleware) Process(f *types.Faculty) (*types.Faculty, error) {
	for _, p := range f.Programs {
		if err := m.check(f.ID, p); err != nil {
			return nil, err
		}
	}
	if err := m.check(f.ID, f); err != nil {
		return nil, err
	}
	return f, nil
}

// check logs each rule v fails. Only a validator misuse is returned as an error.
func (m *ValidateMiddleware) check(facultyID int, v any) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		m.logger.Warn("invalid record field",
			"faculty_id", facultyID,
			"field", fe.Namespace(),
			"rule", fe.Tag(),
			"value", fmt.Sprint(fe.Value()),
		)
	}
	return nil
}
