package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newFaculty(id int, name string) *types.Faculty {
	return &types.Faculty{
		ID:   id,
		Name: name,
		URL:  "https://catalog.huji.ac.il/pages/WebChugInfoNew.aspx?year=2024&faculty=1&entityId=100&degreeCode=1",
		Programs: []types.Program{
			{ID: "101", Name: "Computer Science", URL: "https://catalog.huji.ac.il/pages/wfrMaslulDetails.aspx?maslulId=101"},
		},
	}
}

func TestDefaultPipelinePassesValidFaculty(t *testing.T) {
	p := Default(testLogger)
	if p.Len() != 1 {
		t.Fatalf("expected 1 middleware, got %d", p.Len())
	}

	f := newFaculty(100, "Science")
	got, err := p.Process(f)
	if err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	if got != f {
		t.Fatal("valid faculty should pass unchanged")
	}
}

func TestDefaultPipelineKeepsRepeatedRuns(t *testing.T) {
	p := Default(testLogger)
	for run := 0; run < 2; run++ {
		if got, _ := p.Process(newFaculty(100, "Science")); got == nil {
			t.Fatalf("run %d: faculty dropped", run)
		}
	}
}

func TestValidateMiddlewareReportsWithoutDropping(t *testing.T) {
	var logs bytes.Buffer
	m := NewValidateMiddleware(slog.New(slog.NewTextHandler(&logs, nil)))

	f := newFaculty(100, "Science")
	f.URL = "/pages/WebChugInfoNew.aspx"
	f.Programs = append(f.Programs,
		types.Program{ID: "", Name: "No ID", URL: "https://catalog.huji.ac.il/x"},
		types.Program{ID: "7", Name: "Odd link", URL: "httpdocs/maslul.aspx"},
	)

	got, err := m.Process(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got.Programs) != 3 {
		t.Fatalf("expected all 3 programs to be kept, got %+v", got)
	}

	out := logs.String()
	for _, want := range []string{"Program.ID", "Faculty.URL"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected a warning for %s, logs:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Program.URL") {
		t.Errorf("program URLs are kept verbatim and must not be flagged, logs:\n%s", out)
	}
}

type failingMiddleware struct{}

func (failingMiddleware) Name() string { return "failing" }

func (failingMiddleware) Process(f *types.Faculty) (*types.Faculty, error) {
	return nil, errors.New("boom")
}

func TestPipelineWrapsErrors(t *testing.T) {
	p := New(testLogger)
	p.Use(failingMiddleware{})

	_, err := p.Process(newFaculty(1, "X"))
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	if pe.Stage != "failing" {
		t.Errorf("expected stage 'failing', got %q", pe.Stage)
	}
}
