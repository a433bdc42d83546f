package monitor

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestDetect(t *testing.T) {
	old := []*types.Faculty{
		{ID: 1, Name: "Arts", Programs: []types.Program{
			{ID: "10", Name: "History", URL: "https://x/10"},
			{ID: "11", Name: "Philosophy", URL: "https://x/11"},
		}},
		{ID: 2, Name: "Law", Programs: []types.Program{{ID: "20", Name: "Law", URL: "https://x/20"}}},
	}
	current := []*types.Faculty{
		{ID: 1, Name: "Humanities", Programs: []types.Program{
			{ID: "10", Name: "History", URL: "https://x/10b"},
			{ID: "12", Name: "Linguistics", URL: "https://x/12"},
		}},
		{ID: 3, Name: "Medicine", Programs: []types.Program{{ID: "30", Name: "Nursing", URL: "https://x/30"}}},
	}

	got := NewChangeDetector(testLogger).Detect(old, current)
	want := []Change{
		{FacultyID: 1, Type: ChangeModified, Field: "name", OldValue: "Arts", NewValue: "Humanities"},
		{FacultyID: 1, ProgramID: "10", Type: ChangeModified, Field: "url", OldValue: "https://x/10", NewValue: "https://x/10b"},
		{FacultyID: 1, ProgramID: "11", Type: ChangeRemoved, OldValue: "Philosophy"},
		{FacultyID: 1, ProgramID: "12", Type: ChangeAdded, NewValue: "Linguistics"},
		{FacultyID: 2, Type: ChangeRemoved, OldValue: "Law"},
		{FacultyID: 3, Type: ChangeAdded, NewValue: "Medicine"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Detect mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectUnchanged(t *testing.T) {
	doc := []*types.Faculty{{ID: 1, Name: "Arts", Programs: []types.Program{{ID: "10", Name: "History", URL: "https://x/10"}}}}
	if got := NewChangeDetector(testLogger).Detect(doc, doc); len(got) != 0 {
		t.Errorf("expected no changes, got %v", got)
	}
}

func TestLoadSnapshot(t *testing.T) {
	cd := NewChangeDetector(testLogger)
	dir := t.TempDir()

	missing, err := cd.LoadSnapshot(filepath.Join(dir, "none.json"))
	if err != nil || missing != nil {
		t.Fatalf("expected nil snapshot for missing file, got %v, %v", missing, err)
	}

	path := filepath.Join(dir, "faculty-data.json")
	data := `[{"id":5,"name":"Arts","url":"https://x/5","programs":[{"id":"1","name":"History","url":"https://x/1"}]}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := cd.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != 5 || got[0].Programs[0].Name != "History" {
		t.Errorf("unexpected snapshot: %+v", got)
	}

	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cd.LoadSnapshot(path); err == nil {
		t.Error("expected decode error")
	}
}

func TestChangeString(t *testing.T) {
	c := Change{FacultyID: 1, ProgramID: "10", Type: ChangeModified, Field: "name", OldValue: "a", NewValue: "b"}
	if got, want := c.String(), `faculty 1 program 10 modified: name "a" -> "b"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
