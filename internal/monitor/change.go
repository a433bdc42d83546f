package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

// ChangeType identifies what kind of change occurred.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// Change is one difference between two faculty documents.
// ProgramID is empty when the change concerns the faculty itself.
type Change struct {
	FacultyID int        `json:"faculty_id"`
	ProgramID string     `json:"program_id,omitempty"`
	Type      ChangeType `json:"type"`
	Field     string     `json:"field,omitempty"`
	OldValue  string     `json:"old_value,omitempty"`
	NewValue  string     `json:"new_value,omitempty"`
}

func (c Change) String() string {
	target := fmt.Sprintf("faculty %d", c.FacultyID)
	if c.ProgramID != "" {
		target += " program " + c.ProgramID
	}
	if c.Type == ChangeModified {
		return fmt.Sprintf("%s %s: %s %q -> %q", target, c.Type, c.Field, c.OldValue, c.NewValue)
	}
	return fmt.Sprintf("%s %s", target, c.Type)
}

// ChangeDetector compares a fresh scrape against the previously written
// faculty document.
type ChangeDetector struct {
	logger *slog.Logger
}

// NewChangeDetector creates a new change detector.
func NewChangeDetector(logger *slog.Logger) *ChangeDetector {
	return &ChangeDetector{
		logger: logger.With("component", "change_detector"),
	}
}

// LoadSnapshot reads a faculty JSON document. A missing file is not an
// error and yields a nil snapshot.
func (cd *ChangeDetector) LoadSnapshot(path string) ([]*types.Faculty, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var faculties []*types.Faculty
	if err := json.Unmarshal(data, &faculties); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return faculties, nil
}

// Detect returns the changes from old to current, ordered by faculty id.
func (cd *ChangeDetector) Detect(old, current []*types.Faculty) []Change {
	before := indexFaculties(old)
	after := indexFaculties(current)

	var changes []Change
	for id, f := range after {
		prev, ok := before[id]
		if !ok {
			changes = append(changes, Change{FacultyID: id, Type: ChangeAdded, NewValue: f.Name})
			continue
		}
		changes = append(changes, diffFaculty(prev, f)...)
	}
	for id, f := range before {
		if _, ok := after[id]; !ok {
			changes = append(changes, Change{FacultyID: id, Type: ChangeRemoved, OldValue: f.Name})
		}
	}

	slices.SortFunc(changes, func(a, b Change) int {
		if a.FacultyID != b.FacultyID {
			return a.FacultyID - b.FacultyID
		}
		if a.ProgramID != b.ProgramID {
			if a.ProgramID < b.ProgramID {
				return -1
			}
			return 1
		}
		if a.Field < b.Field {
			return -1
		}
		if a.Field > b.Field {
			return 1
		}
		return 0
	})

	cd.logger.Debug("snapshot compared", "previous", len(old), "current", len(current), "changes", len(changes))
	return changes
}

func diffFaculty(old, cur *types.Faculty) []Change {
	var changes []Change
	if old.Name != cur.Name {
		changes = append(changes, Change{
			FacultyID: cur.ID, Type: ChangeModified, Field: "name",
			OldValue: old.Name, NewValue: cur.Name,
		})
	}

	before := make(map[string]types.Program, len(old.Programs))
	for _, p := range old.Programs {
		before[p.ID] = p
	}
	seen := make(map[string]bool, len(cur.Programs))
	for _, p := range cur.Programs {
		seen[p.ID] = true
		prev, ok := before[p.ID]
		switch {
		case !ok:
			changes = append(changes, Change{FacultyID: cur.ID, ProgramID: p.ID, Type: ChangeAdded, NewValue: p.Name})
		case prev.Name != p.Name:
			changes = append(changes, Change{
				FacultyID: cur.ID, ProgramID: p.ID, Type: ChangeModified, Field: "name",
				OldValue: prev.Name, NewValue: p.Name,
			})
		case prev.URL != p.URL:
			changes = append(changes, Change{
				FacultyID: cur.ID, ProgramID: p.ID, Type: ChangeModified, Field: "url",
				OldValue: prev.URL, NewValue: p.URL,
			})
		}
	}
	for _, p := range old.Programs {
		if !seen[p.ID] {
			changes = append(changes, Change{FacultyID: cur.ID, ProgramID: p.ID, Type: ChangeRemoved, OldValue: p.Name})
		}
	}
	return changes
}

func indexFaculties(faculties []*types.Faculty) map[int]*types.Faculty {
	idx := make(map[int]*types.Faculty, len(faculties))
	for _, f := range faculties {
		if f != nil {
			idx[f.ID] = f
		}
	}
	return idx
}
