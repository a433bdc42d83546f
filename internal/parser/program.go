package parser

import (
	"regexp"
	"strings"

	"github.com/IshaanNene/facultyscrape/internal/types"
)

var programIDPattern = regexp.MustCompile(`\((\d+)\)`)

// Candidate is a link that may describe a program: its visible text and href.
type Candidate struct {
	Text string
	Href string
}

// ParseProgramLabel splits "<name> (<id>)" using the last parenthesized number
// in the label. ok is false when the label carries no such number.
func ParseProgramLabel(label string) (name, id string, ok bool) {
	label = strings.TrimSpace(label)
	matches := programIDPattern.FindAllStringSubmatchIndex(label, -1)
	if len(matches) == 0 {
		return "", "", false
	}

	m := matches[len(matches)-1]
	id = label[m[2]:m[3]]
	name = strings.TrimSpace(label[:m[0]] + label[m[1]:])
	return name, id, true
}

// ExtractProgram builds a Program from a candidate link. ok is false for
// links that are not programs.
func (r *Resolver) ExtractProgram(c Candidate, year, facultyID int) (types.Program, bool) {
	name, id, ok := ParseProgramLabel(c.Text)
	if !ok {
		return types.Program{}, false
	}

	return types.Program{
		ID:   id,
		Name: name,
		URL:  r.Resolve(c.Href, id, year, facultyID),
	}, true
}
