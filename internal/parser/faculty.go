package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// nameSeparator splits "<faculty> - <suffix>" in the page heading.
const nameSeparator = " - "

// FacultyParser turns one faculty page into a Faculty record.
type FacultyParser struct {
	resolver    *Resolver
	nameElement string
	errorMarker string
	strategies  []Strategy
	logger      *slog.Logger
}

// NewFacultyParser creates a parser using the CSS primary strategy followed
// by the id-prefix alternate strategy.
func NewFacultyParser(cfg config.CatalogConfig, logger *slog.Logger) *FacultyParser {
	return &FacultyParser{
		resolver:    NewResolver(cfg.BaseURL),
		nameElement: cfg.NameElement,
		errorMarker: cfg.ErrorMarker,
		strategies: []Strategy{
			NewCSSStrategy(cfg.PrimarySelector),
			NewIDPrefixStrategy(cfg.AlternateIDPrefix),
		},
		logger: logger.With("component", "faculty_parser"),
	}
}

// Resolver returns the URL resolver used for program links.
func (p *FacultyParser) Resolver() *Resolver {
	return p.resolver
}

// Parse extracts the faculty on page html. It returns an error wrapping
// types.ErrUpstreamErrorPage when the catalog served its error page, and one
// wrapping types.ErrNoPrograms when no strategy found a program.
func (p *FacultyParser) Parse(html []byte, facultyID int, requestURL string, year int) (*types.Faculty, error) {
	if p.errorMarker != "" && bytes.Contains(html, []byte(p.errorMarker)) {
		return nil, &types.FacultyError{FacultyID: facultyID, Err: types.ErrUpstreamErrorPage}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, &types.ParseError{URL: requestURL, Err: err}
	}
	return p.parseDocument(doc, facultyID, requestURL, year)
}

// ParseResponse parses a fetched faculty page, reusing its cached document.
func (p *FacultyParser) ParseResponse(resp *types.Response, year int) (*types.Faculty, error) {
	facultyID := resp.Request.FacultyID
	requestURL := resp.Request.URLString()

	if p.errorMarker != "" && bytes.Contains(resp.Body, []byte(p.errorMarker)) {
		return nil, &types.FacultyError{FacultyID: facultyID, Err: types.ErrUpstreamErrorPage}
	}

	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: requestURL, Err: err}
	}
	return p.parseDocument(doc, facultyID, requestURL, year)
}

func (p *FacultyParser) parseDocument(doc *goquery.Document, facultyID int, requestURL string, year int) (*types.Faculty, error) {
	name := p.facultyName(doc)

	for i, strategy := range p.strategies {
		candidates, err := strategy.Candidates(doc)
		if err != nil {
			p.logger.Warn("strategy failed", "strategy", strategy.Name(), "faculty_id", facultyID, "error", err)
			continue
		}

		programs := p.extractPrograms(candidates, year, facultyID)
		if len(programs) == 0 {
			p.logger.Debug("no programs", "strategy", strategy.Name(), "faculty_id", facultyID, "candidates", len(candidates))
			continue
		}

		// Only the fallback strategies invent a name; the primary keeps whatever the heading said.
		if i > 0 && name == "" {
			name = fmt.Sprintf("Faculty %d", facultyID)
		}

		p.logger.Debug("programs found",
			"strategy", strategy.Name(),
			"faculty_id", facultyID,
			"faculty", name,
			"programs", len(programs),
		)

		return &types.Faculty{
			ID:       facultyID,
			Name:     name,
			URL:      requestURL,
			Programs: programs,
		}, nil
	}

	return nil, &types.FacultyError{FacultyID: facultyID, Err: types.ErrNoPrograms}
}

// facultyName reads the heading element and keeps the part before " - ".
func (p *FacultyParser) facultyName(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find(p.nameElement).First().Text())
	name, _, _ := strings.Cut(title, nameSeparator)
	return strings.TrimSpace(name)
}

func (p *FacultyParser) extractPrograms(candidates []Candidate, year, facultyID int) []types.Program {
	var programs []types.Program
	for _, c := range candidates {
		program, ok := p.resolver.ExtractProgram(c, year, facultyID)
		if !ok {
			continue
		}
		programs = append(programs, program)
	}
	return programs
}
