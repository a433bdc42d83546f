package parser

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const requestURL = "https://catalog.huji.ac.il/pages/WebChugInfoNew.aspx?year=2024&faculty=1&entityId=5&degreeCode=1"

const primaryHTML = `<!DOCTYPE html>
<html>
<body>
    <span id="lblChugName">  Faculty of Science - Undergraduate Studies </span>
    <ul>
        <li><a class="contentsAnchor" href="__doPostBack('wfrMaslulDetails','year=2024&amp;maslulId=101')">Computer Science (101)</a></li>
        <li><a class="contentsAnchor" href="">Mathematics (102)</a></li>
        <li><a class="contentsAnchor" href="#">Overview</a></li>
    </ul>
    <a class="contentsAnchor" href="/elsewhere">Not In A List (999)</a>
</body>
</html>`

const alternateHTML = `<!DOCTYPE html>
<html>
<body>
    <table>
        <tr><td><a id="lvMaslulim_ctrl0_lnkMaslul" href="javascript:__doPostBack('lvMaslulim$ctrl0$lnkMaslul','')">History (201)</a></td></tr>
        <tr><td><a id="lvMaslulim_ctrl1_lnkMaslul" href="wfrMaslulDetails.aspx?maslulId=202">Philosophy (202)</a></td></tr>
        <tr><td><a id="lvMaslulim_ctrl2_lnkMaslul">Linguistics (203)</a></td></tr>
        <tr><td><a id="lvMaslulim_ctrl3_lnkMaslul">Header Row</a></td></tr>
        <tr><td><a id="footer_link">Contact (9)</a></td></tr>
    </table>
</body>
</html>`

func newTestParser() *FacultyParser {
	return NewFacultyParser(config.DefaultConfig().Catalog, testLogger)
}

func TestParsePrimaryStrategy(t *testing.T) {
	p := newTestParser()

	got, err := p.Parse([]byte(primaryHTML), 5, requestURL, 2024)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := &types.Faculty{
		ID:   5,
		Name: "Faculty of Science",
		URL:  requestURL,
		Programs: []types.Program{
			{ID: "101", Name: "Computer Science", URL: "https://catalog.huji.ac.il/pages/wfrMaslulDetails.aspx?year=2024&maslulId=101"},
			{ID: "102", Name: "Mathematics", URL: "https://catalog.huji.ac.il/pages/wfrMaslulDetails.aspx?year=2024&faculty=0&entityId=5&chugId=5&degreeCode=0&maslulId=102"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("faculty mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAlternateStrategyDefaultsName(t *testing.T) {
	p := newTestParser()

	got, err := p.Parse([]byte(alternateHTML), 7, requestURL, 2024)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if got.Name != "Faculty 7" {
		t.Errorf("expected synthetic name, got %q", got.Name)
	}
	if len(got.Programs) != 3 {
		t.Fatalf("expected 3 programs, got %d: %+v", len(got.Programs), got.Programs)
	}

	wantIDs := []string{"201", "202", "203"}
	for i, program := range got.Programs {
		if program.ID != wantIDs[i] {
			t.Errorf("program %d: expected id %s, got %s", i, wantIDs[i], program.ID)
		}
	}
	if got.Programs[0].URL != "https://catalog.huji.ac.il/pages/wfrMaslulDetails.aspx?year=2024&faculty=0&entityId=7&chugId=7&degreeCode=0&maslulId=201" {
		t.Errorf("expected fallback URL for foreign postback, got %q", got.Programs[0].URL)
	}
	if got.Programs[1].URL != "https://catalog.huji.ac.il/pages/wfrMaslulDetails.aspx?maslulId=202" {
		t.Errorf("expected relative href resolved, got %q", got.Programs[1].URL)
	}
}

func TestParseAlternateStrategyKeepsHeading(t *testing.T) {
	p := newTestParser()
	html := `<html><body><span id="lblChugName">Humanities - 2024</span>
<a id="lvMaslulim_ctrl0_lnk">Classics (301)</a></body></html>`

	got, err := p.Parse([]byte(html), 8, requestURL, 2024)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.Name != "Humanities" {
		t.Errorf("expected heading name, got %q", got.Name)
	}
}

func TestParsePrimaryStrategyKeepsEmptyName(t *testing.T) {
	p := newTestParser()
	html := `<html><body><ul><li><a class="contentsAnchor">Law (401)</a></li></ul></body></html>`

	got, err := p.Parse([]byte(html), 9, requestURL, 2024)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.Name != "" {
		t.Errorf("primary strategy should not invent a name, got %q", got.Name)
	}
}

func TestParseErrorPage(t *testing.T) {
	p := newTestParser()
	html := `<html><body><h1>Something went wrong</h1>` + primaryHTML + `</body></html>`

	_, err := p.Parse([]byte(html), 5, requestURL, 2024)
	if !errors.Is(err, types.ErrUpstreamErrorPage) {
		t.Fatalf("expected ErrUpstreamErrorPage, got %v", err)
	}

	var facultyErr *types.FacultyError
	if !errors.As(err, &facultyErr) || facultyErr.FacultyID != 5 {
		t.Errorf("expected FacultyError for id 5, got %v", err)
	}
}

func TestParseNoPrograms(t *testing.T) {
	p := newTestParser()
	html := `<html><body><span id="lblChugName">Empty - 2024</span><ul><li><a class="contentsAnchor">About</a></li></ul></body></html>`

	got, err := p.Parse([]byte(html), 3, requestURL, 2024)
	if !errors.Is(err, types.ErrNoPrograms) {
		t.Fatalf("expected ErrNoPrograms, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no faculty, got %+v", got)
	}
}

func TestParseResponse(t *testing.T) {
	p := newTestParser()
	req, _ := types.NewRequest(requestURL)
	req.FacultyID = 5
	resp := &types.Response{
		Request:    req,
		StatusCode: 200,
		Body:       []byte(primaryHTML),
	}

	got, err := p.ParseResponse(resp, 2024)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if got.ID != 5 || got.URL != requestURL {
		t.Errorf("unexpected identity: id=%d url=%q", got.ID, got.URL)
	}
	if len(got.Programs) != 2 {
		t.Errorf("expected 2 programs, got %d", len(got.Programs))
	}
	if resp.Doc == nil {
		t.Error("expected the response document to be cached")
	}
}

func TestIDPrefixStrategyExpr(t *testing.T) {
	s := NewIDPrefixStrategy("lvMaslulim_ctrl")
	if s.Expr != "//a[starts-with(@id, 'lvMaslulim_ctrl')]" {
		t.Errorf("unexpected expression %q", s.Expr)
	}
}
