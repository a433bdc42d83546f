package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Link styles the catalog mixes on its program lists.
const (
	postBackCall        = "__doPostBack"
	postBackOptionsCall = "WebForm_DoPostBackWithOptions"
	javascriptScheme    = "javascript:"

	// programDetailsPage is both the postback target marker and the detail page name.
	programDetailsPage = "wfrMaslulDetails"
)

var quotedArg = regexp.MustCompile(`'([^']*)'`)

// Resolver turns the href of a program link into an absolute program URL.
type Resolver struct {
	pagesRoot string
}

// NewResolver creates a Resolver for a catalog rooted at baseURL
// (scheme and host, no trailing slash).
func NewResolver(baseURL string) *Resolver {
	return &Resolver{pagesRoot: strings.TrimSuffix(baseURL, "/") + "/pages"}
}

// Resolve never fails: any href it cannot interpret becomes the fallback URL.
// Only an empty href counts as missing; whitespace is resolved as a relative path.
func (r *Resolver) Resolve(href, programID string, year, facultyID int) string {
	if href == "" {
		return r.FallbackURL(programID, year, facultyID)
	}

	if strings.Contains(href, postBackCall) || strings.Contains(href, postBackOptionsCall) ||
		strings.HasPrefix(href, javascriptScheme) {
		if u, ok := r.scriptTarget(href); ok {
			return u
		}
		return r.FallbackURL(programID, year, facultyID)
	}

	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return r.pagesRoot + href
	}
	return r.pagesRoot + "/" + href
}

// FallbackURL builds the detail page address from ids alone.
func (r *Resolver) FallbackURL(programID string, year, facultyID int) string {
	return fmt.Sprintf("%s/%s.aspx?year=%d&faculty=0&entityId=%d&chugId=%d&degreeCode=0&maslulId=%s",
		r.pagesRoot, programDetailsPage, year, facultyID, facultyID, programID)
}

// scriptTarget reads a postback or javascript: call. The first quoted argument
// names the target, the second is used verbatim as the detail page query.
func (r *Resolver) scriptTarget(href string) (string, bool) {
	args := scriptArgs(href)
	if len(args) < 2 || !strings.Contains(args[0], programDetailsPage) {
		return "", false
	}
	return fmt.Sprintf("%s/%s.aspx?%s", r.pagesRoot, programDetailsPage, args[1]), true
}

func scriptArgs(href string) []string {
	matches := quotedArg.FindAllStringSubmatch(href, -1)
	args := make([]string, 0, len(matches))
	for _, m := range matches {
		args = append(args, m[1])
	}
	return args
}
