package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Strategy locates candidate program links on a faculty page.
// FacultyParser tries its strategies in order until one yields a program.
type Strategy interface {
	Name() string
	Candidates(doc *goquery.Document) ([]Candidate, error)
}

// CSSStrategy selects candidates with a CSS selector.
type CSSStrategy struct {
	Selector string
}

// NewCSSStrategy creates a strategy for the given selector.
func NewCSSStrategy(selector string) *CSSStrategy {
	return &CSSStrategy{Selector: selector}
}

func (s *CSSStrategy) Name() string { return "css" }

func (s *CSSStrategy) Candidates(doc *goquery.Document) ([]Candidate, error) {
	var candidates []Candidate
	doc.Find(s.Selector).Each(func(_ int, sel *goquery.Selection) {
		candidates = append(candidates, Candidate{
			Text: strings.TrimSpace(sel.Text()),
			Href: sel.AttrOr("href", ""),
		})
	})
	return candidates, nil
}

// XPathStrategy selects candidates with an XPath expression. It runs on the
// node tree goquery already parsed.
type XPathStrategy struct {
	Expr string
}

// NewIDPrefixStrategy matches anchors whose id starts with prefix, the way
// the catalog's list views number their rows.
func NewIDPrefixStrategy(prefix string) *XPathStrategy {
	return &XPathStrategy{Expr: fmt.Sprintf("//a[starts-with(@id, '%s')]", prefix)}
}

func (s *XPathStrategy) Name() string { return "xpath" }

func (s *XPathStrategy) Candidates(doc *goquery.Document) ([]Candidate, error) {
	if len(doc.Nodes) == 0 {
		return nil, nil
	}

	nodes, err := htmlquery.QueryAll(doc.Nodes[0], s.Expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", s.Expr, err)
	}

	candidates := make([]Candidate, 0, len(nodes))
	for _, node := range nodes {
		candidates = append(candidates, Candidate{
			Text: strings.TrimSpace(htmlquery.InnerText(node)),
			Href: htmlquery.SelectAttr(node, "href"),
		})
	}
	return candidates, nil
}
