package types

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Tags describing what a request is for.
const (
	TagBootstrap = "bootstrap"
	TagFaculty   = "faculty"
)

// Request is a single GET issued against the catalog site.
type Request struct {
	// URL is the target URL to fetch.
	URL *url.URL

	// Method is the HTTP method. Defaults to GET.
	Method string

	// Headers are added on top of the fetcher's browser header set.
	Headers http.Header

	// FacultyID is the entity id this request enumerates, 0 for the bootstrap request.
	FacultyID int

	// Tag categorizes this request (bootstrap or faculty).
	Tag string

	// Timeout overrides the global request timeout for this request.
	Timeout time.Duration

	CreatedAt time.Time
}

// NewRequest creates a new GET Request.
func NewRequest(rawURL string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	return &Request{
		URL:       u,
		Method:    http.MethodGet,
		Headers:   make(http.Header),
		Tag:       TagFaculty,
		CreatedAt: time.Now(),
	}, nil
}

// URLString returns the string representation of the request URL.
func (r *Request) URLString() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.String()
}
