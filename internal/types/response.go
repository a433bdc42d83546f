package types

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
)

// Response is a fetched catalog page.
type Response struct {
	Request    *Request
	StatusCode int

	// Body is the decoded page HTML.
	Body []byte

	// Doc caches the parsed page; see Document.
	Doc *goquery.Document
}

// NewResponse wraps a decoded body fetched for req.
func NewResponse(req *Request, statusCode int, body []byte) *Response {
	return &Response{Request: req, StatusCode: statusCode, Body: body}
}

// Document parses Body on first use and reuses the result afterwards.
func (r *Response) Document() (*goquery.Document, error) {
	if r.Doc == nil {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			return nil, err
		}
		r.Doc = doc
	}
	return r.Doc, nil
}
