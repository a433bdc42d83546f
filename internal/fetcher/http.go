package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/net/publicsuffix"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// HTTPFetcher implements Fetcher using net/http with a persistent cookie jar.
type HTTPFetcher struct {
	client      *http.Client
	jar         http.CookieJar
	cfg         *config.FetcherConfig
	baseURL     string
	logger      *slog.Logger
	userAgents  []string
	uaIndex     int
	maxBodySize int64
}

// NewHTTPFetcher creates a new HTTP fetcher.
func NewHTTPFetcher(cfg *config.Config, logger *slog.Logger) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Fetcher.TLSInsecure,
		},
		DisableCompression: true, // We handle decompression ourselves (including brotli)
	}

	maxRedirects := cfg.Fetcher.MaxRedirects
	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("max redirects (%d) reached", maxRedirects)
		}
		return nil
	}

	client := &http.Client{
		Transport:     transport,
		Jar:           jar,
		Timeout:       cfg.Fetcher.RequestTimeout,
		CheckRedirect: redirectPolicy,
	}

	return &HTTPFetcher{
		client:      client,
		jar:         jar,
		cfg:         &cfg.Fetcher,
		baseURL:     strings.TrimSuffix(cfg.Catalog.BaseURL, "/"),
		logger:      logger.With("component", "http_fetcher"),
		userAgents:  cfg.Fetcher.UserAgents,
		maxBodySize: cfg.Fetcher.MaxBodySize,
	}, nil
}

// Fetch executes an HTTP request and returns the response.
// Any non-2xx status is returned as a *types.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URLString(), nil)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	f.setBrowserHeaders(httpReq)
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Set(key, v)
		}
	}

	start := time.Now()
	httpResp, err := f.client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, &types.FetchError{
			URL:        req.URLString(),
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	reader, err := decompressReader(httpResp, httpResp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	// Bodies over the limit fail; they are never truncated.
	if f.maxBodySize > 0 {
		reader = io.LimitReader(reader, f.maxBodySize+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}
	if f.maxBodySize > 0 && int64(len(body)) > f.maxBodySize {
		return nil, &types.FetchError{
			URL:        req.URLString(),
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("%w: limit %d bytes", types.ErrBodyTooLarge, f.maxBodySize),
		}
	}

	resp := types.NewResponse(req, httpResp.StatusCode, body)

	f.logger.Debug("fetch complete",
		"url", req.URLString(),
		"status", resp.StatusCode,
		"size", len(body),
		"duration", duration,
	)

	return resp, nil
}

// Cookies returns the session cookies the jar would send to rawURL.
func (f *HTTPFetcher) Cookies(rawURL string) []*http.Cookie {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return f.jar.Cookies(u)
}

// Close releases resources.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// Type returns the fetcher type identifier.
func (f *HTTPFetcher) Type() string {
	return "http"
}

// setBrowserHeaders makes requests look like they come from a page on the catalog.
func (f *HTTPFetcher) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	if f.cfg.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.cfg.AcceptLanguage)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if f.baseURL != "" {
		req.Header.Set("Referer", f.baseURL+"/")
		req.Header.Set("Origin", f.baseURL)
	}
}

// nextUserAgent returns the next User-Agent in rotation.
func (f *HTTPFetcher) nextUserAgent() string {
	if len(f.userAgents) == 0 {
		return "facultyscrape/" + config.Version
	}
	ua := f.userAgents[f.uaIndex%len(f.userAgents)]
	f.uaIndex++
	return ua
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
