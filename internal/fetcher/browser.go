package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/facultyscrape/internal/config"
	"github.com/IshaanNene/facultyscrape/internal/types"
)

// BrowserFetcher implements Fetcher with a headless Chromium driven by Rod.
// It keeps a single tab open so the session cookies and any state the
// catalog's scripts set carry over between requests.
type BrowserFetcher struct {
	browser *rod.Browser
	page    *rod.Page
	cfg     *config.Config
	logger  *slog.Logger
}

// NewBrowserFetcher launches a browser and opens the tab used for every fetch.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:    cfg,
		logger: logger.With("component", "browser_fetcher"),
	}

	launchURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	var page *rod.Page
	if cfg.Fetcher.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	bf.page = page

	if len(cfg.Fetcher.UserAgents) > 0 {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.Fetcher.UserAgents[0],
			AcceptLanguage: cfg.Fetcher.AcceptLanguage,
		})
		if err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	bf.logger.Info("browser fetcher ready", "stealth", cfg.Fetcher.Stealth)
	return bf, nil
}

// Fetch navigates the shared tab to the request URL and returns the rendered HTML.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	start := time.Now()

	timeout := bf.cfg.Fetcher.RequestTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	page := bf.page.Context(ctx).Timeout(timeout)

	if len(req.Headers) > 0 {
		headers := make([]string, 0, len(req.Headers)*2)
		for k, vals := range req.Headers {
			for _, v := range vals {
				headers = append(headers, k, v)
			}
		}
		cleanup, err := page.SetExtraHeaders(headers)
		if err != nil {
			bf.logger.Warn("failed to set headers", "error", err)
		} else {
			defer cleanup()
		}
	}

	if err := page.Navigate(req.URLString()); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	finalURL := req.URLString()
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	// Rod doesn't expose the document status code; a loaded page counts as 200.
	resp := types.NewResponse(req, 200, []byte(html))

	bf.logger.Debug("browser fetch complete",
		"url", req.URLString(),
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return resp, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	if bf.page != nil {
		_ = bf.page.Close()
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}
