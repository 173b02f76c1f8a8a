// Package fetcher retrieves pages and auxiliary resources over HTTP. The page
// fetch reports HTTP error statuses through the outcome rather than failing;
// only transport-level problems (DNS, connect, timeout) surface as errors.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const (
	// DefaultUserAgent identifies the service to target hosts.
	DefaultUserAgent = "Mozilla/5.0 (compatible; SEOInspectorBot/1.0; +https://github.com/chynybekuuludastan/seo_inspector)"

	// DefaultPageTimeout bounds the primary page fetch.
	DefaultPageTimeout = 15 * time.Second

	maxRedirects = 5
)

// Performance holds the timing and transfer facts of one page fetch.
type Performance struct {
	LoadTimeMs     int64 `json:"load_time_ms"`
	ResponseTimeMs int64 `json:"response_time_ms"`
	RedirectCount  int   `json:"redirect_count"`
	IsSSL          bool  `json:"is_ssl"`
	PageSizeBytes  int   `json:"page_size_bytes"`
}

// PageFetch is the raw outcome of fetching a page. HTML is the response body
// regardless of status code.
type PageFetch struct {
	HTML        string
	FinalURL    string
	StatusCode  int
	Performance Performance
}

// FetchError marks a transport-level failure while retrieving a page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches pages through a colly collector configured per request.
type Client struct {
	userAgent string
	timeout   time.Duration
}

// NewClient returns a page fetcher with the given timeout. A zero timeout
// falls back to DefaultPageTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	return &Client{
		userAgent: DefaultUserAgent,
		timeout:   timeout,
	}
}

// contextTransport binds each outgoing request to the fetch context so that
// cancelling the context aborts the in-flight transfer instead of leaving it
// running until the collector's own timeout.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

type fetchState struct {
	start       time.Time
	responseAt  time.Time
	finalURL    string
	statusCode  int
	body        []byte
	redirectErr error
}

// FetchPage retrieves targetURL and returns the raw body with performance
// facts. HTTP statuses >= 400 are reported in the outcome, not as errors.
// The redirect chain is capped at 5 hops; exceeding it fails the fetch.
func (c *Client) FetchPage(ctx context.Context, targetURL string) (*PageFetch, error) {
	state := &fetchState{start: time.Now(), finalURL: targetURL}

	col := colly.NewCollector(
		colly.UserAgent(c.userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		colly.ParseHTTPErrorResponse(),
		colly.MaxDepth(1),
	)
	col.SetRequestTimeout(c.timeout)
	col.WithTransport(&contextTransport{ctx: ctx, base: http.DefaultTransport})
	col.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			state.redirectErr = fmt.Errorf("stopped after %d redirects", maxRedirects)
			return state.redirectErr
		}
		state.finalURL = req.URL.String()
		return nil
	})

	col.OnResponseHeaders(func(r *colly.Response) {
		state.responseAt = time.Now()
	})
	col.OnResponse(func(r *colly.Response) {
		state.statusCode = r.StatusCode
		state.body = r.Body
	})

	done := make(chan error, 1)
	go func() {
		done <- col.Visit(targetURL)
	}()

	select {
	case <-ctx.Done():
		return nil, &FetchError{URL: targetURL, Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			return nil, &FetchError{URL: targetURL, Err: err}
		}
	}
	if state.redirectErr != nil {
		return nil, &FetchError{URL: targetURL, Err: state.redirectErr}
	}

	loaded := time.Now()
	if state.responseAt.IsZero() {
		state.responseAt = loaded
	}

	perf := Performance{
		LoadTimeMs:     loaded.Sub(state.start).Milliseconds(),
		ResponseTimeMs: state.responseAt.Sub(state.start).Milliseconds(),
		IsSSL:          strings.HasPrefix(targetURL, "https://"),
		PageSizeBytes:  len(state.body),
	}
	// The redirect count compares the final resolved URL against the
	// requested one; intermediate hops are capped but not tallied.
	if state.finalURL != targetURL {
		perf.RedirectCount = 1
	}

	return &PageFetch{
		HTML:        string(state.body),
		FinalURL:    state.finalURL,
		StatusCode:  state.statusCode,
		Performance: perf,
	}, nil
}
