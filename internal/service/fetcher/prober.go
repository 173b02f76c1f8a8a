package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultProbeTimeout bounds a single HEAD probe.
const DefaultProbeTimeout = 4 * time.Second

// Prober issues short, rate-limited existence checks against target hosts.
// It never follows more redirects than the standard client allows and reuses
// one connection pool across probes.
type Prober struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewProber returns a Prober with the given per-request timeout and a
// requests-per-second ceiling shared by all probes issued through it.
func NewProber(timeout time.Duration, rps int) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	if rps <= 0 {
		rps = 10
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(rps), rps),
		userAgent: DefaultUserAgent,
	}
}

// Head probes targetURL and returns the response status code. A non-nil error
// marks a transport-level failure; HTTP error statuses are returned as-is.
func (p *Prober) Head(ctx context.Context, targetURL string) (int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// maxTextBody caps auxiliary text fetches (robots.txt) at 512 KiB.
const maxTextBody = 512 << 10

// GetText fetches a small text resource such as robots.txt. A status outside
// 2xx is reported through an error since the callers treat any failure as
// "resource absent".
func (p *Prober) GetText(ctx context.Context, targetURL string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
