// Package http provides URL preflight checks and the pageproof dashboard
// API server.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pageproof/pageproof"
)

// DefaultProbeTimeout is the default timeout for preflight requests.
// Kept consistent with the browser navigation timeout defaults.
const DefaultProbeTimeout = 10 * time.Second

// defaultUserAgent matches the browser's user agent so a site answers the
// probe the same way it will answer the review run.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Ensure Prober implements pageproof.Prober at compile time.
var _ pageproof.Prober = (*Prober)(nil)

// Prober checks URL availability with a plain HTTP GET before the browser
// is pointed at it. It does not execute JavaScript, so a page that answers
// here can still render differently in the browser.
type Prober struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the timeout for probe requests.
// Defaults to DefaultProbeTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		p.timeout = d
	}
}

// WithUserAgent overrides the user agent sent with probe requests.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// NewProber creates a new Prober.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		timeout:   DefaultProbeTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.client = &http.Client{
		Timeout: p.timeout,
	}

	return p
}

// Probe requests the URL and reports how it answered. Redirects are
// followed; FinalURL is the address the 200 actually came from. Transport
// failures come back in the result with Available false, not as errors.
// Only context cancellation surfaces as an error.
func (p *Prober) Probe(ctx context.Context, url string) (*pageproof.Availability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pageproof.Errorf(pageproof.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return &pageproof.Availability{
			URL:       url,
			Available: false,
			Reason:    err.Error(),
		}, nil
	}
	defer resp.Body.Close()

	avail := &pageproof.Availability{
		URL:         url,
		Available:   resp.StatusCode == http.StatusOK,
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}
	if !avail.Available {
		avail.Reason = resp.Status
	}
	return avail, nil
}
