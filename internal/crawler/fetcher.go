package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
	"github.com/dragondev07/rustlecrawl/internal/fingerprint"
	"github.com/dragondev07/rustlecrawl/pkg/httpclient"
)

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	Fingerprint  fingerprint.Profile
	Logger       *slog.Logger
	// Transport overrides the fingerprint-selected transport when set.
	// Tests use this to point a Fetcher at an httptest.Server's own
	// certificate pool instead of the system trust store.
	Transport http.RoundTripper
}

// Fetcher performs blocking HTTP GETs, classifying every failure into the
// scheme/network/decode taxonomy so the engine can decide to drop the URL.
// One Fetcher is shared across all workers so the underlying transport
// pools connections.
type Fetcher struct {
	client    *httpclient.Client
	userAgent string
	logger    *slog.Logger
}

// NewFetcher builds a Fetcher. Held for the lifetime of a crawl run.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = 10
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "rustlecrawl"
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileGo
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport := cfg.Transport
	if transport == nil {
		var err error
		transport, err = fingerprint.Transport(cfg.Fingerprint, nil)
		if err != nil {
			return nil, fmt.Errorf("setup transport: %w", err)
		}
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Fetcher{client: client, userAgent: cfg.UserAgent, logger: cfg.Logger}, nil
}

// FetchText performs a GET against targetURL and returns its response body
// decoded as UTF-8 text, or a classified *crawlerr.Error. Used by both the
// page Fetcher and the Robots Gate (for robots.txt itself).
func (f *Fetcher) FetchText(ctx context.Context, targetURL string) (string, error) {
	id := uuid.New().String()

	u, err := url.Parse(targetURL)
	if err != nil {
		return "", crawlerr.New(crawlerr.Scheme, "parse "+targetURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", crawlerr.New(crawlerr.Scheme, "fetch "+targetURL, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", crawlerr.New(crawlerr.Network, "build request for "+targetURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		return "", crawlerr.New(crawlerr.Network, "fetch "+targetURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", crawlerr.New(crawlerr.Network, "read body of "+targetURL, err)
	}

	f.logger.Debug("fetched", "id", id, "url", targetURL, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", crawlerr.New(crawlerr.Network, "fetch "+targetURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if !utf8.Valid(body) {
		return "", crawlerr.New(crawlerr.Encoding, "decode body of "+targetURL, fmt.Errorf("body is not valid UTF-8"))
	}

	return string(body), nil
}

// FetchHTML is an alias for FetchText kept distinct at the call sites (page
// fetches vs robots.txt fetches) so the engine's intent stays legible.
func (f *Fetcher) FetchHTML(ctx context.Context, targetURL string) (string, error) {
	return f.FetchText(ctx, targetURL)
}
