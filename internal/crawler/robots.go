package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/dragondev07/rustlecrawl/internal/records"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// RobotsGate enforces robots.txt politeness per host. It has no in-memory
// cache of its own; the Store's domains table is the cache, so a crash
// mid-run loses nothing and two workers racing on the same unseen host
// both land safely through the upsert (spec: Store doubles as the robots
// cache).
type RobotsGate struct {
	store     *store.Store
	fetcher   *Fetcher
	userAgent string
	logger    *slog.Logger
}

// NewRobotsGate builds a RobotsGate over the shared Store and Fetcher.
func NewRobotsGate(s *store.Store, fetcher *Fetcher, userAgent string, logger *slog.Logger) *RobotsGate {
	if logger == nil {
		logger = slog.Default()
	}
	if userAgent == "" {
		userAgent = "rustlecrawl"
	}
	return &RobotsGate{store: s, fetcher: fetcher, userAgent: userAgent, logger: logger}
}

// IsAllowed decides whether targetURL's path is allowed under the Robots
// Gate's configured user-agent, fetching and caching robots.txt for the
// host on first sight.
func (g *RobotsGate) IsAllowed(ctx context.Context, targetURL string) (bool, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", targetURL, err)
	}
	host := strings.ToLower(u.Host)

	body, err := g.domainRobots(ctx, host)
	if err != nil {
		g.logger.Warn("robots.txt lookup in store failed, defaulting to allow", "host", host, "err", err)
		return true, nil
	}

	if body == "" {
		return true, nil
	}

	data, err := robotstxt.FromString(body)
	if err != nil {
		g.logger.Warn("robots.txt parse failed, defaulting to allow", "host", host, "err", err)
		return true, nil
	}

	group := data.FindGroup(g.userAgent)
	return group.Test(u.Path), nil
}

// domainRobots returns the robots.txt body for host (url.URL.Host,
// lowercased, so it carries a port when the URL had one), reading
// through the Store and writing back on a miss.
func (g *RobotsGate) domainRobots(ctx context.Context, host string) (string, error) {
	if rec, err := records.ReadDomain(ctx, g.store, host); err == nil {
		return rec.Robots, nil
	} else if err != records.ErrNotFound {
		return "", err
	}

	robotsURL := fmt.Sprintf("https://%s/robots.txt", host)

	body, fetchErr := g.fetcher.FetchText(ctx, robotsURL)
	if fetchErr != nil {
		// A 404 or network failure both mean "treat as no robots" per
		// spec §4.7 step 3: the host is still recorded so we don't refetch.
		body = ""
	}

	if err := records.WriteDomain(ctx, g.store, records.Domain{
		Domain:    host,
		CrawlTime: time.Now().UTC(),
		Robots:    body,
	}); err != nil {
		return "", err
	}

	return body, nil
}
