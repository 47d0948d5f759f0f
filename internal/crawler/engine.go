package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dragondev07/rustlecrawl/internal/metrics"
	"github.com/dragondev07/rustlecrawl/internal/records"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// Config parameterizes a single crawl run.
type Config struct {
	OriginURL     string
	Depth         int
	UserAgent     string
	RespectRobots bool
	// Concurrency bounds the per-level worker fan-out. Defaults to
	// runtime.NumCPU() when <= 0.
	Concurrency int
}

// Summary reports the persisted record counts at the end of a run.
type Summary struct {
	Sites   int
	Domains int
}

// Engine drives the BFS crawl: it owns no long-lived frontier state beyond
// a single Run call, so one Engine can be reused across runs against the
// same Store.
type Engine struct {
	cfg        Config
	store      *store.Store
	fetcher    *Fetcher
	robots     *RobotsGate
	freshness  *FreshnessCache
	logger     *slog.Logger
	now        func() time.Time
}

// NewEngine wires an Engine from its already-constructed collaborators.
// The Store is assumed already open and set up (Init, per spec, is the
// caller's responsibility before constructing an Engine).
func NewEngine(cfg Config, s *store.Store, fetcher *Fetcher, logger *slog.Logger) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "rustlecrawl"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		cfg:       cfg,
		store:     s,
		fetcher:   fetcher,
		robots:    NewRobotsGate(s, fetcher, cfg.UserAgent, logger),
		freshness: NewFreshnessCache(s),
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes Seed, then Iterate up to cfg.Depth times, then Summarize.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	origin, err := normalizeOrigin(e.cfg.OriginURL)
	if err != nil {
		return Summary{}, err
	}

	visited := map[string]struct{}{origin: {}}
	frontier, err := e.seed(ctx, origin, visited)
	if err != nil {
		return Summary{}, err
	}

	depth := 0
	for depth < e.cfg.Depth && len(frontier) > 0 {
		next, err := e.iterate(ctx, frontier)
		if err != nil {
			return Summary{}, err
		}

		frontier = nil
		for _, u := range next {
			if _, seen := visited[u]; seen {
				continue
			}
			visited[u] = struct{}{}
			frontier = append(frontier, u)
		}
		depth++
		e.logger.Debug("completed depth level", "depth", depth, "next_frontier_size", len(frontier))
	}

	return e.summarize(ctx)
}

// seed fetches the origin unconditionally, extracts and writes its
// outbound links, primes the robots cache for the origin host, and returns
// the origin's outbound links (minus the origin itself) as the initial
// frontier. A failure to persist the origin's site record is returned as
// an error, which ends the run.
func (e *Engine) seed(ctx context.Context, origin string, visited map[string]struct{}) ([]string, error) {
	body, err := e.fetcher.FetchHTML(ctx, origin)
	if err != nil {
		e.logger.Warn("failed to fetch origin, starting with an empty frontier", "url", origin, "err", err)
		return nil, nil
	}

	links := ExtractLinks(body, origin)
	if err := records.WriteSite(ctx, e.store, records.Site{URL: origin, CrawlTime: e.now().UTC(), LinksTo: links}); err != nil {
		e.logger.Error("failed to persist origin site record", "url", origin, "err", err)
		return nil, err
	}

	if e.cfg.RespectRobots {
		if _, err := e.robots.IsAllowed(ctx, origin); err != nil {
			e.logger.Warn("failed to prime robots cache for origin host", "url", origin, "err", err)
		}
	}

	var frontier []string
	for _, link := range links {
		if _, seen := visited[link]; seen {
			continue
		}
		visited[link] = struct{}{}
		frontier = append(frontier, link)
	}
	return frontier, nil
}

// iterate processes every URL in frontier concurrently and returns the
// deduplicated union of outbound links discovered (the caller filters
// against the cumulative visited set to produce the next frontier).
func (e *Engine) iterate(ctx context.Context, frontier []string) ([]string, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	var mu sync.Mutex
	seen := make(map[string]struct{})
	var next []string

	for _, u := range frontier {
		u := u
		g.Go(func() error {
			outbound := e.processURL(gCtx, u)

			mu.Lock()
			for _, link := range outbound {
				if _, dup := seen[link]; dup {
					continue
				}
				seen[link] = struct{}{}
				next = append(next, link)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}

// processURL runs the per-URL pipeline from spec §4.9: gate, fetch, parse,
// persist, and return the outbound links for the next frontier. Every
// failure is logged and the URL dropped; nothing here is fatal.
func (e *Engine) processURL(ctx context.Context, target string) []string {
	if e.cfg.RespectRobots {
		// Preserved verbatim from the source's compound predicate (spec §9
		// item 1): skip only if BOTH cached-as-fresh AND robots-disallowed.
		allowed, err := e.robots.IsAllowed(ctx, target)
		if err != nil {
			e.logger.Warn("robots check failed", "url", target, "err", err)
			allowed = true
		}
		if e.freshness.ShouldSkip(ctx, target) && !allowed {
			e.logger.Debug("dropped: fresh and robots-disallowed", "url", target)
			return nil
		}
	}

	body, err := e.fetcher.FetchHTML(ctx, target)
	if err != nil {
		e.logger.Warn("fetch failed, dropping url", "url", target, "err", err)
		return nil
	}

	links := ExtractLinks(body, target)
	if err := records.WriteSite(ctx, e.store, records.Site{URL: target, CrawlTime: e.now().UTC(), LinksTo: links}); err != nil {
		e.logger.Error("failed to persist site record, dropping url", "url", target, "err", err)
		return nil
	}

	metrics.RecordCrawl(hostOf(target))
	return links
}

// summarize reports the final persisted record counts.
func (e *Engine) summarize(ctx context.Context) (Summary, error) {
	sites, err := records.CountSites(ctx, e.store)
	if err != nil {
		return Summary{}, err
	}
	domains, err := records.CountDomains(ctx, e.store)
	if err != nil {
		return Summary{}, err
	}

	e.logger.Info("crawl complete", "sites", sites, "domains", domains)
	metrics.SetRecordCounts(sites, domains)

	return Summary{Sites: sites, Domains: domains}, nil
}

func normalizeOrigin(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
