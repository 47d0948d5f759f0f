package records

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// Domain is the persisted robots.txt cache entry for a single host.
type Domain struct {
	Domain    string
	CrawlTime time.Time
	Robots    string
}

// ReadDomain returns the Domain record for host, or ErrNotFound if none
// exists.
func ReadDomain(ctx context.Context, s *store.Store, host string) (*Domain, error) {
	row := s.QueryRow(ctx, `SELECT crawl_time, robots FROM domains WHERE domain = ?`, host)

	var crawlTimeStr, robots string
	if err := row.Scan(&crawlTimeStr, &robots); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, crawlerr.New(crawlerr.Storage, "read domain "+host, err)
	}

	crawlTime, err := time.Parse(time.RFC3339, crawlTimeStr)
	if err != nil {
		return nil, crawlerr.New(crawlerr.Encoding, "parse crawl_time for "+host, err)
	}

	return &Domain{Domain: host, CrawlTime: crawlTime, Robots: robots}, nil
}

// WriteDomain upserts a Domain keyed by host.
func WriteDomain(ctx context.Context, s *store.Store, domain Domain) error {
	return s.Exec(ctx,
		`INSERT INTO domains (domain, crawl_time, robots) VALUES (?, ?, ?)
		 ON CONFLICT(domain) DO UPDATE SET crawl_time = excluded.crawl_time, robots = excluded.robots`,
		domain.Domain, domain.CrawlTime.UTC().Format(time.RFC3339), domain.Robots,
	)
}

// CountDomains returns the number of rows in the domains table.
func CountDomains(ctx context.Context, s *store.Store) (int, error) {
	var count int
	row := s.QueryRow(ctx, `SELECT COUNT(*) FROM domains`)
	if err := row.Scan(&count); err != nil {
		return 0, crawlerr.New(crawlerr.Storage, "count domains", err)
	}
	return count, nil
}
