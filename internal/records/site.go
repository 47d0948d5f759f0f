// Package records implements the SiteRecord and DomainRecord value objects:
// read-by-key and upsert operations against the Store, plus the comma-joined
// set encoding the persisted schema relies on. Values are bound as query
// parameters, so quote characters are stored and read back verbatim.
package records

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// ErrNotFound is returned by Read when no record exists for the given key.
var ErrNotFound = errors.New("record not found")

// Site is the persisted record of a single crawled page: its URL, when it
// was last fetched, and the normalized, absolute URLs it links out to.
type Site struct {
	URL       string
	CrawlTime time.Time
	LinksTo   []string
}

// ReadSite returns the Site for url, or ErrNotFound if none exists.
func ReadSite(ctx context.Context, s *store.Store, url string) (*Site, error) {
	row := s.QueryRow(ctx, `SELECT crawl_time, links_to FROM sites WHERE url = ?`, url)

	var crawlTimeStr, linksToStr string
	if err := row.Scan(&crawlTimeStr, &linksToStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, crawlerr.New(crawlerr.Storage, "read site "+url, err)
	}

	crawlTime, err := time.Parse(time.RFC3339, crawlTimeStr)
	if err != nil {
		return nil, crawlerr.New(crawlerr.Encoding, "parse crawl_time for "+url, err)
	}

	return &Site{
		URL:       url,
		CrawlTime: crawlTime,
		LinksTo:   decodeSet(linksToStr),
	}, nil
}

// WriteSite upserts a Site keyed by URL.
func WriteSite(ctx context.Context, s *store.Store, site Site) error {
	err := s.Exec(ctx,
		`INSERT INTO sites (url, crawl_time, links_to) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET crawl_time = excluded.crawl_time, links_to = excluded.links_to`,
		site.URL, site.CrawlTime.UTC().Format(time.RFC3339), encodeSet(site.LinksTo),
	)
	if err != nil {
		return err
	}
	return nil
}

// CountSites returns the number of rows in the sites table.
func CountSites(ctx context.Context, s *store.Store) (int, error) {
	var count int
	row := s.QueryRow(ctx, `SELECT COUNT(*) FROM sites`)
	if err := row.Scan(&count); err != nil {
		return 0, crawlerr.New(crawlerr.Storage, "count sites", err)
	}
	return count, nil
}

// encodeSet joins a set of strings into the comma-joined form stored in a
// TEXT column. An empty set encodes to the empty string.
func encodeSet(members []string) string {
	return strings.Join(members, ",")
}

// decodeSet splits the comma-joined form back into a set of strings,
// trimming whitespace around each element. The empty string decodes to an
// empty (nil) set.
func decodeSet(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	members := make([]string, 0, len(parts))
	for _, p := range parts {
		members = append(members, strings.TrimSpace(p))
	}
	return members
}
