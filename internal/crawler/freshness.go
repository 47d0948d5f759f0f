package crawler

import (
	"context"
	"time"

	"github.com/dragondev07/rustlecrawl/internal/records"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// FreshnessWindow is the fixed re-crawl suppression window.
const FreshnessWindow = 24 * time.Hour

// FreshnessCache decides whether a URL's last-known crawl time is recent
// enough to skip re-fetching. The Store is the only state it consults;
// there is no in-memory cache.
type FreshnessCache struct {
	store *store.Store
	now   func() time.Time
}

// NewFreshnessCache builds a FreshnessCache over the shared Store.
func NewFreshnessCache(s *store.Store) *FreshnessCache {
	return &FreshnessCache{store: s, now: time.Now}
}

// ShouldSkip reports whether url has a SiteRecord with crawl_time newer
// than now - FreshnessWindow.
func (c *FreshnessCache) ShouldSkip(ctx context.Context, url string) bool {
	site, err := records.ReadSite(ctx, c.store, url)
	if err != nil {
		return false
	}
	return site.CrawlTime.After(c.now().Add(-FreshnessWindow))
}
