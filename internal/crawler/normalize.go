package crawler

import (
	"net/url"
	"strings"
)

// Normalize resolves a raw href against origin into an absolute URL, or
// returns ok=false if it cannot be made absolute. Root-relative hrefs are
// resolved against origin's scheme and host. Accepts any host — the
// Robots Gate and Fetcher are what actually narrow what gets fetched
// (spec §9 design note: the permissive variant, not an origin-host filter).
func Normalize(href, origin string) (string, bool) {
	if u, err := url.Parse(href); err == nil && u.Scheme != "" && u.Host != "" {
		return u.String(), true
	}

	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href, true
	case strings.HasPrefix(href, "/"):
		base, err := url.Parse(origin)
		if err != nil || base.Host == "" {
			return "", false
		}
		return base.Scheme + "://" + base.Host + href, true
	default:
		return "", false
	}
}
