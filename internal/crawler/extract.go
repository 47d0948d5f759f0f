package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks scans every <a href> in html, normalizes each href against
// origin, and returns the deduplicated set of resulting absolute URLs.
// Non-<a> elements, and hrefs that don't survive Normalize (fragment-only,
// mailto:, javascript:, ...), are ignored.
func ExtractLinks(html, origin string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		normalized, ok := Normalize(href, origin)
		if !ok {
			return
		}
		if _, dup := seen[normalized]; dup {
			return
		}
		seen[normalized] = struct{}{}
		links = append(links, normalized)
	})

	return links
}
