package crawler

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	html := `
	<html><body>
		<a href="/about">About</a>
		<a href="https://other.com/page">Other</a>
		<a href="//cdn.example.com/lib.js">CDN</a>
		<a href="#top">Fragment</a>
		<a href="mailto:a@example.com">Mail</a>
		<a>No href</a>
		<a href="/about">Duplicate</a>
	</body></html>`

	got := ExtractLinks(html, "https://example.com")
	want := []string{
		"https://example.com/about",
		"https://other.com/page",
		"https://cdn.example.com/lib.js",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLinks() = %v, want %v", got, want)
	}
}

func TestExtractLinks_InvalidHTML(t *testing.T) {
	got := ExtractLinks("", "https://example.com")
	if len(got) != 0 {
		t.Errorf("expected no links from empty html, got %v", got)
	}
}
