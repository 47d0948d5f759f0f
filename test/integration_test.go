//go:build integration

package test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dragondev07/rustlecrawl/internal/crawler"
	"github.com/dragondev07/rustlecrawl/internal/records"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

// TestCrawl_EndToEnd exercises the full Engine against a real on-disk
// SQLite store and a small in-process site graph, covering what the
// teacher's top-level integration test covered for the scrape pipeline:
// that everything wired together in main.go actually produces the
// persisted records a real run depends on.
func TestCrawl_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="/blog">blog</a><a href="/about">about</a>`))
	})
	mux.HandleFunc("/blog", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="/about">about</a><a href="/blog/post-1">post</a>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`no outbound links`))
	})
	mux.HandleFunc("/blog/post-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="/">home</a>`))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	s, err := store.Open(t.TempDir() + "/integration")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	fetcher, err := crawler.NewFetcher(crawler.FetchConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	engine := crawler.NewEngine(crawler.Config{
		OriginURL:     ts.URL,
		Depth:         3,
		RespectRobots: true,
	}, s, fetcher, nil)

	summary, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Sites != 4 {
		t.Errorf("expected 4 distinct site records (/, /blog, /about, /blog/post-1), got %d", summary.Sites)
	}

	for _, path := range []string{"", "/blog", "/about", "/blog/post-1"} {
		if _, err := records.ReadSite(context.Background(), s, ts.URL+path); err != nil {
			t.Errorf("expected site record for %s: %v", path, err)
		}
	}
}
