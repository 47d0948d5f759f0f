package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
	"github.com/dragondev07/rustlecrawl/internal/fingerprint"
)

func TestFetcher_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected User-Agent header, got none")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ts.Close()

	fetcher, err := NewFetcher(FetchConfig{Timeout: 5 * time.Second, Fingerprint: fingerprint.ProfileGo})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	body, err := fetcher.FetchText(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "<html><body>ok</body></html>" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	fetcher, _ := NewFetcher(FetchConfig{Timeout: 5 * time.Second})
	_, err := fetcher.FetchText(context.Background(), ts.URL)
	if !crawlerr.Is(err, crawlerr.Network) {
		t.Fatalf("expected Network error, got %v", err)
	}
}

func TestFetcher_UnsupportedScheme(t *testing.T) {
	fetcher, _ := NewFetcher(FetchConfig{})
	_, err := fetcher.FetchText(context.Background(), "ftp://example.com/file")
	if !crawlerr.Is(err, crawlerr.Scheme) {
		t.Fatalf("expected Scheme error, got %v", err)
	}
}

func TestFetcher_InvalidUTF8(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte{0xff, 0xfe, 0xfd})
	}))
	defer ts.Close()

	fetcher, _ := NewFetcher(FetchConfig{})
	_, err := fetcher.FetchText(context.Background(), ts.URL)
	if !crawlerr.Is(err, crawlerr.Encoding) {
		t.Fatalf("expected Encoding error, got %v", err)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	fetcher, _ := NewFetcher(FetchConfig{Timeout: 5 * time.Millisecond})
	_, err := fetcher.FetchText(context.Background(), ts.URL)
	if !crawlerr.Is(err, crawlerr.Network) {
		t.Fatalf("expected Network error on timeout, got %v", err)
	}
}
