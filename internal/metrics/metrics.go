// Package metrics exposes Prometheus counters/gauges for the crawl: pages
// fetched per host, and the final persisted record counts reported at
// Summarize. Adapted from a broader scrape-metrics surface down to what a
// BFS politeness crawler actually reports; the /metrics HTTP endpoint is
// unchanged in shape from the teacher's metrics.Server.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PagesCrawledTotal counts successfully fetched-and-persisted pages,
	// labeled by host.
	PagesCrawledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rustlecrawl_pages_crawled_total",
			Help: "Total number of pages successfully fetched and persisted",
		},
		[]string{"host"},
	)

	// SiteRecords is the size of the sites table as of the last Summarize.
	SiteRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rustlecrawl_site_records",
			Help: "Number of site records persisted as of the last summary",
		},
	)

	// DomainRecords is the size of the domains table as of the last
	// Summarize.
	DomainRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rustlecrawl_domain_records",
			Help: "Number of domain records persisted as of the last summary",
		},
	)
)

// RecordCrawl increments the per-host page counter.
func RecordCrawl(host string) {
	PagesCrawledTotal.WithLabelValues(host).Inc()
}

// SetRecordCounts updates the summary gauges.
func SetRecordCounts(sites, domains int) {
	SiteRecords.Set(float64(sites))
	DomainRecords.Set(float64(domains))
}

// Server encapsulates an HTTP server exposing /metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port. Runs in a background
// goroutine; call Stop to release resources.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
