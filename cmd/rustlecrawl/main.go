// Command rustlecrawl runs a single breadth-first crawl to completion and
// exits. The crawl parameters come from a TOML config file; see
// internal/config for the schema. Flags select the config file path,
// debug logging, and an optional Prometheus metrics port.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dragondev07/rustlecrawl/internal/config"
	"github.com/dragondev07/rustlecrawl/internal/crawler"
	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
	"github.com/dragondev07/rustlecrawl/internal/metrics"
	"github.com/dragondev07/rustlecrawl/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to config.toml (defaults to the user config dir)")
		verbose     = flag.Bool("v", false, "enable debug logging")
		metricsPort = flag.Int("metrics-port", 0, "serve Prometheus metrics on 127.0.0.1:<port> (0 disables)")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			logger.Error("resolve default config path", "err", err)
			return 1
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		logFatal(logger, "load config", err)
		return 1
	}

	if *metricsPort != 0 {
		srv := metrics.Start(*metricsPort)
		defer srv.Stop(context.Background())
	}

	s, err := store.OpenFor(cfg.DatabaseName)
	if err != nil {
		logFatal(logger, "open store", err)
		return 1
	}
	defer s.Close()

	fetcher, err := crawler.NewFetcher(crawler.FetchConfig{
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("build fetcher", "err", err)
		return 1
	}

	engine := crawler.NewEngine(crawler.Config{
		OriginURL:     cfg.OriginURL,
		Depth:         cfg.Depth,
		UserAgent:     cfg.UserAgent,
		RespectRobots: cfg.RespectRobots,
	}, s, fetcher, logger)

	summary, err := engine.Run(context.Background())
	if err != nil {
		logFatal(logger, "run crawl", err)
		return 1
	}

	logger.Info("crawl finished", "sites", summary.Sites, "domains", summary.Domains)
	return 0
}

// logFatal logs err with the failure's classified kind when it is one of
// ours, so operators can tell a bad config apart from a storage outage
// without reading a stack trace.
func logFatal(logger *slog.Logger, op string, err error) {
	for _, kind := range []crawlerr.Kind{crawlerr.Config, crawlerr.Storage, crawlerr.Network, crawlerr.Scheme, crawlerr.Encoding} {
		if crawlerr.Is(err, kind) {
			logger.Error(op, "kind", kind.String(), "err", err)
			return
		}
	}
	logger.Error(op, "err", err)
	fmt.Fprintln(os.Stderr, err)
}
