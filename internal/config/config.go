// Package config loads the crawler's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/dragondev07/rustlecrawl/internal/crawlerr"
)

// Config is the set of values a crawl run is configured with.
type Config struct {
	// OriginURL is the absolute starting URL (http/https).
	OriginURL string `toml:"origin_url"`
	// Depth is the maximum BFS iteration count (>= 0).
	Depth int `toml:"depth"`
	// DatabaseName is the Store filename stem; the file is "{name}.db",
	// unless it is a postgres:// or postgresql:// DSN, in which case the
	// Store connects to it through pgx's database/sql driver instead.
	DatabaseName string `toml:"database_name"`
	// UserAgent identifies the crawler to robots.txt. Defaults to the
	// product name.
	UserAgent string `toml:"user_agent"`
	// RespectRobots toggles the Robots Gate. Defaults to true.
	RespectRobots bool `toml:"respect_robots"`
}

const (
	defaultUserAgent = "rustlecrawl"
)

// DefaultPath returns "{user_config_dir}/rustlecrawl/config.toml".
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", crawlerr.New(crawlerr.Config, "resolve user config dir", err)
	}
	return filepath.Join(dir, "rustlecrawl", "config.toml"), nil
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	var raw struct {
		OriginURL     string `toml:"origin_url"`
		Depth         *int   `toml:"depth"`
		DatabaseName  string `toml:"database_name"`
		UserAgent     string `toml:"user_agent"`
		RespectRobots *bool  `toml:"respect_robots"`
	}

	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if os.IsNotExist(err) {
			return nil, crawlerr.New(crawlerr.Config, "load "+path, fmt.Errorf("config file not found, expected it at %s", path))
		}
		return nil, crawlerr.New(crawlerr.Config, "load "+path, err)
	}

	if raw.OriginURL == "" {
		return nil, crawlerr.New(crawlerr.Config, "validate "+path, fmt.Errorf("missing required key %q", "origin_url"))
	}
	if raw.Depth == nil {
		return nil, crawlerr.New(crawlerr.Config, "validate "+path, fmt.Errorf("missing required key %q", "depth"))
	}
	if *raw.Depth < 0 {
		return nil, crawlerr.New(crawlerr.Config, "validate "+path, fmt.Errorf("%q must be >= 0, got %d", "depth", *raw.Depth))
	}
	if raw.DatabaseName == "" {
		return nil, crawlerr.New(crawlerr.Config, "validate "+path, fmt.Errorf("missing required key %q", "database_name"))
	}

	cfg := &Config{
		OriginURL:     raw.OriginURL,
		Depth:         *raw.Depth,
		DatabaseName:  raw.DatabaseName,
		UserAgent:     raw.UserAgent,
		RespectRobots: true,
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if raw.RespectRobots != nil {
		cfg.RespectRobots = *raw.RespectRobots
	}

	return cfg, nil
}
