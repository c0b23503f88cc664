// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values from defaultConfig()
//  2. Config File: Optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	client := wordpress.NewClient(&cfg.WordPress)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	WordPress WordPressConfig `koanf:"wordpress"`
	Feed      FeedConfig      `koanf:"feed"`
	Store     StoreConfig     `koanf:"store"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WordPressConfig holds the upstream WordPress REST API settings.
//
// Environment Variables:
//   - WORDPRESS_URL: Site base URL (default: https://www.duplos.cl)
//   - WORDPRESS_API_PATH: REST API path (default: /wp-json/wp/v2)
//   - WORDPRESS_PAGE_SIZE: Posts per page (default: 10)
//   - WORDPRESS_TIMEOUT: HTTP timeout (default: 30s)
//   - WORDPRESS_MAX_RETRIES: Retries for HTTP 429 (default: 5)
//   - WORDPRESS_REQUESTS_PER_SECOND / WORDPRESS_BURST: Outbound rate limit
//   - WORDPRESS_POSTS_CACHE_TTL: Post listing cache (default: 60s)
//   - WORDPRESS_CATEGORIES_CACHE_TTL: Category cache (default: 1h)
type WordPressConfig struct {
	URL                string        `koanf:"url"`
	APIPath            string        `koanf:"api_path"`
	PageSize           int           `koanf:"page_size"`
	Timeout            time.Duration `koanf:"timeout"`
	MaxRetries         int           `koanf:"max_retries"`
	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	Burst              int           `koanf:"burst"`
	PostsCacheTTL      time.Duration `koanf:"posts_cache_ttl"`
	CategoriesCacheTTL time.Duration `koanf:"categories_cache_ttl"`
}

// BaseURL joins URL and APIPath.
func (w *WordPressConfig) BaseURL() string {
	return strings.TrimRight(w.URL, "/") + "/" + strings.Trim(w.APIPath, "/")
}

// FeedConfig holds feed session and relevance settings.
type FeedConfig struct {
	RelatedLimit   int           `koanf:"related_limit"`
	TagWeight      int           `koanf:"tag_weight"`
	CategoryWeight int           `koanf:"category_weight"`
	SessionIdleTTL time.Duration `koanf:"session_idle_ttl"`
	SweepInterval  time.Duration `koanf:"sweep_interval"`
	MaxSessions    int           `koanf:"max_sessions"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
}

// StoreConfig holds the BadgerDB snapshot store settings. An empty Path runs
// the store in memory.
type StoreConfig struct {
	Path        string        `koanf:"path"`
	SnapshotTTL time.Duration `koanf:"snapshot_ttl"`
	GCInterval  time.Duration `koanf:"gc_interval"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns host:port for http.Server.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds CORS and rate limiting settings. The API is public and
// read-only, so there is no authentication section.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Load reads configuration with precedence ENV > file > defaults. See
// LoadWithKoanf.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
