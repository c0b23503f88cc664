// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateWordPress(); err != nil {
		return err
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// WordPress page size bounds; the REST API rejects per_page above 100.
const (
	minPageSize = 1
	maxPageSize = 100
)

func (c *Config) validateWordPress() error {
	if c.WordPress.URL == "" {
		return fmt.Errorf("WORDPRESS_URL is required")
	}
	if err := validateHTTPURL(c.WordPress.URL, "WORDPRESS_URL"); err != nil {
		return fmt.Errorf("WORDPRESS_URL is invalid: %w", err)
	}
	if err := validateAPIPath(c.WordPress.APIPath); err != nil {
		return fmt.Errorf("WORDPRESS_API_PATH is invalid: %w", err)
	}
	if c.WordPress.PageSize < minPageSize || c.WordPress.PageSize > maxPageSize {
		return fmt.Errorf("WORDPRESS_PAGE_SIZE must be between %d and %d", minPageSize, maxPageSize)
	}
	if c.WordPress.Timeout <= 0 {
		return fmt.Errorf("WORDPRESS_TIMEOUT must be positive")
	}
	if c.WordPress.MaxRetries < 0 || c.WordPress.MaxRetries > 10 {
		return fmt.Errorf("WORDPRESS_MAX_RETRIES must be between 0 and 10")
	}
	if c.WordPress.RequestsPerSecond <= 0 {
		return fmt.Errorf("WORDPRESS_REQUESTS_PER_SECOND must be positive")
	}
	if c.WordPress.Burst < 1 {
		return fmt.Errorf("WORDPRESS_BURST must be at least 1")
	}
	if c.WordPress.PostsCacheTTL < 0 || c.WordPress.CategoriesCacheTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if c.Feed.RelatedLimit < 1 || c.Feed.RelatedLimit > 20 {
		return fmt.Errorf("FEED_RELATED_LIMIT must be between 1 and 20")
	}
	if c.Feed.TagWeight < 1 || c.Feed.CategoryWeight < 1 {
		return fmt.Errorf("FEED_TAG_WEIGHT and FEED_CATEGORY_WEIGHT must be at least 1")
	}
	if c.Feed.SessionIdleTTL < time.Minute {
		return fmt.Errorf("FEED_SESSION_IDLE_TTL must be at least 1m")
	}
	if c.Feed.SweepInterval < time.Second {
		return fmt.Errorf("FEED_SWEEP_INTERVAL must be at least 1s")
	}
	if c.Feed.MaxSessions < 0 {
		return fmt.Errorf("FEED_MAX_SESSIONS must not be negative")
	}
	if c.Feed.FetchTimeout <= 0 {
		return fmt.Errorf("FEED_FETCH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.SnapshotTTL < time.Minute {
		return fmt.Errorf("STORE_SNAPSHOT_TTL must be at least 1m")
	}
	if c.Store.GCInterval < time.Minute {
		return fmt.Errorf("STORE_GC_INTERVAL must be at least 1m")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[strings.ToLower(c.Server.Environment)] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if err := c.validateCORSOrigins(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORSOrigins requires every non-wildcard origin to be a bare
// http(s) origin.
func (c *Config) validateCORSOrigins() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

// HasWildcardCORS reports whether any origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true when production runs with wildcard CORS.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.HasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
