// Package config provides configuration management for the job crawler.
// It defines the crawl, extraction and output settings together with their defaults.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBudget is the number of accepted records after which a crawl halts
// when no budget is given.
const DefaultBudget = 3

// ExtractConfig describes where listings and follow-up links live in a page
type ExtractConfig struct {
	Origin           string `mapstructure:"origin" yaml:"origin"`                       // Origin joined with relative listing links
	LinkPrefix       string `mapstructure:"link_prefix" yaml:"link_prefix"`             // Only hrefs starting with this prefix are followed
	ListingSelector  string `mapstructure:"listing_selector" yaml:"listing_selector"`   // CSS selector of a listing container
	TitleSelector    string `mapstructure:"title_selector" yaml:"title_selector"`       // CSS selector of the title inside a listing
	LocationSelector string `mapstructure:"location_selector" yaml:"location_selector"` // CSS selector of the location inside a listing
	Company          string `mapstructure:"company" yaml:"company"`                     // Company assigned to every record
	Salary           string `mapstructure:"salary" yaml:"salary"`                       // Salary assigned to every record
}

// CrawlConfig holds crawler configuration
type CrawlConfig struct {
	// Basic crawling parameters
	SeedURL        string        `mapstructure:"seed_url" yaml:"seed_url"`               // Starting URL for crawling
	Budget         int           `mapstructure:"budget" yaml:"budget"`                   // Stop after N accepted records
	RequestDelay   time.Duration `mapstructure:"request_delay" yaml:"request_delay"`     // Delay between requests to one host
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"` // Timeout of a single fetch
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`           // HTTP User-Agent header
	RespectRobots  bool          `mapstructure:"respect_robots" yaml:"respect_robots"`   // Whether to respect robots.txt

	// Failure handling
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`     // Extra attempts for retryable fetch failures
	RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"` // Wait before the first retry, doubled afterwards
	CrawlTimeout time.Duration `mapstructure:"crawl_timeout" yaml:"crawl_timeout"` // Overall crawl deadline (0=none)

	// Frontier behaviour
	DedupeOnPush bool `mapstructure:"dedupe_on_push" yaml:"dedupe_on_push"` // Skip links already visited or queued

	// Extraction
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`

	// Post-crawl filtering and output
	ExcludedLocations []string `mapstructure:"excluded_locations" yaml:"excluded_locations"` // Location names removed from results
	OutputFormat      string   `mapstructure:"output_format" yaml:"output_format"`           // json or yaml

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // json or text
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *CrawlConfig {
	return &CrawlConfig{
		SeedURL:        "https://www.amazon.jobs/en/teams/twitch",
		Budget:         DefaultBudget,
		RequestDelay:   500 * time.Millisecond,
		RequestTimeout: 30 * time.Second,
		UserAgent:      "JobCrawler/1.0",
		RespectRobots:  true,
		MaxRetries:     0, // no retries
		RetryBackoff:   500 * time.Millisecond,
		CrawlTimeout:   0, // no deadline
		Extract: ExtractConfig{
			Origin:           "https://www.amazon.jobs",
			LinkPrefix:       "/en/jobs",
			ListingSelector:  "div.job-tile",
			TitleSelector:    ".job-title",
			LocationSelector: "p.location-and-id",
			Company:          "Twitch",
			Salary:           "",
		},
		ExcludedLocations: []string{"china", "beijing", "shanghai", "shenzhen"},
		OutputFormat:      "json",
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// Validate checks if the configuration is valid
func (c *CrawlConfig) Validate() error {
	if strings.TrimSpace(c.SeedURL) == "" {
		return ErrEmptySeedURL
	}

	if c.Budget <= 0 {
		return ErrInvalidBudget
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}

	// Keep a floor on politeness towards the crawled host
	if c.RequestDelay < 100*time.Millisecond {
		c.RequestDelay = 100 * time.Millisecond
	}

	if c.Extract.Origin != "" {
		u, err := url.Parse(c.Extract.Origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidOrigin, c.Extract.Origin)
		}
	}

	if c.Extract.ListingSelector == "" || c.Extract.TitleSelector == "" || c.Extract.LocationSelector == "" {
		return ErrEmptySelector
	}

	switch strings.ToLower(c.OutputFormat) {
	case "json", "yaml":
	default:
		return ErrInvalidOutputFormat
	}

	return nil
}
