package config

import "errors"

var (
	// ErrEmptySeedURL is returned when no seed URL is configured
	ErrEmptySeedURL = errors.New("seed_url cannot be empty")
	// ErrInvalidBudget is returned when budget is not greater than 0
	ErrInvalidBudget = errors.New("budget must be greater than 0")
	// ErrInvalidTimeout is returned when request timeout is not greater than 0
	ErrInvalidTimeout = errors.New("request_timeout must be greater than 0")
	// ErrInvalidRetries is returned when max_retries is negative
	ErrInvalidRetries = errors.New("max_retries cannot be negative")
	// ErrInvalidOrigin is returned when the extract origin is not an absolute URL
	ErrInvalidOrigin = errors.New("extract.origin must be an absolute http(s) URL")
	// ErrEmptySelector is returned when a listing selector is empty
	ErrEmptySelector = errors.New("extract selectors cannot be empty")
	// ErrInvalidOutputFormat is returned for output formats other than json and yaml
	ErrInvalidOutputFormat = errors.New("output_format must be 'json' or 'yaml'")
)
