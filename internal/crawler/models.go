package crawler

import "time"

// FrontierEntry is an address waiting in the frontier
type FrontierEntry struct {
	Address  string // Absolute address to fetch
	Priority int    // Hop count from the seed; lower is served first
}

// JobRecord represents one listing found on a crawled page
type JobRecord struct {
	Title    string `json:"title" yaml:"title"`
	Location string `json:"location" yaml:"location"`
	Company  string `json:"company" yaml:"company"`
	Salary   string `json:"salary" yaml:"salary"`
}

// Extraction is what an Extractor found in a single page
type Extraction struct {
	Records []JobRecord
	Links   []string
}

// CrawlStats represents crawling statistics
type CrawlStats struct {
	PagesPopped      int           `json:"pages_popped" yaml:"pages_popped"`           // Frontier entries dequeued
	PagesFetched     int           `json:"pages_fetched" yaml:"pages_fetched"`         // Successful fetches
	FetchFailures    int           `json:"fetch_failures" yaml:"fetch_failures"`       // Addresses abandoned after failure
	VisitedSkips     int           `json:"visited_skips" yaml:"visited_skips"`         // Entries dropped as already visited
	AddressesVisited int           `json:"addresses_visited" yaml:"addresses_visited"` // Distinct addresses marked visited
	LinksQueued      int           `json:"links_queued" yaml:"links_queued"`           // Pushes into the frontier, seed excluded
	Retries          int           `json:"retries" yaml:"retries"`                     // Extra fetch attempts
	StartTime        time.Time     `json:"start_time" yaml:"start_time"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
}

// CrawlResult is the outcome of one crawl invocation
type CrawlResult struct {
	Results []JobRecord `json:"results" yaml:"results"` // Accepted records in discovery order
	Logs    []string    `json:"logs" yaml:"logs"`       // Trace of every controller decision
	Stats   CrawlStats  `json:"stats" yaml:"stats"`
}
