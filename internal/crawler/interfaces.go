package crawler

import (
	"context"
)

// Crawler defines the main crawling interface
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, budget int) *CrawlResult
	Close() error
}

// Fetcher performs one retrieval of an address.
// Failures are reported as *FetchError; a Fetcher never retries on its own.
type Fetcher interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// Extractor turns fetched content into job records and candidate links.
// It never fails: content that matches nothing yields an empty Extraction.
type Extractor interface {
	Extract(content []byte, originAddress string) Extraction
}
