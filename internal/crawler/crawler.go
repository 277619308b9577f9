// Package crawler provides the core job crawling functionality.
// It implements a bounded, priority-ordered crawl: addresses are served
// from a frontier by ascending hop count, fetched one at a time, and mined
// for job records and further links until the record budget is met.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/masahif/jobcrawler/internal/config"
	"github.com/masahif/jobcrawler/internal/parser"
)

// Controller implements the Crawler interface
type Controller struct {
	fetcher      Fetcher
	extractor    Extractor
	maxRetries   int
	retryBackoff time.Duration
	crawlTimeout time.Duration
	dedupeOnPush bool
}

// New creates a controller backed by an HTTPFetcher and an HTMLExtractor
// built from config.
func New(config *config.CrawlConfig) (*Controller, error) {
	listingParser, err := parser.NewListingParser(parser.Options{
		Origin:           config.Extract.Origin,
		LinkPrefix:       config.Extract.LinkPrefix,
		ListingSelector:  config.Extract.ListingSelector,
		TitleSelector:    config.Extract.TitleSelector,
		LocationSelector: config.Extract.LocationSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create listing parser: %w", err)
	}

	fetcher := NewHTTPFetcher(config.UserAgent, config.RequestTimeout)
	fetcher.SetRateLimiter(NewRateLimiter(config.RequestDelay))
	if config.RespectRobots {
		fetcher.EnableRobots()
	}

	extractor := NewHTMLExtractor(listingParser, config.Extract.Company, config.Extract.Salary)

	return NewController(config, fetcher, extractor), nil
}

// NewController creates a controller using the given fetcher and extractor.
// Only the retry, deadline and dedupe settings of config are used.
func NewController(config *config.CrawlConfig, fetcher Fetcher, extractor Extractor) *Controller {
	return &Controller{
		fetcher:      fetcher,
		extractor:    extractor,
		maxRetries:   config.MaxRetries,
		retryBackoff: config.RetryBackoff,
		crawlTimeout: config.CrawlTimeout,
		dedupeOnPush: config.DedupeOnPush,
	}
}

// Close releases resources held by the fetcher
func (c *Controller) Close() error {
	if closer, ok := c.fetcher.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

// crawlRun is the state owned by a single Crawl invocation
type crawlRun struct {
	id       string
	frontier *Frontier
	visited  *VisitedSet
	result   *CrawlResult
	logger   *slog.Logger
}

// logf appends a trace entry and mirrors it to slog
func (r *crawlRun) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.result.Logs = append(r.result.Logs, msg)
	r.logger.Debug(msg)
}

// Crawl runs a crawl from seedURL until budget records have been accepted
// or no addresses remain. A budget <= 0 uses config.DefaultBudget.
// Fetch failures are logged and skipped; Crawl always returns a result.
//
// Termination conditions:
// 1. Accepted records reached budget (checked before every pop)
// 2. Frontier empty
// 3. Context cancelled or crawl deadline passed
func (c *Controller) Crawl(ctx context.Context, seedURL string, budget int) *CrawlResult {
	if budget <= 0 {
		budget = config.DefaultBudget
	}

	if c.crawlTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.crawlTimeout)
		defer cancel()
	}

	id := uuid.NewString()
	run := &crawlRun{
		id:       id,
		frontier: NewFrontier(),
		visited:  NewVisitedSet(),
		result: &CrawlResult{
			Results: []JobRecord{},
			Logs:    []string{},
			Stats:   CrawlStats{StartTime: time.Now()},
		},
		logger: slog.With("crawl_id", id),
	}

	run.logger.Info("Starting crawl", "seed_url", seedURL, "budget", budget)

	run.frontier.Push(seedURL, 0)

	for len(run.result.Results) < budget && !run.frontier.IsEmpty() {
		if err := ctx.Err(); err != nil {
			run.logf("Crawl stopped: %v", err)
			break
		}

		c.step(ctx, run, budget)
	}

	stats := &run.result.Stats
	stats.Duration = time.Since(stats.StartTime)
	stats.AddressesVisited = run.visited.Len()

	run.logger.Info("Crawl finished",
		"records", len(run.result.Results),
		"fetched", stats.PagesFetched,
		"failures", stats.FetchFailures,
		"skipped", stats.VisitedSkips,
		"visited", stats.AddressesVisited,
		"remaining", run.frontier.Len(),
		"duration", stats.Duration)

	return run.result
}

// step pops one entry and processes it
func (c *Controller) step(ctx context.Context, run *crawlRun, budget int) {
	entry, ok := run.frontier.Pop()
	if !ok {
		return
	}
	stats := &run.result.Stats
	stats.PagesPopped++

	run.logf("Now visiting: %s with priority %d", entry.Address, entry.Priority)

	if !run.visited.Mark(entry.Address) {
		stats.VisitedSkips++
		run.logf("Already visited: %s", entry.Address)
		return
	}

	content, fetchErr := c.fetchWithRetry(ctx, run, entry.Address)
	if fetchErr != nil {
		stats.FetchFailures++
		run.logf("Error crawling: %s - %s", entry.Address, fetchErr.Reason)
		run.logger.Warn("Fetch failed", "url", entry.Address, "kind", fetchErr.Kind, "error", fetchErr.Reason)
		return
	}

	stats.PagesFetched++
	run.logf("Successfully crawled: %s", entry.Address)

	extraction := c.safeExtract(run, content, entry.Address)

	dropped := 0
	for _, record := range extraction.Records {
		if len(run.result.Results) >= budget {
			dropped++
			continue
		}
		run.result.Results = append(run.result.Results, record)
		run.logf("Found job: %s | %s", record.Title, record.Location)
	}
	if dropped > 0 {
		run.logf("Budget reached, dropping %d further jobs from %s", dropped, entry.Address)
	}

	for _, link := range extraction.Links {
		if c.dedupeOnPush && (run.visited.Contains(link) || run.frontier.Queued(link)) {
			run.logf("Skipping known link: %s", link)
			continue
		}
		run.frontier.Push(link, entry.Priority+1)
		stats.LinksQueued++
		run.logf("Queueing link: %s", link)
	}
}

// fetchWithRetry fetches address, retrying retryable failures with
// exponential backoff. The address is already marked visited, so it is
// counted once however many attempts are made.
func (c *Controller) fetchWithRetry(ctx context.Context, run *crawlRun, address string) ([]byte, *FetchError) {
	for attempt := 0; ; attempt++ {
		content, err := c.safeFetch(ctx, address)
		if err == nil {
			return content, nil
		}

		fetchErr := AsFetchError(address, err)
		if attempt >= c.maxRetries || !fetchErr.Retryable() || ctx.Err() != nil {
			return nil, fetchErr
		}

		run.result.Stats.Retries++
		run.logf("Retrying: %s (attempt %d/%d) - %s", address, attempt+1, c.maxRetries, fetchErr.Reason)

		if !sleepContext(ctx, c.backoff(attempt)) {
			return nil, fetchErr
		}
	}
}

// maxRetryBackoff caps the doubling of retryBackoff
const maxRetryBackoff = time.Minute

// backoff returns the wait before retry number attempt+1
func (c *Controller) backoff(attempt int) time.Duration {
	d := c.retryBackoff
	for i := 0; i < attempt && d < maxRetryBackoff; i++ {
		d *= 2
	}
	return min(d, max(c.retryBackoff, maxRetryBackoff))
}

// safeFetch calls the fetcher, turning a panic into a FetchError
func (c *Controller) safeFetch(ctx context.Context, address string) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FetchError{
				URL:    address,
				Kind:   KindFetchFailed,
				Reason: fmt.Sprintf("fetcher panic: %v", r),
			}
		}
	}()

	return c.fetcher.Fetch(ctx, address)
}

// safeExtract calls the extractor, treating a panic as an empty page
func (c *Controller) safeExtract(run *crawlRun, content []byte, address string) (extraction Extraction) {
	defer func() {
		if r := recover(); r != nil {
			run.logger.Error("Extractor panic", "url", address, "panic", r)
			extraction = Extraction{}
		}
	}()

	return c.extractor.Extract(content, address)
}

// sleepContext waits for d, returning false if ctx ends first
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
