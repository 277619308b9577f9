package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy answers robots.txt questions, fetching each host's file once
type RobotsPolicy struct {
	client    *http.Client
	userAgent string
	limiter   *RateLimiter // receives Crawl-delay values, may be nil

	mu    sync.Mutex
	rules map[string]*robotstxt.Group // keyed by scheme://host, nil allows everything
}

// NewRobotsPolicy creates a policy that fetches robots.txt files with client
func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		rules:     make(map[string]*robotstxt.Group),
	}
}

// IsAllowed reports whether rawURL may be fetched.
// A robots.txt that cannot be retrieved allows everything.
func (r *RobotsPolicy) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid URL: %w", err)
	}

	group := r.groupFor(ctx, u)
	if group == nil {
		return true, nil
	}

	return group.Test(u.RequestURI()), nil
}

func (r *RobotsPolicy) groupFor(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	group, ok := r.rules[key]
	r.mu.Unlock()
	if ok {
		return group
	}

	group = r.fetch(ctx, key)

	r.mu.Lock()
	r.rules[key] = group
	limiter := r.limiter
	r.mu.Unlock()

	if group != nil && group.CrawlDelay > 0 && limiter != nil {
		limiter.SetHostDelay(u.Host, group.CrawlDelay)
		slog.Debug("Applying robots.txt crawl delay", "host", u.Host, "delay", group.CrawlDelay)
	}

	return group
}

// SetRateLimiter makes Crawl-delay directives slow down limiter for their host
func (r *RobotsPolicy) SetRateLimiter(limiter *RateLimiter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limiter = limiter
}

func (r *RobotsPolicy) fetch(ctx context.Context, hostURL string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hostURL+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("robots.txt unavailable", "host", hostURL, "error", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		slog.Debug("robots.txt unparsable", "host", hostURL, "error", err)
		return nil
	}

	return data.FindGroup(r.userAgent)
}
