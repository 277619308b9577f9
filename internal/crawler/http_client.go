package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// maxBodySize caps how much of a response is read
const maxBodySize = 10 << 20

// HTTPFetcher fetches pages over HTTP. It implements Fetcher.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	limiter   *RateLimiter
	robots    *RobotsPolicy
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by timeout
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// SetRateLimiter makes every fetch wait for limiter first
func (h *HTTPFetcher) SetRateLimiter(limiter *RateLimiter) {
	h.limiter = limiter
	if h.robots != nil {
		h.robots.SetRateLimiter(limiter)
	}
}

// EnableRobots makes fetches of addresses disallowed by robots.txt fail.
// Crawl-delay directives raise the rate limiter's delay for their host.
func (h *HTTPFetcher) EnableRobots() {
	h.robots = NewRobotsPolicy(h.client, h.userAgent)
	if h.limiter != nil {
		h.robots.SetRateLimiter(h.limiter)
	}
}

// Fetch performs a GET request and returns the body decoded to UTF-8.
// Every failure, including a non-2xx status, is returned as a *FetchError.
func (h *HTTPFetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	if h.robots != nil {
		allowed, err := h.robots.IsAllowed(ctx, address)
		if err != nil {
			return nil, classifyError(address, KindInvalidRequest, err)
		}
		if !allowed {
			return nil, &FetchError{
				URL:    address,
				Kind:   KindRobotsDisallowed,
				Reason: "disallowed by robots.txt",
			}
		}
	}

	if h.limiter != nil {
		// Wait only fails once the crawl context is done or about to be
		if err := h.limiter.Wait(ctx, address); err != nil {
			return nil, classifyError(address, KindCancelled, err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, address, nil)
	if err != nil {
		return nil, classifyError(address, KindInvalidRequest, err)
	}

	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, classifyError(address, KindConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(address, resp.StatusCode)
	}

	content, err := readBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, classifyError(address, KindReadError, err)
	}

	return content, nil
}

// readBody reads at most maxBodySize bytes of r decoded to UTF-8
func readBody(r io.Reader, contentType string) ([]byte, error) {
	body, err := charset.NewReader(r, contentType)
	if errors.Is(err, io.EOF) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, err
	}

	return io.ReadAll(io.LimitReader(body, maxBodySize))
}

// Close releases idle connections
func (h *HTTPFetcher) Close() {
	h.client.CloseIdleConnections()
}
