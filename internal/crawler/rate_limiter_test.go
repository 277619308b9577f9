package crawler

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(100 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()

	// First request should be immediate
	if err := limiter.Wait(ctx, "https://example.com/page1"); err != nil {
		t.Errorf("First request failed: %v", err)
	}

	// Second request to the same host should wait
	if err := limiter.Wait(ctx, "https://example.com/page2"); err != nil {
		t.Errorf("Second request failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("Rate limiting not working, elapsed time: %v", elapsed)
	}

	// Different host should not be rate limited
	start2 := time.Now()
	if err := limiter.Wait(ctx, "https://other.com/page1"); err != nil {
		t.Errorf("Different host request failed: %v", err)
	}
	if elapsed := time.Since(start2); elapsed > 50*time.Millisecond {
		t.Errorf("Different host was rate limited, elapsed time: %v", elapsed)
	}
}

func TestRateLimiterZeroDelay(t *testing.T) {
	limiter := NewRateLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, "https://example.com/page"); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Zero delay should not limit, elapsed time: %v", elapsed)
	}
}

func TestRateLimiterHostDelay(t *testing.T) {
	limiter := NewRateLimiter(10 * time.Millisecond)
	limiter.SetHostDelay("example.com", 200*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	_ = limiter.Wait(ctx, "https://example.com/page1")
	_ = limiter.Wait(ctx, "https://example.com/page2")

	if elapsed := time.Since(start); elapsed < 180*time.Millisecond {
		t.Errorf("Custom delay not working, elapsed time: %v", elapsed)
	}
}

func TestRateLimiterHostDelayFloor(t *testing.T) {
	limiter := NewRateLimiter(150 * time.Millisecond)
	limiter.SetHostDelay("example.com", 10*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	_ = limiter.Wait(ctx, "https://example.com/page1")
	_ = limiter.Wait(ctx, "https://example.com/page2")

	if elapsed := time.Since(start); elapsed < 130*time.Millisecond {
		t.Errorf("Host delay should not undercut the default, elapsed time: %v", elapsed)
	}
}

func TestRateLimiterContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(500 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx, "https://example.com/page1"); err != nil {
		t.Errorf("First request failed: %v", err)
	}

	cancel()

	if err := limiter.Wait(ctx, "https://example.com/page2"); err == nil {
		t.Errorf("Expected context cancellation error, got nil")
	}
}

func TestRateLimiterInvalidURL(t *testing.T) {
	limiter := NewRateLimiter(100 * time.Millisecond)

	if err := limiter.Wait(context.Background(), "http://[::1]:namedport"); err == nil {
		t.Errorf("Expected error for invalid URL, got nil")
	}
}
