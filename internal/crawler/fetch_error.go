package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrorKind classifies a fetch failure
type ErrorKind string

const (
	KindTimeout          ErrorKind = "timeout"
	KindConnectionFailed ErrorKind = "connection_failed"
	KindHTTPStatus       ErrorKind = "http_status"
	KindReadError        ErrorKind = "read_error"
	KindRobotsDisallowed ErrorKind = "robots_disallowed"
	KindInvalidRequest   ErrorKind = "invalid_request"
	KindCancelled        ErrorKind = "cancelled"
	KindFetchFailed      ErrorKind = "fetch_failed"
)

// FetchError is the failure outcome of a single fetch
type FetchError struct {
	URL        string    // Address that failed
	Kind       ErrorKind // Failure class
	StatusCode int       // HTTP status for KindHTTPStatus
	Reason     string    // Human-readable reason
	Err        error     // Underlying error, if any
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindConnectionFailed:
		return true
	case KindHTTPStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func newStatusError(address string, statusCode int) *FetchError {
	return &FetchError{
		URL:        address,
		Kind:       KindHTTPStatus,
		StatusCode: statusCode,
		Reason:     fmt.Sprintf("request failed with status code %d", statusCode),
	}
}

// AsFetchError converts any error returned by a Fetcher into a *FetchError
func AsFetchError(address string, err error) *FetchError {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	return classifyError(address, KindFetchFailed, err)
}

// classifyError maps transport level errors to an ErrorKind, using
// fallback when nothing more specific applies.
func classifyError(address string, fallback ErrorKind, err error) *FetchError {
	reason := err.Error()

	// Drop the `Get "url":` prefix, the URL is logged next to the reason anyway
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		reason = urlErr.Err.Error()
	}

	kind := fallback
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		kind = KindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &FetchError{
		URL:    address,
		Kind:   kind,
		Reason: reason,
		Err:    err,
	}
}
