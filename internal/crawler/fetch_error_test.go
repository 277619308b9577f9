package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchErrorRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want bool
	}{
		{"timeout", &FetchError{Kind: KindTimeout}, true},
		{"connection failed", &FetchError{Kind: KindConnectionFailed}, true},
		{"server error", &FetchError{Kind: KindHTTPStatus, StatusCode: 503}, true},
		{"too many requests", &FetchError{Kind: KindHTTPStatus, StatusCode: 429}, true},
		{"not found", &FetchError{Kind: KindHTTPStatus, StatusCode: 404}, false},
		{"robots", &FetchError{Kind: KindRobotsDisallowed}, false},
		{"cancelled", &FetchError{Kind: KindCancelled}, false},
		{"unknown", &FetchError{Kind: KindFetchFailed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Retryable())
		})
	}
}

func TestAsFetchError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsFetchError("https://example.com", nil))
	})

	t.Run("wrapped fetch error is kept", func(t *testing.T) {
		original := newStatusError("https://example.com", 500)
		got := AsFetchError("https://example.com", fmt.Errorf("outer: %w", original))
		assert.Same(t, original, got)
	})

	t.Run("plain error", func(t *testing.T) {
		got := AsFetchError("https://example.com", errors.New("boom"))
		require.NotNil(t, got)
		assert.Equal(t, KindFetchFailed, got.Kind)
		assert.Equal(t, "boom", got.Reason)
	})

	t.Run("deadline", func(t *testing.T) {
		err := &url.Error{Op: "Get", URL: "https://example.com", Err: context.DeadlineExceeded}
		got := AsFetchError("https://example.com", err)
		assert.Equal(t, KindTimeout, got.Kind)
		assert.Equal(t, context.DeadlineExceeded.Error(), got.Reason)
		assert.ErrorIs(t, got, context.DeadlineExceeded)
	})

	t.Run("cancelled", func(t *testing.T) {
		got := AsFetchError("https://example.com", context.Canceled)
		assert.Equal(t, KindCancelled, got.Kind)
	})
}

func TestFetchErrorMessage(t *testing.T) {
	err := newStatusError("https://example.com/x", 404)
	assert.Equal(t, "fetch https://example.com/x: request failed with status code 404", err.Error())
}
