package datadog

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rl := NewRateLimiter()
	rl.now = func() time.Time { return now }

	assert.Equal(t, -1, rl.Remaining())

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "100")
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateReset, "30")
	rl.UpdateFromResponse(resp)

	assert.Equal(t, 100, rl.Limit())
	assert.Equal(t, 42, rl.Remaining())
	assert.Equal(t, now.Add(30*time.Second), rl.ResetTime())
}

func TestRateLimiter_UpdateFromResponse_IgnoresBadHeaders(t *testing.T) {
	rl := NewRateLimiter()

	rl.UpdateFromResponse(nil)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "lots")
	rl.UpdateFromResponse(resp)

	assert.Equal(t, -1, rl.Remaining())
	assert.True(t, rl.ResetTime().IsZero())
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("passes when budget is unknown", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf, 1)

		require.NoError(t, rl.Wait(context.Background()))
	})

	t.Run("blocks until reset when budget is exhausted", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf, 1)
		rl.remaining = 0
		rl.resetTime = time.Now().Add(time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := rl.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("passes once reset time has elapsed", func(t *testing.T) {
		rl := NewRateLimiterWithRate(rate.Inf, 1)
		rl.remaining = 0
		rl.resetTime = time.Now().Add(-time.Second)

		require.NoError(t, rl.Wait(context.Background()))
	})
}
