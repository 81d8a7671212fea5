package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTokenBucket_TakeAndRefill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(10, 1.0, clock.Now())

	for i := 0; i < 10; i++ {
		assert.True(t, bucket.take(clock.Now()), "request %d", i+1)
	}
	assert.False(t, bucket.take(clock.Now()))
	assert.Equal(t, time.Second, bucket.nextToken().Round(time.Millisecond))

	clock.Advance(time.Second)
	assert.True(t, bucket.take(clock.Now()))
	assert.False(t, bucket.take(clock.Now()))

	assert.Equal(t, clock.Now().Add(10*time.Second), bucket.resetAt(clock.Now()))
}

func TestLimiter_Allow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiterWithClock(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute}, clock.Now)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs/abc", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/jobs/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter.Round(time.Millisecond))

	clock.Advance(6 * time.Second)
	allowed, _ = limiter.Allow("127.0.0.1", "/jobs/abc", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Lists(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/jobs", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.2", "/jobs", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_SubmissionLimitedHealthUnlimited(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiterWithClock(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}, clock.Now)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/jobs", "POST")
		require.True(t, allowed)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := limiter.Allow("127.0.0.1", "/jobs", "POST")
	assert.False(t, allowed, "burst of 5 exhausted")

	allowed, info := limiter.Allow("127.0.0.1", "/jobs/abc", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	for i := 0; i < 2000; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiterWithClock(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour}, newFakeClock().Now)
	defer limiter.Stop()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("127.0.0.1", "/jobs/x", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), allowedCount.Load())
}

func TestLimiter_Sweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiterWithClock(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTimeout: time.Hour}, clock.Now)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/jobs/x", "GET")
	}
	require.Equal(t, 10, limiter.Len())

	clock.Advance(45 * time.Minute)
	for i := 0; i < 5; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/jobs/x", "GET")
	}

	clock.Advance(30 * time.Minute)
	limiter.Sweep()
	assert.Equal(t, 5, limiter.Len())
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()
	limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/jobs/x", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_SUBMIT_LIMIT", "3")
	t.Setenv("RATE_LIMIT_SUBMIT_BURST", "3")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.3")

	cfg := LoadConfig()
	require.True(t, cfg.Enabled)
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.3": true}, cfg.Whitelist)

	ec := MatchEndpoint("/jobs/upload", "POST", cfg.EndpointConfigs)
	require.NotNil(t, ec)
	assert.Equal(t, 3, ec.Limit)
	assert.Equal(t, time.Hour, ec.Window)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/jobs", Method: "POST", Limit: 1},
		{Path: "/admin/", Method: "DELETE", Limit: 2},
	}

	assert.Equal(t, 1, MatchEndpoint("/jobs", "POST", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/admin/keys", "DELETE", configs).Limit)
	assert.Nil(t, MatchEndpoint("/jobs", "GET", configs))
	assert.Zero(t, MatchEndpoint("/metrics", "GET", configs).Limit)
}
