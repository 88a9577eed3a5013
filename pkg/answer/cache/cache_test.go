package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache(clock *fakeClock, maxEntries int) *ResponseCache {
	store := NewMemoryStore(maxEntries, clock.Now)
	return NewResponseCache(store, time.Hour, logger.NewNopLogger(), WithClock(clock.Now))
}

func sampleResponse(text string) answer.Response {
	return answer.Response{AnswerText: text, SourceTier: answer.TierDataset}
}

func TestResponseCache_GetPut(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 10)

	_, found := c.Get(ctx, "k1")
	assert.False(t, found)

	c.Put(ctx, "k1", sampleResponse("dal is good"), 0)
	got, found := c.Get(ctx, "k1")
	require.True(t, found)
	assert.Equal(t, "dal is good", got.AnswerText)
}

func TestResponseCache_ExpiresLazily(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 10)

	c.Put(ctx, "k1", sampleResponse("cached"), 10*time.Second)

	clock.Advance(10 * time.Second)
	_, found := c.Get(ctx, "k1")
	assert.True(t, found, "entry at exactly ttl is still valid")

	clock.Advance(time.Millisecond)
	_, found = c.Get(ctx, "k1")
	assert.False(t, found)
	assert.Equal(t, 0, c.Len(ctx), "expired entry is discarded on read")
}

func TestResponseCache_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 10)

	c.Put(ctx, "k", sampleResponse("first"), 0)
	c.Put(ctx, "k", sampleResponse("second"), 0)

	got, found := c.Get(ctx, "k")
	require.True(t, found)
	assert.Equal(t, "second", got.AnswerText)
	assert.Equal(t, 1, c.Len(ctx))
}

func TestMemoryStore_BoundedEviction(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 3)

	for i := 0; i < 3; i++ {
		c.Put(ctx, fmt.Sprintf("k%d", i), sampleResponse("v"), 0)
		clock.Advance(time.Second)
	}
	c.Put(ctx, "k3", sampleResponse("v"), 0)

	assert.Equal(t, 3, c.Len(ctx))
	_, found := c.Get(ctx, "k0")
	assert.False(t, found, "oldest entry is evicted")
	_, found = c.Get(ctx, "k3")
	assert.True(t, found)
}

func TestMemoryStore_EvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	c := newTestCache(clock, 2)

	c.Put(ctx, "old-long", sampleResponse("v"), time.Hour)
	clock.Advance(time.Second)
	c.Put(ctx, "short", sampleResponse("v"), time.Second)
	clock.Advance(5 * time.Second)

	c.Put(ctx, "new", sampleResponse("v"), time.Hour)

	_, found := c.Get(ctx, "old-long")
	assert.True(t, found, "expired entry should have been evicted instead")
	_, found = c.Get(ctx, "new")
	assert.True(t, found)
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (Entry, bool, error) {
	return Entry{}, false, errors.New("connection refused")
}
func (failingStore) Set(context.Context, Entry) error { return errors.New("connection refused") }
func (failingStore) Delete(context.Context, string) error { return nil }
func (failingStore) Len(context.Context) int { return 0 }

func TestResponseCache_BackendFailureIsMiss(t *testing.T) {
	c := NewResponseCache(failingStore{}, 0, logger.NewNopLogger())
	c.Put(context.Background(), "k", sampleResponse("v"), 0)

	_, found := c.Get(context.Background(), "k")
	assert.False(t, found)
	assert.Equal(t, DefaultTTL, c.DefaultTTL())
}

func TestRedisStore_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	store := NewRedisStore(rdb)
	c := NewResponseCache(store, time.Minute, logger.NewNopLogger())

	key := fmt.Sprintf("test-%d", time.Now().UnixNano())
	c.Put(ctx, key, sampleResponse("from redis"), 0)

	got, found := c.Get(ctx, key)
	require.True(t, found)
	assert.Equal(t, "from redis", got.AnswerText)
	require.NoError(t, store.Delete(ctx, key))
}
