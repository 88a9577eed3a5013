package cache

import (
	"context"
	"time"

	"pregnancy-nutrition-be/internal/pkg/logger"
	"pregnancy-nutrition-be/pkg/answer"
)

const DefaultTTL = 3600 * time.Second

// Entry is owned by the cache. It expires by wall-clock comparison on read.
type Entry struct {
	Key       string          `json:"key"`
	Value     answer.Response `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	TTL       time.Duration   `json:"ttl"`
}

// Expired reports whether now is past created_at + ttl
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// Store is the raw key/value backend behind ResponseCache
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, key string) error
	Len(ctx context.Context) int
}

// ResponseCache maps a query cache key to an already accepted response
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger logger.ILogger
}

type Option func(*ResponseCache)

func WithClock(now func() time.Time) Option {
	return func(c *ResponseCache) {
		c.now = now
	}
}

func NewResponseCache(store Store, defaultTTL time.Duration, log logger.ILogger, opts ...Option) *ResponseCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c := &ResponseCache{
		store:  store,
		ttl:    defaultTTL,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached response, discarding it when its ttl has passed.
// Backend failures are logged and reported as a miss.
func (c *ResponseCache) Get(ctx context.Context, key string) (answer.Response, bool) {
	entry, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("CACHE", "Cache read failed, treating as miss", map[string]interface{}{
			"error": err.Error(),
		})
		return answer.Response{}, false
	}
	if !found {
		return answer.Response{}, false
	}

	if entry.Expired(c.now()) {
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("CACHE", "Failed to discard expired entry", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return answer.Response{}, false
	}
	return entry.Value, true
}

// Put stores the response. A non-positive ttl falls back to the default.
func (c *ResponseCache) Put(ctx context.Context, key string, resp answer.Response, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	entry := Entry{
		Key:       key,
		Value:     resp,
		CreatedAt: c.now(),
		TTL:       ttl,
	}
	if err := c.store.Set(ctx, entry); err != nil {
		c.logger.Warn("CACHE", "Cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *ResponseCache) DefaultTTL() time.Duration {
	return c.ttl
}

func (c *ResponseCache) Len(ctx context.Context) int {
	return c.store.Len(ctx)
}
