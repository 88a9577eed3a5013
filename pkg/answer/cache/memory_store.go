package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultMaxEntries = 1000

// MemoryStore keeps entries in process. There is no janitor: expiry is decided on read
// by ResponseCache, and the entry count is bounded on write.
type MemoryStore struct {
	items      *gocache.Cache
	maxEntries int
	now        func() time.Time
	evictMu    sync.Mutex
}

func NewMemoryStore(maxEntries int, now func() time.Time) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		items:      gocache.New(gocache.NoExpiration, 0),
		maxEntries: maxEntries,
		now:        now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	x, found := s.items.Get(key)
	if !found {
		return Entry{}, false, nil
	}
	return x.(Entry), true, nil
}

// Set overwrites any existing entry for the key. When the table is full, expired
// entries go first, then the oldest one.
func (s *MemoryStore) Set(_ context.Context, entry Entry) error {
	if _, exists := s.items.Get(entry.Key); exists {
		s.items.Set(entry.Key, entry, gocache.NoExpiration)
		return nil
	}

	s.evictMu.Lock()
	defer s.evictMu.Unlock()

	if s.items.ItemCount() >= s.maxEntries {
		s.evict()
	}
	s.items.Set(entry.Key, entry, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

func (s *MemoryStore) Len(_ context.Context) int {
	return s.items.ItemCount()
}

func (s *MemoryStore) evict() {
	now := s.now()
	var oldestKey string
	var oldest time.Time

	for key, item := range s.items.Items() {
		entry := item.Object.(Entry)
		if entry.Expired(now) {
			s.items.Delete(key)
			continue
		}
		if oldestKey == "" || entry.CreatedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.CreatedAt
		}
	}

	if s.items.ItemCount() >= s.maxEntries && oldestKey != "" {
		s.items.Delete(oldestKey)
	}
}
