package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultLimitPerMinute = 20
	DefaultWindow         = 60 * time.Second
)

// window is the ordered request history of one client
type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// Limiter counts requests per client in a rolling window.
// Windows are stored per client and locked individually; a denied call never blocks or queues.
type Limiter struct {
	limit   int
	window  time.Duration
	windows *cache.Cache
	now     func() time.Time

	// mu makes get-or-create of a window atomic so concurrent first requests share one window
	mu sync.Mutex
}

type Option func(*Limiter)

// WithClock replaces the wall clock, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithWindow overrides the 60 second window
func WithWindow(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.window = d
		}
	}
}

func NewLimiter(limitPerWindow int, opts ...Option) *Limiter {
	if limitPerWindow <= 0 {
		limitPerWindow = DefaultLimitPerMinute
	}
	l := &Limiter{
		limit:  limitPerWindow,
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	// Idle windows only hold stale timestamps, so letting them expire loses nothing
	l.windows = cache.New(l.window, 2*l.window)
	return l
}

// Allow prunes the client's window, then records the request if it is under the limit
func (l *Limiter) Allow(clientID string) bool {
	w := l.windowFor(clientID)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	w.prune(now, l.window)
	if len(w.stamps) >= l.limit {
		return false
	}
	w.stamps = append(w.stamps, now)
	return true
}

// Remaining reports how many requests the client may still make in the current window
func (l *Limiter) Remaining(clientID string) int {
	x, found := l.windows.Get(clientID)
	if !found {
		return l.limit
	}
	w := x.(*window)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.prune(l.now(), l.window)
	if left := l.limit - len(w.stamps); left > 0 {
		return left
	}
	return 0
}

func (l *Limiter) Limit() int {
	return l.limit
}

// windowFor returns the client's window, creating it on first use, and pushes its expiry
// a full window ahead
func (l *Limiter) windowFor(clientID string) *window {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := &window{}
	if x, found := l.windows.Get(clientID); found {
		w = x.(*window)
	}
	l.windows.Set(clientID, w, l.window)
	return w
}

func (w *window) prune(now time.Time, size time.Duration) {
	cutoff := now.Add(-size)
	i := 0
	for i < len(w.stamps) && !w.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[i:]...)
	}
}
