// Package cache provides an in-process TTL cache with get-or-populate
// semantics and substring-based invalidation. One Store per value shape;
// callers that cache different types hold separate typed instances.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is used by Set and by GetOrSet when the caller passes a
// non-positive TTL.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value     T
	createdAt time.Time
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Stats is a cheap snapshot of the store. Keys may include entries that are
// expired but not yet swept; Stats is for introspection, not correctness.
type Stats struct {
	Size int
	Keys []string
}

// Store is a TTL cache keyed by string. All methods are safe for concurrent
// use. Entries are evicted lazily on Get and actively by the janitor.
type Store[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	defaultTTL time.Duration
	log        zerolog.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Store with the given default TTL. Non-positive defaults fall
// back to DefaultTTL. The janitor is not started; call StartJanitor if the
// store outlives its hot read path.
func New[T any](defaultTTL time.Duration) *Store[T] {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Store[T]{
		entries:    make(map[string]entry[T]),
		defaultTTL: defaultTTL,
		log:        zerolog.Nop(),
		stop:       make(chan struct{}),
	}
}

// SetLogger attaches a logger for hit/miss/invalidation notices.
func (s *Store[T]) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Get returns the live value for key. An expired entry is removed and
// reported absent, so callers cannot distinguish expired from missing.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL, replacing any prior entry.
func (s *Store[T]) Set(key string, value T) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL. Non-positive TTLs use
// the store default.
func (s *Store[T]) SetTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, createdAt: now, expiresAt: now.Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key if present.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry[T])
	s.mu.Unlock()
}

// Cleanup sweeps the store once, removing every expired entry regardless of
// read traffic, and returns the number removed.
func (s *Store[T]) Cleanup() int {
	now := time.Now()
	s.mu.Lock()
	removed := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			removed++
		}
	}
	s.mu.Unlock()
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Msg("cache cleanup")
	}
	return removed
}

// Stats reports the current entry count and keys.
func (s *Store[T]) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return Stats{Size: len(s.entries), Keys: keys}
}

// StartJanitor runs Cleanup every interval until Stop is called. Non-positive
// intervals use the store's default TTL as the period.
func (s *Store[T]) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = s.defaultTTL
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the janitor. Safe to call more than once and without a janitor
// running.
func (s *Store[T]) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// GetOrSet returns the cached value for key, or runs producer, caches its
// result under key with ttl, and returns it. A producer error propagates
// unchanged and caches nothing.
//
// Concurrent misses on the same key each run producer; the last Set wins.
// Producers here are pure recomputations from the source of truth, so the
// occasional duplicate computation is cheaper than per-key serialization.
func (s *Store[T]) GetOrSet(ctx context.Context, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		s.log.Debug().Str("key", key).Msg("cache hit")
		return v, nil
	}
	s.log.Debug().Str("key", key).Msg("cache miss")

	v, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.SetTTL(key, v, ttl)
	return v, nil
}
