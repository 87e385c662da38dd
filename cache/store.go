package cache

import (
	"context"
	"fmt"
	"sync"

	"checkout-service/logger"

	"go.uber.org/zap"
)

// Cache keys for the server-backed views checkout depends on.
const (
	KeyCart   = "cart"
	KeyOrders = "orders"
)

// Fetcher loads the fresh value for a key from the server.
type Fetcher func(ctx context.Context) (interface{}, error)

type entry struct {
	valid bool
	value interface{}
	err   error

	// pending is non-nil while a fetch is in flight; waiters block on
	// it instead of issuing their own fetch.
	pending chan struct{}
	// stale records an Invalidate that arrived mid-fetch, so the
	// fetched value is served to the coalesced readers but not cached.
	stale bool
}

// Store is a keyed cache of server-backed views. Values never expire on
// their own; staleness is driven only by explicit invalidation after a
// mutating operation. Concurrent reads of a key share one in-flight
// fetch.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	fetchers map[string]Fetcher
}

func NewStore() *Store {
	return &Store{
		entries:  make(map[string]*entry),
		fetchers: make(map[string]Fetcher),
	}
}

// Register binds a key to its fetcher. Reads of unregistered keys fail.
func (s *Store) Register(key string, fetch Fetcher) {
	s.mu.Lock()
	s.fetchers[key] = fetch
	s.mu.Unlock()
}

// Read returns the cached value for key, fetching it first when the
// cache holds nothing fresh.
func (s *Store) Read(ctx context.Context, key string) (interface{}, error) {
	for {
		s.mu.Lock()
		e, ok := s.entries[key]
		if !ok {
			e = &entry{}
			s.entries[key] = e
		}

		if e.valid {
			value := e.value
			s.mu.Unlock()
			return value, nil
		}

		if e.pending != nil {
			done := e.pending
			s.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			// Re-check: the fetch may have succeeded, failed, or been
			// invalidated mid-flight.
			s.mu.Lock()
			if e.valid {
				value := e.value
				s.mu.Unlock()
				return value, nil
			}
			if e.err != nil {
				err := e.err
				s.mu.Unlock()
				return nil, err
			}
			s.mu.Unlock()
			continue
		}

		fetch, ok := s.fetchers[key]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("cache: no fetcher registered for key %q", key)
		}

		done := make(chan struct{})
		e.pending = done
		e.stale = false
		e.err = nil
		s.mu.Unlock()

		value, err := fetch(ctx)

		s.mu.Lock()
		e.pending = nil
		e.err = err
		stale := e.stale
		if err == nil && !stale {
			e.valid = true
			e.value = value
		}
		s.mu.Unlock()
		close(done)

		if err != nil {
			return nil, err
		}
		if stale {
			logger.Log.Debug("cache value invalidated mid-fetch", zap.String("key", key))
		}
		return value, nil
	}
}

// Invalidate marks key stale so the next Read re-fetches. An
// invalidation racing an in-flight fetch wins: the fetched value is not
// cached.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.valid = false
	e.value = nil
	if e.pending != nil {
		e.stale = true
	}
}
