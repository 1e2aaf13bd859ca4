package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryL2Store is an in-memory L2Store fake, used in tests in place of a
// real Redis instance (grounded on the teacher's infrastructure/cache
// testing style of swapping a narrow interface for a map-backed fake).
type MemoryL2Store struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryL2Store constructs an empty fake L2 store.
func NewMemoryL2Store() *MemoryL2Store {
	return &MemoryL2Store{entries: make(map[string]memoryEntry)}
}

func (s *MemoryL2Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryL2Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

// Len reports the number of live entries, for test assertions.
func (s *MemoryL2Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// FailingL2Store always fails, for exercising CacheTier's
// errors-never-propagate guarantee (spec.md §4.4).
type FailingL2Store struct{ Err error }

func (s *FailingL2Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, s.Err
}

func (s *FailingL2Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Err
}
