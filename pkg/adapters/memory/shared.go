package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// SharedContextStore implements ports.SharedContextStore in memory.
// Entries expire lazily: an entry older than the TTL is purged on the next read.
type SharedContextStore struct {
	mu      sync.RWMutex
	entries map[string]domain.SharedContextEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewSharedContextStore creates a new in-memory shared context store.
func NewSharedContextStore(opts ...Option) *SharedContextStore {
	o := apply(opts)
	return &SharedContextStore{
		entries: make(map[string]domain.SharedContextEntry),
		ttl:     o.ttl,
		now:     o.now,
	}
}

// Get returns a deep copy of the snapshot stored at key.
func (s *SharedContextStore) Get(ctx context.Context, key string) (map[string]any, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if entry.Expired(s.now(), s.ttl) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if current, ok := s.entries[key]; ok && current.Expired(s.now(), s.ttl) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, nil
	}
	return domain.DeepCopyMap(entry.Context), nil
}

// Set stores a deep copy of snapshot with a fresh timestamp.
func (s *SharedContextStore) Set(ctx context.Context, key string, snapshot map[string]any) error {
	entry := domain.SharedContextEntry{
		Context:   domain.DeepCopyMap(snapshot),
		UpdatedAt: s.now().UnixMilli(),
	}
	if entry.Context == nil {
		entry.Context = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (s *SharedContextStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
