package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// SharedContextStore implements ports.SharedContextStore using Redis.
// Entries carry a key expiry and their own timestamp, which is checked on read.
type SharedContextStore struct {
	client backend.UniversalClient
	opts   options
}

// NewSharedContextStore creates a shared context store from an existing client.
// The TTL defaults to domain.DefaultSharedContextTTL.
func NewSharedContextStore(client backend.UniversalClient, opts ...Option) *SharedContextStore {
	return &SharedContextStore{
		client: client,
		opts:   apply(domain.DefaultSharedContextTTL, opts),
	}
}

func (s *SharedContextStore) key(k string) string {
	return s.opts.prefix + "shared:" + k
}

// Get returns the snapshot stored at key, or nil when missing or stale.
func (s *SharedContextStore) Get(ctx context.Context, key string) (map[string]any, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, backend.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared context: %w", err)
	}

	var entry domain.SharedContextEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared context: %w", err)
	}
	if entry.Expired(s.opts.now(), s.opts.ttl) {
		s.client.Del(ctx, s.key(key))
		return nil, nil
	}
	if entry.Context == nil {
		entry.Context = map[string]any{}
	}
	return entry.Context, nil
}

// Set replaces the snapshot stored at key.
func (s *SharedContextStore) Set(ctx context.Context, key string, snapshot map[string]any) error {
	entry := domain.SharedContextEntry{
		Context:   snapshot,
		UpdatedAt: s.opts.now().UnixMilli(),
	}
	if entry.Context == nil {
		entry.Context = map[string]any{}
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal shared context: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), data, s.opts.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set shared context: %w", err)
	}
	return nil
}
