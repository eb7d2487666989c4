// Package redis provides Redis-backed conversation, shared context and lock adapters.
package redis

import (
	"fmt"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "intake:"

// Option configures the Redis stores.
type Option func(*options)

type options struct {
	prefix       string
	ttl          time.Duration
	historyLimit int
	now          func() time.Time
	newID        func() string
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTTL sets the expiration for stored keys. For the shared context store
// it is also the staleness bound checked on read.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithHistoryLimit sets how many messages are kept per conversation.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.historyLimit = limit
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator overrides how conversation and message IDs are allocated.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		o.newID = fn
	}
}

func apply(ttl time.Duration, opts []Option) options {
	o := options{
		prefix:       DefaultPrefix,
		ttl:          ttl,
		historyLimit: domain.DefaultHistoryLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Dial creates a client from a redis:// URL.
func Dial(url string) (*backend.Client, error) {
	opt, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return backend.NewClient(opt), nil
}
