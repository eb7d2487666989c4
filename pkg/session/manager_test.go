package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SerializesReadModifyWrite(t *testing.T) {
	manager := session.NewManager()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, "race-test", func(ctx context.Context) error {
				v := counter
				time.Sleep(time.Millisecond) // widen the race window
				counter = v + 1
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, counter, "no lost updates")
	assert.Equal(t, 0, manager.Active())
}

func TestManager_LockLifecycle(t *testing.T) {
	manager := session.NewManager()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		_ = manager.WithLock(ctx, fmt.Sprintf("conv-%d", i), func(context.Context) error { return nil })
	}
	assert.Equal(t, 0, manager.Active(), "locks are released once unused")
}

func TestManager_PropagatesError(t *testing.T) {
	manager := session.NewManager()
	boom := errors.New("boom")
	err := manager.WithLock(context.Background(), "c", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestManager_EmptyIDSkipsLocking(t *testing.T) {
	manager := session.NewManager()
	called := false
	err := manager.WithLock(context.Background(), "", func(context.Context) error {
		called = true
		assert.Equal(t, 0, manager.Active())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

type failingLocker struct{}

func (failingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("redis down")
}

func TestManager_DistributedLockFailure(t *testing.T) {
	manager := session.NewManager(session.WithLocker(failingLocker{}))
	called := false
	err := manager.WithLock(context.Background(), "c", func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestManager_RedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	manager := session.NewManager(
		session.WithLocker(redis.NewLocker(client, "intake:")),
		session.WithLockTTL(5*time.Second),
	)

	err := manager.WithLock(context.Background(), "conv-1", func(context.Context) error {
		assert.True(t, mr.Exists("intake:lock:conv-1"))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists("intake:lock:conv-1"))
}
