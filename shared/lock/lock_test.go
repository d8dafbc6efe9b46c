package lock_test

import (
	"context"
	"errors"
	"itinera/infras/otel/mocks"
	"itinera/shared/lock"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (lock.Locker, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return lock.NewRedisLocker(client, mocks.NewOtel()), server
}

func TestAcquireAndRelease(t *testing.T) {
	locker, server := newLocker(t)
	ctx := context.Background()

	held, err := locker.Acquire(ctx, "ingest:user-1", time.Minute, 0)
	require.NoError(t, err)
	assert.True(t, server.Exists("lock:ingest:user-1"))

	require.NoError(t, held.Release(ctx))
	assert.False(t, server.Exists("lock:ingest:user-1"))
}

func TestAcquireContended(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	held, err := locker.Acquire(ctx, "ingest:user-1", time.Minute, 0)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "ingest:user-1", time.Minute, 120*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrNotAcquired))

	other, err := locker.Acquire(ctx, "ingest:user-2", time.Minute, 0)
	require.NoError(t, err, "locks are scoped by name")

	require.NoError(t, other.Release(ctx))
	require.NoError(t, held.Release(ctx))
}

func TestAcquireWaitsForRelease(t *testing.T) {
	locker, _ := newLocker(t)
	ctx := context.Background()

	held, err := locker.Acquire(ctx, "ingest:user-1", time.Minute, 0)
	require.NoError(t, err)

	go func() {
		time.Sleep(60 * time.Millisecond)

		_ = held.Release(ctx)
	}()

	next, err := locker.Acquire(ctx, "ingest:user-1", time.Minute, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, next.Release(ctx))
}

func TestReleaseAfterTakeover(t *testing.T) {
	locker, server := newLocker(t)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "ingest:user-1", time.Second, 0)
	require.NoError(t, err)

	server.FastForward(2 * time.Second)

	fresh, err := locker.Acquire(ctx, "ingest:user-1", time.Minute, 0)
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, server.Exists("lock:ingest:user-1"), "stale holder must not release the new lock")

	require.NoError(t, fresh.Release(ctx))
}

func TestAcquireCancelled(t *testing.T) {
	locker, _ := newLocker(t)

	held, err := locker.Acquire(context.Background(), "ingest:user-1", time.Minute, 0)
	require.NoError(t, err)

	defer func() { _ = held.Release(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, "ingest:user-1", time.Minute, time.Minute)
	require.Error(t, err)
}
