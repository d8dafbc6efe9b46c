package cache_test

import (
	"context"
	"itinera/infras/otel/mocks"
	"itinera/shared/cache"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedTrip struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

func newTestCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache_SaveAndGet(t *testing.T) {
	redisCache, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "trip:get:trip-1", cachedTrip{ID: "trip-1", Version: 3}, 60))

	var got cachedTrip
	require.NoError(t, redisCache.Get(ctx, "trip:get:trip-1", &got))
	assert.Equal(t, cachedTrip{ID: "trip-1", Version: 3}, got)

	server.FastForward(61 * time.Second)

	err := redisCache.Get(ctx, "trip:get:trip-1", &got)
	require.Error(t, err)
	assert.True(t, cache.IsMiss(err))
}

func TestRedisCache_GetRawString(t *testing.T) {
	redisCache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "raw", "BEGIN:VCALENDAR", 60))

	var got string
	require.NoError(t, redisCache.Get(ctx, "raw", &got))
	assert.Equal(t, "BEGIN:VCALENDAR", got)
}

func TestRedisCache_GetMiss(t *testing.T) {
	redisCache, _ := newTestCache(t)

	var got cachedTrip
	err := redisCache.Get(context.Background(), "missing", &got)

	require.Error(t, err)
	assert.True(t, cache.IsMiss(err))
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	redisCache, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, redisCache.Save(ctx, "trip:get:a", "a", 60))
	require.NoError(t, redisCache.Save(ctx, "trip:get:b", "b", 60))
	require.NoError(t, redisCache.Save(ctx, "booking:get:c", "c", 60))

	require.NoError(t, redisCache.Delete(ctx, "trip:get:a"))
	assert.False(t, server.Exists("trip:get:a"))

	require.NoError(t, redisCache.Clear(ctx, "trip:*"))
	assert.False(t, server.Exists("trip:get:b"))
	assert.True(t, server.Exists("booking:get:c"))

	require.NoError(t, redisCache.Clear(ctx, "nothing:*"))
}

func TestRedisCache_Increment(t *testing.T) {
	redisCache, server := newTestCache(t)
	ctx := context.Background()

	first, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, 60*time.Second, server.TTL("limiter:1.2.3.4"))

	server.FastForward(61 * time.Second)

	restarted, err := redisCache.Increment(ctx, "limiter:1.2.3.4", 60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), restarted)
}
