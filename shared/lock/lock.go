// Package lock provides a Redis backed mutual exclusion keyed by name. It serialises work for a
// single user across replicas; correctness never depends on it because writes are also version checked.
package lock

//go:generate go run go.uber.org/mock/mockgen -source=./lock.go -destination=./mocks/lock_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"itinera/infras/otel"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName  = "lock"
	otelKeyAttr    = "lock.key"
	keyPrefix      = "lock:"
	defaultBackoff = 50 * time.Millisecond
)

var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker interface {
	// Acquire blocks until the lock is held, ctx is done, or wait elapses.
	Acquire(ctx context.Context, name string, ttl, wait time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

type redisLocker struct {
	client  *redis.Client
	otel    otel.Otel
	backoff time.Duration
}

func NewRedisLocker(client *redis.Client, ot otel.Otel) Locker {
	return &redisLocker{
		client:  client,
		otel:    ot,
		backoff: defaultBackoff,
	}
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (l *redisLocker) Acquire(ctx context.Context, name string, ttl, wait time.Duration) (_ Lock, err error) {
	ctx, scope := l.otel.NewScope(ctx, otelScopeName, otelScopeName+".Acquire")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := keyPrefix + name
	token := uuid.NewString()

	scope.SetAttribute(otelKeyAttr, key)

	deadline := time.Now().Add(wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to acquire lock")

			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if ok {
			return &redisLock{client: l.client, key: key, token: token}, nil
		}

		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock %s: %w", key, ctx.Err())
		case <-time.After(l.backoff):
		}
	}
}

// Release is a no-op when the lock already expired or was taken over.
func (l *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		log.Error().Err(err).Str("key", l.key).Msg("failed to release lock")

		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}

	return nil
}
