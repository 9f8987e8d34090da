package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrIdempotencyInFlight is returned while the first request with the same key is still running
var ErrIdempotencyInFlight = errors.New("request with this idempotency key is in progress")

const (
	idempotencyKeyPrefix = "idempotency:"
	idempotencyPending   = "__pending__"
	idempotencyTTL       = 24 * time.Hour
	idempotencyLockTTL   = 30 * time.Second
)

// reserveIdempotencyScript atomically returns the stored result for a key,
// or claims the key with a pending marker when it is unused.
// Returns false (nil reply) when the caller now owns the key.
var reserveIdempotencyScript = redis.NewScript(`
	local current = redis.call('GET', KEYS[1])
	if current then
		return current
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return false
`)

// IdempotencyStore de-duplicates retried requests that carry a client supplied key
type IdempotencyStore interface {
	// Reserve claims key within scope. It returns the stored result of a finished
	// request, or "" when the caller owns the key and must Complete or Release it.
	Reserve(ctx context.Context, scope, key string) (string, error)
	Complete(ctx context.Context, scope, key, result string) error
	Release(ctx context.Context, scope, key string) error
}

type redisIdempotencyStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewIdempotencyStore(redisClient *redis.Client, log *logrus.Logger) IdempotencyStore {
	return &redisIdempotencyStore{
		redisClient: redisClient,
		log:         log,
	}
}

func idempotencyRedisKey(scope, key string) string {
	return fmt.Sprintf("%s%s:%s", idempotencyKeyPrefix, scope, key)
}

func (s *redisIdempotencyStore) Reserve(ctx context.Context, scope, key string) (string, error) {
	redisKey := idempotencyRedisKey(scope, key)

	result, err := reserveIdempotencyScript.Run(ctx, s.redisClient, []string{redisKey},
		idempotencyPending, idempotencyLockTTL.Milliseconds()).Text()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		s.log.Warnf("Failed to reserve idempotency key %s: %+v", redisKey, err)
		return "", fmt.Errorf("reserve idempotency key %s: %w", redisKey, err)
	}
	if result == idempotencyPending {
		return "", ErrIdempotencyInFlight
	}
	return result, nil
}

func (s *redisIdempotencyStore) Complete(ctx context.Context, scope, key, result string) error {
	redisKey := idempotencyRedisKey(scope, key)
	if err := s.redisClient.Set(ctx, redisKey, result, idempotencyTTL).Err(); err != nil {
		s.log.Warnf("Failed to store idempotency result %s: %+v", redisKey, err)
		return fmt.Errorf("complete idempotency key %s: %w", redisKey, err)
	}
	return nil
}

func (s *redisIdempotencyStore) Release(ctx context.Context, scope, key string) error {
	redisKey := idempotencyRedisKey(scope, key)
	if err := s.redisClient.Del(ctx, redisKey).Err(); err != nil {
		s.log.Warnf("Failed to release idempotency key %s: %+v", redisKey, err)
		return fmt.Errorf("release idempotency key %s: %w", redisKey, err)
	}
	return nil
}
