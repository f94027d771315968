// Package cache holds Redis-backed stores.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
	keyPrefix             = "idempotency:payments:"
)

// IdempotencyStore keeps client idempotency keys in Redis.
// A key holds pendingMarker while its request runs and the payment id afterwards.
type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewIdempotencyStore(rdb redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	k := keyPrefix + key
	// one retry covers a key that expired between SETNX and GET
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.rdb.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("setnx %s: %w", k, err)
		}
		if ok {
			return "", true, nil
		}
		val, err := s.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("get %s: %w", k, err)
		}
		if val == pendingMarker {
			return "", false, nil
		}
		return val, false, nil
	}
	return "", false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key, paymentID string) error {
	return s.rdb.Set(ctx, keyPrefix+key, paymentID, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, keyPrefix+key).Err()
}
