// Package idempotency maps client order request keys to the orders they produced.
package idempotency

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const pending = "pending"

// KV is the subset of the redis client used here
type KV interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store keeps request keys in Redis with a TTL
type Store struct {
	kv  KV
	ttl time.Duration
}

// NewStore creates a store. Keys expire after ttl.
func NewStore(kv KV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

func redisKey(userID int64, key string) string {
	return fmt.Sprintf("order:request:%d:%s", userID, key)
}

// Reserve claims a request key. If the key is already known, reserved is false and
// orderID is the recorded order, or 0 while the first request is still running.
func (s *Store) Reserve(ctx context.Context, userID int64, key string) (int64, bool, error) {
	k := redisKey(userID, key)
	ok, err := s.kv.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to reserve request key: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.kv.Get(ctx, k).Result()
	if err == redis.Nil {
		// expired between SETNX and GET; try once more
		ok, err = s.kv.SetNX(ctx, k, pending, s.ttl).Result()
		if err != nil {
			return 0, false, fmt.Errorf("failed to reserve request key: %w", err)
		}
		return 0, ok, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read request key: %w", err)
	}
	if val == pending {
		return 0, false, nil
	}

	orderID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("unexpected request key value %q: %w", val, err)
	}
	return orderID, false, nil
}

// Complete records the order a reserved key produced
func (s *Store) Complete(ctx context.Context, userID int64, key string, orderID int64) error {
	if err := s.kv.Set(ctx, redisKey(userID, key), strconv.FormatInt(orderID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to complete request key: %w", err)
	}
	return nil
}

// Release forgets a reserved key so the client may retry
func (s *Store) Release(ctx context.Context, userID int64, key string) error {
	if err := s.kv.Del(ctx, redisKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("failed to release request key: %w", err)
	}
	return nil
}
