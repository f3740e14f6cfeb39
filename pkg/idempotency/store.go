package idempotency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDuplicate is returned by Reserve when the key is already held.
var ErrDuplicate = errors.New("duplicate idempotency key")

// Store reserves client supplied idempotency keys for a limited time.
type Store interface {
	// Reserve claims key for ttl. It returns ErrDuplicate when the key is held.
	Reserve(ctx context.Context, key string, ttl time.Duration) error
	// Release frees key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// RedisStore shares reservations across instances.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.fullKey(key), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (s *RedisStore) fullKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// MemoryStore keeps reservations in process. Used when no Redis is configured.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if exp, ok := s.keys[key]; ok && now.Before(exp) {
		return ErrDuplicate
	}
	s.keys[key] = now.Add(ttl)
	// drop expired entries while we hold the lock
	for k, exp := range s.keys {
		if !now.Before(exp) {
			delete(s.keys, k)
		}
	}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
