package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Store is a TTL'd key-value store for serialized view snapshots. It is an
// optimization only: callers must treat every error as a miss and fall back
// to the direct query path.
type Store interface {
	// Get returns the payload and its remaining TTL. ok is false on a miss.
	Get(ctx context.Context, key string) (payload []byte, remaining time.Duration, ok bool, err error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key under the given prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a redis client as a Store.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		if err == redis.Nil {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	payload, err := getCmd.Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, 0, false, nil
		}
		return nil, 0, false, err
	}

	remaining := ttlCmd.Val()
	if remaining < 0 {
		remaining = 0
	}
	return payload, remaining, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, payload, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *redisStore) DelPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an in-process Store. It backs local development and
// tests when no redis is configured.
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, time.Duration, bool, error) {
	_ = ctx
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, false, nil
	}

	remaining := entry.expiresAt.Sub(s.now())
	if remaining <= 0 {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, 0, false, nil
	}
	return entry.payload, remaining, true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	_ = ctx
	s.mu.Lock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Del(ctx context.Context, keys ...string) error {
	_ = ctx
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) DelPrefix(ctx context.Context, prefix string) error {
	_ = ctx
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
	return nil
}
