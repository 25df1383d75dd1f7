package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CounterStore owns the per-type sequence behind sequential ticket ids.
type CounterStore interface {
	// Next seeds the counter for key with seed() when absent, increments it
	// by one and returns the new value.
	Next(ctx context.Context, key string, seed func() int64) (int64, error)
	Ping(ctx context.Context) error
}

// memoryCounterStore keeps sequences in process memory. Values are lost on
// restart and are not shared between instances.
type memoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryCounterStore returns an empty in-process counter store.
func NewMemoryCounterStore() CounterStore {
	return &memoryCounterStore{counters: make(map[string]int64)}
}

func (s *memoryCounterStore) Next(_ context.Context, key string, seed func() int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.counters[key]
	if !ok {
		current = seed()
	}
	current++
	s.counters[key] = current
	return current, nil
}

func (s *memoryCounterStore) Ping(context.Context) error {
	return nil
}

// redisCounterStore shares sequences between instances through Redis.
type redisCounterStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCounterStore stores each sequence under "<prefix>:<key>".
func NewRedisCounterStore(client *redis.Client, prefix string) CounterStore {
	return &redisCounterStore{client: client, prefix: prefix}
}

func (s *redisCounterStore) Next(ctx context.Context, key string, seed func() int64) (int64, error) {
	redisKey := s.redisKey(key)
	exists, err := s.client.Exists(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("check counter %s: %w", redisKey, err)
	}
	if exists == 0 {
		// SETNX keeps the first seed when several instances race here.
		if err := s.client.SetNX(ctx, redisKey, seed(), 0).Err(); err != nil {
			return 0, fmt.Errorf("seed counter %s: %w", redisKey, err)
		}
	}
	next, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", redisKey, err)
	}
	return next, nil
}

func (s *redisCounterStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}

func (s *redisCounterStore) redisKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
