package redis

// Package redis provides the Redis-backed durable key-value store for the
// storefront system.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// KVStore is a Redis-backed key-value store for production use. All keys are
// namespaced under a fixed prefix so the storefront can share a Redis
// database with other tenants.
type KVStore struct {
	client redis.UniversalClient
	prefix string
}

// NewKVStore creates a Redis key-value store with the default "storefront:"
// key prefix.
func NewKVStore(client redis.UniversalClient) *KVStore {
	return &KVStore{client: client, prefix: "storefront:"}
}

// NewKVStoreWithPrefix creates a Redis key-value store with a custom prefix.
func NewKVStoreWithPrefix(client redis.UniversalClient, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) fullKey(key string) string {
	return s.prefix + key
}

// Get retrieves a value by key. A missing key yields ("", false, nil).
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("key cannot be empty")
	}

	val, err := s.client.Get(ctx, s.fullKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}

	return val, true, nil
}

// Set stores a value under key with no expiration. Durability of session and
// cart records is time-bounded by the application's own retention logic, not
// by Redis TTLs.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	if err := s.client.Set(ctx, s.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Keys lists keys starting with prefix, with the store prefix stripped.
func (s *KVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.fullKey(prefix)+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	return keys, nil
}
