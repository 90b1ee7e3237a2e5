package memory

// Package memory provides an in-memory key-value store used in development
// mode and unit tests. It mirrors the Redis adapter's semantics.

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// KVStore is a thread-safe in-memory key-value store.
type KVStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStore creates an empty in-memory key-value store.
func NewKVStore() *KVStore {
	return &KVStore{items: make(map[string]string)}
}

// Get retrieves a value by key. A missing key yields ("", false, nil).
func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.items[key]
	return val, ok, nil
}

// Set stores a value under key, replacing any prior value.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Keys lists keys starting with prefix in lexical order.
func (s *KVStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored keys. Test helper.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
