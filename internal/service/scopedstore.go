package service

import (
	"context"

	"github.com/northwind/storefront/internal/ports"
)

// ScopedStore maps logical keys to identity-scoped physical keys in the
// durable store. Identity is resolved fresh on every operation, never cached
// across calls, since a login or logout between two operations changes which
// bucket the next operation must touch.
type ScopedStore struct {
	kv       ports.KeyValueStore
	resolver *IdentityResolver
}

// NewScopedStore creates a scoped store over the given namespace and resolver.
func NewScopedStore(kv ports.KeyValueStore, resolver *IdentityResolver) *ScopedStore {
	return &ScopedStore{kv: kv, resolver: resolver}
}

// Identity resolves the active identity.
func (s *ScopedStore) Identity(ctx context.Context) string {
	return s.resolver.Resolve(ctx)
}

// Key returns the physical key a logical key maps to right now.
func (s *ScopedStore) Key(ctx context.Context, logicalKey string) string {
	return logicalKey + "-" + s.resolver.Resolve(ctx)
}

// Get reads the value stored under the scoped key. A missing key yields
// ("", false, nil).
func (s *ScopedStore) Get(ctx context.Context, logicalKey string) (string, bool, error) {
	return s.kv.Get(ctx, s.Key(ctx, logicalKey))
}

// Set writes value under the scoped key.
func (s *ScopedStore) Set(ctx context.Context, logicalKey, value string) error {
	return s.kv.Set(ctx, s.Key(ctx, logicalKey), value)
}

// Remove deletes the scoped key. Removing a missing key is a no-op.
func (s *ScopedStore) Remove(ctx context.Context, logicalKey string) error {
	return s.kv.Delete(ctx, s.Key(ctx, logicalKey))
}
