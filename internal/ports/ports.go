package ports

// Package ports defines interfaces (hexagonal ports) for storage and the
// remote store API. Implementations live in internal/adapters; orchestration
// in internal/service.

import (
	"context"

	"github.com/northwind/storefront/internal/domain/auth"
	"github.com/northwind/storefront/internal/domain/catalog"
)

// KeyValueStore is the durable key-value store the storefront persists
// session and cart state in. It is shared and non-transactional; writers
// rely on last-write-wins semantics per key.
type KeyValueStore interface {
	// Get returns the value for key. The second return reports presence; a
	// missing key is ("", false, nil), not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys lists the keys currently present that start with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// CatalogClient is the remote catalog/auth API surface the storefront
// consumes. The remote service is externally owned; its behavior is opaque.
type CatalogClient interface {
	// Login exchanges credentials for a signed token and, when the remote
	// API provides one, the user profile.
	Login(ctx context.Context, creds auth.Credentials) (auth.AuthResult, error)

	// Register creates an account. The result's Token may be empty: the
	// remote API sometimes acknowledges the account without issuing
	// credentials, and callers must handle that case explicitly.
	Register(ctx context.Context, reg auth.Registration) (auth.AuthResult, error)

	// GetUser fetches and normalizes the full profile for a user id.
	GetUser(ctx context.Context, id string) (auth.User, error)

	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, category string) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
}
