// Package mocks provides mock implementations for testing the storefront services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// port interfaces. The mocks are generated using go:generate directives and provide
// a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockKV := mocks.NewMockKeyValueStore(ctrl)
//	mockKV.EXPECT().Get(gomock.Any(), "auth-storage").Return("", false, nil)
package mocks

// Generate mock for KeyValueStore interface from internal/ports package.
// This creates MockKeyValueStore with methods for all KeyValueStore interface methods:
// Get, Set, Delete, Keys
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=kv_store_mock.go github.com/northwind/storefront/internal/ports KeyValueStore

// Generate mock for CatalogClient interface from internal/ports package.
// This creates MockCatalogClient with methods for all CatalogClient interface methods:
// Login, Register, GetUser, ListProducts, ListCategories, ListByCategory, GetProduct
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_client_mock.go github.com/northwind/storefront/internal/ports CatalogClient
