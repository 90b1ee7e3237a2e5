package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwind/storefront/internal/testutil"
)

func TestRedisKVStoreRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := context.Background()
	store := NewKVStoreWithPrefix(client, testutil.UniqueKeyPrefix("roundtrip"))

	_, ok, err := store.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok, "missing key must not be an error")

	require.NoError(t, store.Set(ctx, "authToken", "tok-1"))
	require.NoError(t, store.Set(ctx, "authToken", "tok-2"))

	val, ok, err := store.Get(ctx, "authToken")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-2", val)

	require.NoError(t, store.Delete(ctx, "authToken"))
	_, ok, err = store.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete(ctx, "authToken"))
}

func TestRedisKVStoreKeys(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := context.Background()
	store := NewKVStoreWithPrefix(client, testutil.UniqueKeyPrefix("keys"))

	require.NoError(t, store.Set(ctx, "cart-storage-1", "a"))
	require.NoError(t, store.Set(ctx, "cart-storage-2", "b"))
	require.NoError(t, store.Set(ctx, "auth-storage", "c"))

	keys, err := store.Keys(ctx, "cart-storage")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cart-storage-1", "cart-storage-2"}, keys)
}

func TestRedisKVStorePrefixIsolation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := context.Background()

	a := NewKVStoreWithPrefix(client, testutil.UniqueKeyPrefix("tenant-a"))
	b := NewKVStoreWithPrefix(client, testutil.UniqueKeyPrefix("tenant-b"))

	require.NoError(t, a.Set(ctx, "authToken", "a"))

	_, ok, err := b.Get(ctx, "authToken")
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisKVStoreRejectsEmptyKey(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	ctx := context.Background()
	store := NewKVStore(client)

	_, _, err := store.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, "", "v"))
	assert.NoError(t, store.Delete(ctx, ""))
}
