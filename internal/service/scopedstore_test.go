package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/northwind/storefront/internal/adapters/memory"
	"github.com/northwind/storefront/internal/domain/auth"
	"github.com/northwind/storefront/internal/domain/cart"
	"github.com/northwind/storefront/internal/mocks"
	"github.com/northwind/storefront/internal/testutil"
)

func newScoped(kv *memory.KVStore) *ScopedStore {
	return NewScopedStore(kv, NewIdentityResolver(kv, nil))
}

func TestScopedKeyComposition(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	scoped := newScoped(kv)

	assert.Equal(t, "cart-storage-anonymous", scoped.Key(ctx, cart.StorageKey))

	rec := testutil.NewAuthRecord(auth.User{ID: 42}).JSON()
	require.NoError(t, kv.Set(ctx, KeyAuthRecord, rec))

	assert.Equal(t, "cart-storage-42", scoped.Key(ctx, cart.StorageKey))
}

func TestScopedRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	scoped := newScoped(kv)

	require.NoError(t, scoped.Set(ctx, cart.StorageKey, "v1"))

	got, ok, err := scoped.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", got)

	// Physical key carries the identity suffix.
	raw, ok, err := kv.Get(ctx, "cart-storage-anonymous")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", raw)

	require.NoError(t, scoped.Remove(ctx, cart.StorageKey))
	_, ok, err = scoped.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScopedResolvesFreshPerCall(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	scoped := newScoped(kv)

	require.NoError(t, scoped.Set(ctx, cart.StorageKey, "anon-cart"))

	// A login lands between two operations: the same logical key now maps to
	// a different physical bucket.
	rec := testutil.NewAuthRecord(auth.User{ID: 7}).JSON()
	require.NoError(t, kv.Set(ctx, KeyAuthRecord, rec))

	_, ok, err := scoped.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "authenticated bucket must not see the anonymous value")

	require.NoError(t, scoped.Set(ctx, cart.StorageKey, "user-cart"))

	// Logout flips it back.
	require.NoError(t, kv.Delete(ctx, KeyAuthRecord))
	got, ok, err := scoped.Get(ctx, cart.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "anon-cart", got)
}

func TestScopedGetPropagatesStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mocks.NewMockKeyValueStore(ctrl)
	// Identity resolution degrades to anonymous on the record read failure;
	// the payload read error is the one surfaced.
	kv.EXPECT().Get(gomock.Any(), KeyAuthRecord).Return("", false, nil)
	kv.EXPECT().Get(gomock.Any(), KeyRawToken).Return("", false, nil)
	kv.EXPECT().Get(gomock.Any(), "cart-storage-anonymous").Return("", false, errors.New("io timeout"))

	scoped := NewScopedStore(kv, NewIdentityResolver(kv, nil))
	_, _, err := scoped.Get(context.Background(), cart.StorageKey)
	require.Error(t, err)
}
