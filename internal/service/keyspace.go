package service

import (
	"context"
	"strings"

	"github.com/northwind/storefront/internal/ports"
)

// Namespaced returns a view of kv in which every key is prefixed with
// ns + ":". Each browser session gets its own namespace so the shared
// durable store never mixes state across browsers. An empty ns returns kv
// unchanged.
func Namespaced(kv ports.KeyValueStore, ns string) ports.KeyValueStore {
	if ns == "" {
		return kv
	}
	return &namespacedKV{inner: kv, prefix: ns + ":"}
}

type namespacedKV struct {
	inner  ports.KeyValueStore
	prefix string
}

func (n *namespacedKV) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespacedKV) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespacedKV) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

func (n *namespacedKV) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.inner.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	stripped := make([]string, 0, len(keys))
	for _, k := range keys {
		stripped = append(stripped, strings.TrimPrefix(k, n.prefix))
	}
	return stripped, nil
}
