package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwind/storefront/config"
	"github.com/northwind/storefront/internal/adapters/memory"
	catalogstub "github.com/northwind/storefront/internal/mocks/catalog"
	"github.com/northwind/storefront/internal/util"
)

// testEnv wires the full router over in-memory storage and a stubbed remote
// store, with a cookie-carrying client so consecutive requests share one
// browser namespace.
type testEnv struct {
	server  *httptest.Server
	client  *http.Client
	kv      *memory.KVStore
	catalog *catalogstub.StubCatalog
	clock   *util.FixedTimeProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := memory.NewKVStore()
	stub := catalogstub.NewStubCatalog()
	clock := util.NewFixedTimeProvider(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	router := NewRouter(RouterServices{
		KV:      kv,
		Catalog: stub,
		HTTP: config.HTTPConfig{
			CookieName:   "sf_session",
			CookieSecure: false,
		},
		Cart: config.CartConfig{
			Retention:    720 * time.Hour,
			MaxSnapshots: 100,
		},
		Time: clock,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server:  server,
		client:  &http.Client{Jar: jar},
		kv:      kv,
		catalog: stub,
		clock:   clock,
	}
}

// do issues a request with an optional JSON body and decodes the JSON
// response into dst when dst is non-nil.
func (e *testEnv) do(t *testing.T, method, path string, body, dst any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionCookieMintedOnce(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Len(t, resp.Cookies(), 1)
	minted := resp.Cookies()[0]
	assert.Equal(t, "sf_session", minted.Name)
	assert.True(t, minted.HttpOnly)

	// The second request presents the cookie; no new one is minted.
	resp = env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Empty(t, resp.Cookies())
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)

	var view struct {
		Items []struct {
			ProductID int64   `json:"productId"`
			Price     float64 `json:"price"`
			Quantity  int     `json:"quantity"`
		} `json:"items"`
		Totals struct {
			Amount float64 `json:"amount"`
			Count  int     `json:"count"`
		} `json:"totals"`
	}

	resp := env.do(t, http.MethodGet, "/api/cart", nil, &view)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, view.Items)

	add := map[string]any{
		"product":  map[string]any{"id": 1, "title": "Backpack", "price": 109.95},
		"quantity": 2,
	}
	resp = env.do(t, http.MethodPost, "/api/cart/items", add, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.InDelta(t, 219.90, view.Totals.Amount, 0.0001)

	// Adding again accumulates.
	resp = env.do(t, http.MethodPost, "/api/cart/items", add, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)

	resp = env.do(t, http.MethodPatch, "/api/cart/items/1", map[string]any{"quantity": 1}, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, view.Items[0].Quantity)

	resp = env.do(t, http.MethodDelete, "/api/cart/items/1", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, view.Items)

	env.do(t, http.MethodPost, "/api/cart/items", add, nil)
	resp = env.do(t, http.MethodDelete, "/api/cart", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/cart", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, view.Items)
}

func TestCartSurvivesAcrossRequests(t *testing.T) {
	env := newTestEnv(t)

	add := map[string]any{
		"product":  map[string]any{"id": 2, "title": "T-Shirt", "price": 22.30},
		"quantity": 3,
	}
	env.do(t, http.MethodPost, "/api/cart/items", add, nil)

	// Each request rebuilds the service stack; the cart comes back from
	// durable storage.
	var view struct {
		Totals struct {
			Count int `json:"count"`
		} `json:"totals"`
	}
	resp := env.do(t, http.MethodGet, "/api/cart", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, view.Totals.Count)
}

func TestCartRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{
		"product":  map[string]any{"title": "no id"},
		"quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/cart/items/abc", map[string]any{"quantity": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/cart/items/-4", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTwoBrowsersDoNotShareCarts(t *testing.T) {
	env := newTestEnv(t)

	add := map[string]any{
		"product":  map[string]any{"id": 1, "title": "Backpack", "price": 109.95},
		"quantity": 1,
	}
	env.do(t, http.MethodPost, "/api/cart/items", add, nil)

	// A second browser: same server, fresh cookie jar.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &testEnv{server: env.server, client: &http.Client{Jar: jar}}

	var view struct {
		Items []json.RawMessage `json:"items"`
	}
	resp := other.do(t, http.MethodGet, "/api/cart", nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, view.Items)
}

func TestCartStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	add := map[string]any{
		"product":  map[string]any{"id": 1, "title": "Backpack", "price": 109.95},
		"quantity": 1,
	}
	env.do(t, http.MethodPost, "/api/cart/items", add, nil)

	var stats struct {
		TotalCarts  int `json:"totalCarts"`
		ActiveCarts int `json:"activeCarts"`
	}
	resp := env.do(t, http.MethodGet, "/api/cart/stats", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.TotalCarts)
	assert.Equal(t, 1, stats.ActiveCarts)
}

func TestProductsPassThrough(t *testing.T) {
	env := newTestEnv(t)

	var products []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	resp := env.do(t, http.MethodGet, "/api/products", nil, &products)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)

	var product struct {
		ID int64 `json:"id"`
	}
	resp = env.do(t, http.MethodGet, "/api/products/2", nil, &product)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), product.ID)

	resp = env.do(t, http.MethodGet, "/api/products/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
