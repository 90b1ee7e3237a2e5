package httpx

// Package httpx exposes the storefront's JSON API: auth, cart, and product
// catalog pass-through. Each request operates on the calling browser's
// storage namespace, identified by the session cookie.

import (
	"log/slog"
	"net/http"

	"github.com/northwind/storefront/config"
	"github.com/northwind/storefront/internal/ports"
	"github.com/northwind/storefront/internal/service"
	"github.com/northwind/storefront/internal/util"
)

// RouterServices holds all the dependencies needed by the HTTP router.
type RouterServices struct {
	KV      ports.KeyValueStore
	Catalog ports.CatalogClient
	HTTP    config.HTTPConfig
	Cart    config.CartConfig
	// Time is the clock used for snapshot timestamps; defaults to real time.
	Time   util.TimeProvider
	Logger *slog.Logger
}

func (s *RouterServices) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// scope is the per-request service stack bound to one browser namespace.
// Stores are rebuilt per request; durable state lives in the KV store, so a
// rebuilt cart simply rehydrates on first use.
type scope struct {
	kv      ports.KeyValueStore
	session *service.SessionStore
	cart    *service.CartStore
}

func (s *RouterServices) scope(r *http.Request) *scope {
	ns, _ := NamespaceFromContext(r.Context())
	kv := service.Namespaced(s.KV, ns)

	resolver := service.NewIdentityResolver(kv, s.Logger)
	scoped := service.NewScopedStore(kv, resolver)

	return &scope{
		kv: kv,
		session: service.NewSessionStore(service.SessionStoreOptions{
			KV:      kv,
			Catalog: s.Catalog,
			Logger:  s.Logger,
		}),
		cart: service.NewCartStore(service.CartStoreOptions{
			Scoped:       scoped,
			KV:           kv,
			Time:         s.Time,
			Logger:       s.Logger,
			Retention:    s.Cart.Retention,
			MaxSnapshots: s.Cart.MaxSnapshots,
		}),
	}
}

// storedToken reads the raw durable token for bearer pass-through on
// catalog calls. Absent or unreadable tokens yield empty.
func (s *scope) storedToken(r *http.Request) string {
	token, ok, err := s.kv.Get(r.Context(), service.KeyRawToken)
	if err != nil || !ok {
		return ""
	}
	return token
}

// NewRouter creates and configures a new HTTP router with browser session
// middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Services: &services}
	cartHandlers := &CartHandlers{Services: &services}
	productHandlers := &ProductHandlers{Services: &services}

	registerAuthRoutes(mux, authHandlers)
	registerCartRoutes(mux, cartHandlers)
	registerProductRoutes(mux, productHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return BrowserSession(services.HTTP)(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /api/auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /api/auth/register", http.HandlerFunc(h.Register))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/session", http.HandlerFunc(h.Session))
}

func registerCartRoutes(mux *http.ServeMux, h *CartHandlers) {
	mux.Handle("GET /api/cart", http.HandlerFunc(h.Get))
	mux.Handle("DELETE /api/cart", http.HandlerFunc(h.Clear))
	mux.Handle("GET /api/cart/stats", http.HandlerFunc(h.Stats))
	mux.Handle("POST /api/cart/items", http.HandlerFunc(h.AddItem))
	mux.Handle("PATCH /api/cart/items/{id}", http.HandlerFunc(h.UpdateQuantity))
	mux.Handle("DELETE /api/cart/items/{id}", http.HandlerFunc(h.RemoveItem))
}

func registerProductRoutes(mux *http.ServeMux, h *ProductHandlers) {
	mux.Handle("GET /api/products", http.HandlerFunc(h.List))
	mux.Handle("GET /api/products/categories", http.HandlerFunc(h.Categories))
	mux.Handle("GET /api/products/category/{category}", http.HandlerFunc(h.ByCategory))
	mux.Handle("GET /api/products/{id}", http.HandlerFunc(h.Get))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
