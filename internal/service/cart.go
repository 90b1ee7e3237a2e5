package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/northwind/storefront/internal/domain/cart"
	"github.com/northwind/storefront/internal/domain/catalog"
	"github.com/northwind/storefront/internal/ports"
	"github.com/northwind/storefront/internal/util"
)

const (
	// DefaultRetention is how long a persisted cart snapshot stays valid.
	DefaultRetention = 30 * 24 * time.Hour
	// DefaultMaxSnapshots caps the cart snapshots kept per namespace before
	// the oldest are evicted.
	DefaultMaxSnapshots = 100
	// cleanupEvery throttles snapshot housekeeping to the first write and
	// every tenth write after; the cap is a soft bound.
	cleanupEvery = 10
)

// CartStore is the in-memory authoritative cart for one browser session. It
// persists every mutation through the identity-scoped store and rehydrates
// from storage when the active identity changes.
//
// Storage failures are recovered locally: mutations log and carry on with
// the in-memory state, and unreadable persisted data is treated as empty.
// Cart operations never surface storage errors to their callers.
type CartStore struct {
	mu     sync.Mutex
	scoped *ScopedStore
	kv     ports.KeyValueStore
	clock  util.TimeProvider
	logger *slog.Logger

	retention    time.Duration
	maxSnapshots int

	items           []cart.LineItem
	trackedIdentity string
	tracked         bool
	persists        uint64
}

// CartStoreOptions groups dependencies for CartStore.
type CartStoreOptions struct {
	// Scoped is the identity-scoped view used for the cart snapshot itself.
	Scoped *ScopedStore
	// KV is the same storage namespace unscoped, used for the legacy
	// migration key and snapshot housekeeping.
	KV     ports.KeyValueStore
	Time   util.TimeProvider
	Logger *slog.Logger
	// Retention is the snapshot expiry window; DefaultRetention when zero.
	Retention time.Duration
	// MaxSnapshots caps snapshots per namespace; DefaultMaxSnapshots when zero.
	MaxSnapshots int
}

// NewCartStore constructs a new CartStore.
func NewCartStore(opts CartStoreOptions) *CartStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Time
	if clock == nil {
		clock = &util.RealTimeProvider{}
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	maxSnapshots := opts.MaxSnapshots
	if maxSnapshots <= 0 {
		maxSnapshots = DefaultMaxSnapshots
	}

	return &CartStore{
		scoped:       opts.Scoped,
		kv:           opts.KV,
		clock:        clock,
		logger:       logger,
		retention:    retention,
		maxSnapshots: maxSnapshots,
	}
}

// lineMeta is the display metadata captured alongside a cart line.
type lineMeta struct {
	Title    string `json:"title,omitempty"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
}

// AddItem adds quantity units of the product. An existing line for the same
// product accumulates quantity; otherwise a new line is appended, preserving
// insertion order. Quantities below one are treated as one.
func (s *CartStore) AddItem(ctx context.Context, product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity
			s.persistLocked(ctx)
			return
		}
	}

	line := cart.LineItem{
		ProductID: product.ID,
		UnitPrice: product.Price,
		Quantity:  quantity,
	}
	if meta, err := json.Marshal(lineMeta{Title: product.Title, Image: product.Image, Category: product.Category}); err == nil {
		line.Meta = meta
	}
	s.items = append(s.items, line)
	s.persistLocked(ctx)
}

// RemoveItem deletes the line for productID. Removing an absent line is a
// silent no-op; the (unchanged) list is still persisted.
func (s *CartStore) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID)
}

func (s *CartStore) removeLocked(ctx context.Context, productID int64) {
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	s.persistLocked(ctx)
}

// UpdateQuantity replaces the quantity of the line for productID. A quantity
// of zero or less removes the line entirely.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID)
		return
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.persistLocked(ctx)
}

// Clear empties the cart and persists the empty snapshot.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked(ctx)
}

// RehydrateForActiveUser reloads the in-memory cart when the active identity
// differs from the one the cart was last loaded for. With an unchanged
// identity the call is a no-op, so it is safe to invoke before every cart
// operation.
func (s *CartStore) RehydrateForActiveUser(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity := s.scoped.Identity(ctx)
	if s.tracked && identity == s.trackedIdentity {
		return
	}

	s.items = s.loadLocked(ctx)
	s.trackedIdentity = identity
	s.tracked = true
}

// Totals returns the derived monetary total and item count. Never persisted.
func (s *CartStore) Totals() cart.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Total(s.items)
}

// ItemQuantity returns the quantity of the line for productID, or zero.
func (s *CartStore) ItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Quantity(s.items, productID)
}

// Items returns a copy of the current line items in insertion order.
func (s *CartStore) Items() []cart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]cart.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// TrackedIdentity reports the identity the in-memory cart was last loaded
// for, and whether any load has happened yet.
func (s *CartStore) TrackedIdentity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trackedIdentity, s.tracked
}

// PurgeStored deletes the active identity's persisted snapshot and the
// legacy unscoped key, then resets the in-memory cart. Called on logout,
// before the session record is cleared, so the scoped key still names the
// outgoing user.
func (s *CartStore) PurgeStored(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scoped.Remove(ctx, cart.StorageKey); err != nil {
		s.logger.Warn("delete cart snapshot failed", "error", err)
	}
	if err := s.kv.Delete(ctx, cart.StorageKey); err != nil {
		s.logger.Warn("delete legacy cart key failed", "error", err)
	}

	s.items = nil
	s.trackedIdentity = ""
	s.tracked = false
}

// persistLocked writes the full item list as a snapshot under the scoped
// cart key, tagged with the write time and owning identity. An empty cart is
// written as an empty array, never null: a parsed scoped snapshot is
// authoritative on load, and a cleared cart must not fall through to the
// legacy migration.
func (s *CartStore) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []cart.LineItem{}
	}
	snap := cart.Snapshot{
		State:     cart.SnapshotState{Items: items},
		Timestamp: s.clock.Now().UnixMilli(),
		UserID:    s.scoped.Identity(ctx),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("marshal cart snapshot failed", "error", err)
		return
	}
	if err := s.scoped.Set(ctx, cart.StorageKey, string(data)); err != nil {
		s.logger.Warn("persist cart snapshot failed", "error", err)
		return
	}

	// Scanning the namespace on every write is wasteful; housekeeping
	// runs opportunistically instead.
	s.persists++
	if s.persists%cleanupEvery == 1 {
		s.cleanupLocked(ctx)
	}
}

// loadLocked reads the active identity's snapshot, applying expiry eviction
// and the one-time legacy migration. Failures yield an empty cart.
func (s *CartStore) loadLocked(ctx context.Context) []cart.LineItem {
	raw, ok, err := s.scoped.Get(ctx, cart.StorageKey)
	if err != nil {
		s.logger.Warn("load cart snapshot failed", "error", err)
		return nil
	}
	if ok {
		var snap cart.Snapshot
		if err := json.Unmarshal([]byte(raw), &snap); err != nil {
			// Unreadable snapshots are evicted like expired ones.
			s.logger.Warn("unparseable cart snapshot; discarding", "error", err)
			s.evictLocked(ctx)
			return nil
		}
		if snap.ExpiredAt(s.clock.Now().UnixMilli(), s.retention.Milliseconds()) {
			s.evictLocked(ctx)
			return nil
		}
		// A parsed, unexpired snapshot is authoritative even when empty;
		// the legacy migration only runs when no scoped record exists yet.
		return snap.State.Items
	}

	return s.migrateLegacyLocked(ctx)
}

func (s *CartStore) evictLocked(ctx context.Context) {
	if err := s.scoped.Remove(ctx, cart.StorageKey); err != nil {
		s.logger.Warn("evict cart snapshot failed", "error", err)
	}
}

// migrateLegacyLocked copies a non-empty snapshot from the legacy unscoped
// key into the active identity's scoped key and deletes the legacy record.
// Best effort: any failure leaves the cart empty.
func (s *CartStore) migrateLegacyLocked(ctx context.Context) []cart.LineItem {
	raw, ok, err := s.kv.Get(ctx, cart.StorageKey)
	if err != nil || !ok {
		return nil
	}

	var snap cart.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Warn("unparseable legacy cart record; skipping migration", "error", err)
		return nil
	}
	if len(snap.State.Items) == 0 {
		return nil
	}

	s.logger.Info("migrating legacy cart record", "items", len(snap.State.Items))
	prior := s.items
	s.items = snap.State.Items
	s.persistLocked(ctx)
	s.items = prior

	if err := s.kv.Delete(ctx, cart.StorageKey); err != nil {
		s.logger.Warn("delete legacy cart key failed", "error", err)
	}
	return snap.State.Items
}

// cleanupLocked evicts the oldest snapshots in the namespace once their
// count exceeds the configured cap.
func (s *CartStore) cleanupLocked(ctx context.Context) {
	keys, err := s.kv.Keys(ctx, cart.StorageKey)
	if err != nil {
		s.logger.Warn("list cart snapshots failed", "error", err)
		return
	}
	if len(keys) <= s.maxSnapshots {
		return
	}

	type aged struct {
		key       string
		timestamp int64
	}
	entries := make([]aged, 0, len(keys))
	for _, key := range keys {
		entry := aged{key: key}
		if raw, ok, getErr := s.kv.Get(ctx, key); getErr == nil && ok {
			var snap cart.Snapshot
			if jsonErr := json.Unmarshal([]byte(raw), &snap); jsonErr == nil {
				entry.timestamp = snap.Timestamp
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].timestamp < entries[j].timestamp })

	excess := len(entries) - s.maxSnapshots
	for _, entry := range entries[:excess] {
		if err := s.kv.Delete(ctx, entry.key); err != nil {
			s.logger.Warn("evict old cart snapshot failed", "key", entry.key, "error", err)
		}
	}
}

// Stats summarizes the persisted cart snapshots in this namespace.
// Best effort: unreadable records count as expired.
func (s *CartStore) Stats(ctx context.Context) cart.Stats {
	keys, err := s.kv.Keys(ctx, cart.StorageKey)
	if err != nil {
		s.logger.Warn("list cart snapshots failed", "error", err)
		return cart.Stats{}
	}

	now := s.clock.Now().UnixMilli()
	stats := cart.Stats{TotalCarts: len(keys)}
	for _, key := range keys {
		raw, ok, getErr := s.kv.Get(ctx, key)
		if getErr != nil || !ok {
			stats.ExpiredCarts++
			continue
		}
		stats.TotalBytes += len(raw)

		var snap cart.Snapshot
		if jsonErr := json.Unmarshal([]byte(raw), &snap); jsonErr != nil {
			stats.ExpiredCarts++
			continue
		}
		if snap.ExpiredAt(now, s.retention.Milliseconds()) {
			stats.ExpiredCarts++
		} else {
			stats.ActiveCarts++
		}

		info := cart.SnapshotInfo{Key: key, Timestamp: snap.Timestamp, UserID: snap.UserID}
		if stats.Oldest == nil || info.Timestamp < stats.Oldest.Timestamp {
			oldest := info
			stats.Oldest = &oldest
		}
		if stats.Newest == nil || info.Timestamp > stats.Newest.Timestamp {
			newest := info
			stats.Newest = &newest
		}
	}
	return stats
}
