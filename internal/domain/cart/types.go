package cart

// Package cart contains domain-level types for the shopping cart: line
// items, persisted snapshots, and derived totals.

import "encoding/json"

// StorageKey is the logical key carts persist under. The scoped storage
// layer appends "-<identity>" to produce the physical key.
const StorageKey = "cart-storage"

// LineItem is a single cart line. A cart holds at most one line per product;
// quantity is always positive (removal, not a zero-quantity line, represents
// deletion).
type LineItem struct {
	ProductID int64   `json:"productId"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	// Meta carries display metadata (title, image, ...) opaque to cart logic.
	Meta json.RawMessage `json:"meta,omitempty"`
}

// Snapshot is the persisted point-in-time copy of a cart. The nested State
// wrapper matches the on-disk record shape:
// {"state":{"items":[...]},"timestamp":<epochMillis>,"userId":"<identity>"}.
type Snapshot struct {
	State SnapshotState `json:"state"`
	// Timestamp is the save time in epoch milliseconds; set at every write.
	Timestamp int64 `json:"timestamp"`
	// UserID is the identity that owns this snapshot.
	UserID string `json:"userId"`
}

// SnapshotState wraps the persisted item list.
type SnapshotState struct {
	Items []LineItem `json:"items"`
}

// ExpiredAt reports whether the snapshot is older than the retention window
// at the given instant, both in epoch milliseconds.
func (s Snapshot) ExpiredAt(nowMillis, retentionMillis int64) bool {
	return nowMillis-s.Timestamp > retentionMillis
}

// Totals are derived from the item list and never persisted.
type Totals struct {
	// Amount is the monetary total: sum of unitPrice × quantity.
	Amount float64 `json:"amount"`
	// Count is the total item count: sum of quantities.
	Count int `json:"count"`
}

// Total computes totals over a line item list.
func Total(items []LineItem) Totals {
	var t Totals
	for _, it := range items {
		t.Amount += it.UnitPrice * float64(it.Quantity)
		t.Count += it.Quantity
	}
	return t
}

// Quantity returns the quantity of the line for the given product, or zero
// when no such line exists.
func Quantity(items []LineItem, productID int64) int {
	for _, it := range items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Stats summarizes the persisted cart snapshots visible in a storage
// namespace. Derived for monitoring; never persisted.
type Stats struct {
	TotalCarts   int           `json:"totalCarts"`
	ActiveCarts  int           `json:"activeCarts"`
	ExpiredCarts int           `json:"expiredCarts"`
	TotalBytes   int           `json:"totalBytes"`
	Oldest       *SnapshotInfo `json:"oldest,omitempty"`
	Newest       *SnapshotInfo `json:"newest,omitempty"`
}

// SnapshotInfo identifies one persisted snapshot in a Stats report.
type SnapshotInfo struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
	UserID    string `json:"userId"`
}
