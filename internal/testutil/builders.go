package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/northwind/storefront/internal/domain/auth"
	"github.com/northwind/storefront/internal/domain/cart"
	"github.com/northwind/storefront/internal/domain/catalog"
)

// ProductBuilder provides a fluent interface for building catalog.Product
// values for testing.
type ProductBuilder struct {
	p catalog.Product
}

// NewProduct creates a new ProductBuilder with sensible defaults.
func NewProduct() *ProductBuilder {
	return &ProductBuilder{
		p: catalog.Product{
			ID:       1,
			Title:    "Fjallraven Backpack",
			Price:    109.95,
			Category: "men's clothing",
			Image:    "https://example.com/backpack.jpg",
		},
	}
}

// WithID sets the product id and derives a unique title.
func (b *ProductBuilder) WithID(id int64) *ProductBuilder {
	b.p.ID = id
	b.p.Title = fmt.Sprintf("Product %d", id)
	return b
}

// WithTitle sets the product title.
func (b *ProductBuilder) WithTitle(title string) *ProductBuilder {
	b.p.Title = title
	return b
}

// WithPrice sets the unit price.
func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.p.Price = price
	return b
}

// WithCategory sets the category.
func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.p.Category = category
	return b
}

// Build returns the constructed Product.
func (b *ProductBuilder) Build() catalog.Product {
	return b.p
}

// SnapshotBuilder provides a fluent interface for building persisted cart
// snapshots for testing.
type SnapshotBuilder struct {
	snap cart.Snapshot
}

// NewSnapshot creates a new SnapshotBuilder owned by the given identity.
func NewSnapshot(userID string) *SnapshotBuilder {
	return &SnapshotBuilder{
		snap: cart.Snapshot{
			State:  cart.SnapshotState{Items: []cart.LineItem{}},
			UserID: userID,
		},
	}
}

// WithItem appends a line item.
func (b *SnapshotBuilder) WithItem(productID int64, price float64, quantity int) *SnapshotBuilder {
	b.snap.State.Items = append(b.snap.State.Items, cart.LineItem{
		ProductID: productID,
		UnitPrice: price,
		Quantity:  quantity,
	})
	return b
}

// WithTimestamp sets the save time in epoch milliseconds.
func (b *SnapshotBuilder) WithTimestamp(millis int64) *SnapshotBuilder {
	b.snap.Timestamp = millis
	return b
}

// Build returns the constructed Snapshot.
func (b *SnapshotBuilder) Build() cart.Snapshot {
	return b.snap
}

// JSON returns the snapshot serialized the way the cart store persists it.
func (b *SnapshotBuilder) JSON() string {
	raw, err := json.Marshal(b.snap)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// RecordBuilder provides a fluent interface for building persisted auth
// records for testing.
type RecordBuilder struct {
	rec auth.Record
}

// NewAuthRecord creates a RecordBuilder for an authenticated user.
func NewAuthRecord(user auth.User) *RecordBuilder {
	return &RecordBuilder{
		rec: auth.Record{
			User:            &user,
			IsAuthenticated: true,
			Initialized:     true,
		},
	}
}

// NewAnonymousRecord creates a RecordBuilder for an initialized anonymous
// visitor.
func NewAnonymousRecord() *RecordBuilder {
	return &RecordBuilder{
		rec: auth.Record{Initialized: true},
	}
}

// WithToken sets the stored raw token.
func (b *RecordBuilder) WithToken(token string) *RecordBuilder {
	b.rec.Token = token
	return b
}

// Uninitialized marks the record as written before initialization completed.
func (b *RecordBuilder) Uninitialized() *RecordBuilder {
	b.rec.Initialized = false
	return b
}

// Build returns the constructed Record.
func (b *RecordBuilder) Build() auth.Record {
	return b.rec
}

// JSON returns the record serialized the way the session store persists it.
func (b *RecordBuilder) JSON() string {
	raw, err := json.Marshal(b.rec)
	if err != nil {
		panic(err)
	}
	return string(raw)
}
