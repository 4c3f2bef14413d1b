// Package catalog provides the durable product catalog: the single
// source of truth for every listing submitted to the marketplace.
//
// The catalog is append-only. Products are inserted exactly once by the
// ingest pipeline and are never updated or deleted afterwards. IDs are
// assigned by the store on insert, are unique, and are never reused.
package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.Get when no product has the given ID.
var ErrNotFound = errors.New("product not found")

// Product is a canonical catalog record as persisted by a Store.
//
// ImageRef is nil when the listing was submitted without an image.
// CreatedAt is stamped by the store at insert time and is the sole
// ordering key for listings and snapshots (newest first).
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageRef    *string   `json:"imageRef"`
	Contact     string    `json:"contact"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProduct is the insert input for a product. ID and CreatedAt are
// assigned by the store.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	ImageRef    *string
	Contact     string
}

// Store is the durable catalog interface.
//
// Implementations must serialize concurrent inserts so that ID
// assignment and CreatedAt stamping are linearizable: no two inserts
// observe the same ID, and no partially written row is ever visible to
// List or Get.
type Store interface {
	// Insert persists p atomically and returns the canonical record
	// with its assigned ID and CreatedAt.
	Insert(ctx context.Context, p NewProduct) (Product, error)

	// List returns the full current snapshot ordered by CreatedAt
	// descending (newest first), ID descending as tiebreak.
	List(ctx context.Context) ([]Product, error)

	// Get returns the product with the given ID, or ErrNotFound.
	Get(ctx context.Context, id int64) (Product, error)
}
