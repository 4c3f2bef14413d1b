// Package live fans catalog events out to connected subscribers in
// real time. A subscriber that connects at any moment receives a full
// snapshot of the catalog followed by exactly the deltas it has not
// already seen; the registration and the snapshot read happen under
// one critical section so a concurrent publish can never be missed or
// delivered twice.
package live

import "github.com/kasuwa/server/internal/catalog"

// Event types form a closed set; clients must reject anything else.
const (
	EventSnapshot   = "snapshot"
	EventNewProduct = "new-product"
)

// Message is a single frame on the subscriber channel. Exactly one of
// Product (new-product) or Products (snapshot) is populated.
type Message struct {
	Event    string            `json:"event"`
	Product  *catalog.Product  `json:"product,omitempty"`
	Products []catalog.Product `json:"products"`
}

// snapshotMessage wraps the full catalog contents for a newly
// connected subscriber. An empty catalog still yields a products
// array, never a missing field.
func snapshotMessage(products []catalog.Product) Message {
	if products == nil {
		products = []catalog.Product{}
	}
	return Message{Event: EventSnapshot, Products: products}
}

// newProductMessage wraps one freshly inserted product.
func newProductMessage(p catalog.Product) Message {
	return Message{Event: EventNewProduct, Product: &p}
}
