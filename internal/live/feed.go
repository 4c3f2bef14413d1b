package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kasuwa/server/internal/catalog"
)

// DefaultSendBuffer is the per-subscriber outbound queue depth used
// when the config does not override it.
const DefaultSendBuffer = 64

// Feed is the synchronization core. It sits between the ingest
// pipeline (writer) and the subscriber registry, and owns the publish
// guarantee: every successfully inserted product is broadcast to every
// subscriber live at or after the insert, exactly once per subscriber,
// and only after the product is durably committed.
type Feed struct {
	hub        *Hub
	store      catalog.Store
	sendBuffer int
}

// NewFeed creates a feed over the given catalog store. sendBuffer is
// the per-subscriber queue depth; values below 1 fall back to
// DefaultSendBuffer.
func NewFeed(store catalog.Store, sendBuffer int) *Feed {
	if sendBuffer < 1 {
		sendBuffer = DefaultSendBuffer
	}
	return &Feed{
		hub:        NewHub(),
		store:      store,
		sendBuffer: sendBuffer,
	}
}

// Publish broadcasts an already-persisted product to all live
// subscribers. Delivery is best-effort per subscriber: a slow or dead
// subscriber is dropped, the publish itself never blocks and never
// fails. Durability lives in the catalog store, not in the broadcast.
func (f *Feed) Publish(p catalog.Product) {
	f.hub.Broadcast(newProductMessage(p))
	slog.Debug("published product", "product_id", p.ID, "subscribers", f.hub.ClientCount())
}

// Subscribe attaches a websocket connection as a new subscriber. The
// client receives the current catalog snapshot as its first message,
// then every subsequent delta. The snapshot read and the registration
// happen atomically with respect to Publish, so no product can fall
// into the gap between them.
//
// The registration is released on every disconnect path: the read pump
// unregisters on connection teardown, normal or abnormal.
func (f *Feed) Subscribe(ctx context.Context, conn *websocket.Conn) error {
	id := fmt.Sprintf("%s-%d", conn.RemoteAddr(), time.Now().UnixNano())
	c := newClient(id, f.hub, conn, f.sendBuffer)

	if _, err := f.hub.RegisterWithSnapshot(ctx, c, f.store.List); err != nil {
		_ = conn.Close()
		return fmt.Errorf("register subscriber: %w", err)
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// SubscriberCount returns the number of live subscribers.
func (f *Feed) SubscriberCount() int {
	return f.hub.ClientCount()
}

// Close drops all subscribers and stops accepting new ones.
func (f *Feed) Close() {
	f.hub.Close()
}
