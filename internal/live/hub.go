package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/kasuwa/server/internal/catalog"
)

// ErrClosed is returned when registering against a hub that has shut
// down.
var ErrClosed = errors.New("hub is closed")

// Hub is the subscriber registry. It tracks live client handles and
// performs fan-out.
//
// All state transitions (register, unregister, broadcast) run under
// one mutex. That is the exclusion the snapshot guarantee rests on:
// RegisterWithSnapshot reads the catalog and registers the client
// inside the same critical section broadcasts take, so every product
// lands in either the client's snapshot or its delta stream, exactly
// one of the two.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// RegisterWithSnapshot reads the current catalog via read, queues the
// snapshot as the client's first message, and registers the client,
// atomically with respect to Broadcast. On read failure the client is
// not registered.
func (h *Hub) RegisterWithSnapshot(ctx context.Context, c *Client, read func(context.Context) ([]catalog.Product, error)) ([]catalog.Product, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	products, err := read(ctx)
	if err != nil {
		return nil, err
	}

	// A publish that raced this registration may broadcast a product
	// the snapshot already covers: the insert completes, the snapshot
	// read sees the row, and only then does the writer's publish run.
	// Remembering the exact id set of the snapshot and suppressing
	// matching deltas makes delivery exactly-once. Membership, not a
	// high-water mark: under concurrent writers the store can expose a
	// higher id while a lower one is still uncommitted, and that lower
	// id's delta must still go through.
	c.snapshotIDs = make(map[int64]struct{}, len(products))
	for _, p := range products {
		c.snapshotIDs[p.ID] = struct{}{}
	}

	// The send buffer is empty here, so the snapshot is always the
	// first frame the client sees.
	c.send <- snapshotMessage(products)
	h.clients[c] = struct{}{}

	slog.Info("subscriber registered",
		"client_id", c.id,
		"snapshot_size", len(products),
		"subscribers", len(h.clients),
	)
	return products, nil
}

// Register adds a client without a snapshot. Used when the caller has
// already captured its own snapshot before connecting.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.clients[c] = struct{}{}
}

// Unregister removes a client and closes its send channel. Idempotent:
// unregistering twice, or a client that was never registered, is a
// no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// Broadcast delivers msg to every registered client. Delivery per
// client is non-blocking: a client whose send buffer is full is
// treated as disconnected and dropped rather than stalling the
// broadcast. Broadcast never fails and never waits on a subscriber.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if msg.Event == EventNewProduct {
			if _, seen := c.snapshotIDs[msg.Product.ID]; seen {
				// Already delivered in this client's snapshot. Each id
				// is published once, so the entry is spent.
				delete(c.snapshotIDs, msg.Product.ID)
				continue
			}
		}
		select {
		case c.send <- msg:
		default:
			slog.Warn("subscriber send buffer full, dropping",
				"client_id", c.id,
				"event", msg.Event,
			)
			h.dropLocked(c)
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every client and rejects further registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// dropLocked removes one client. Caller holds h.mu.
func (h *Hub) dropLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	slog.Info("subscriber unregistered", "client_id", c.id, "subscribers", len(h.clients))
}
