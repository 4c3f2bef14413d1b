package live

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Subscribers have nothing
	// to say beyond pings; catalog writes go through HTTP ingest.
	maxMessageSize = 512
)

// Client is one live subscriber connection. Outbound messages are
// queued on send and written by writePump; readPump exists only to
// detect disconnects and keep the read deadline fresh.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// snapshotIDs holds the product ids covered by this client's
	// initial snapshot; deltas for those ids are suppressed. Written
	// under the hub mutex before registration, read and pruned under
	// it during broadcast.
	snapshotIDs map[int64]struct{}
}

// newClient creates a client with a buffered send queue.
func newClient(id string, hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

// readPump consumes inbound frames until the connection drops, then
// unregisters the client. Inbound frames are discarded: the subscriber
// channel carries no client-to-server catalog operations.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				slog.Warn("subscriber read error", "client_id", c.id, "error", err)
			}
			return
		}
		slog.Debug("ignoring inbound subscriber message", "client_id", c.id)
	}
}

// writePump drains the send queue to the connection and keeps the
// peer alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub dropped this client.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				slog.Warn("subscriber write failed", "client_id", c.id, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
