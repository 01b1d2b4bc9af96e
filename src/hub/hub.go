package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the wire envelope for lifecycle events pushed to subscribers.
// Payload may be any JSON-serializable value.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Client wraps one subscriber connection for the duration of its life in the
// hub. A reconnecting peer gets a fresh Client; identities are never reused.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *Client {
	c := &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go c.writePump()
	return c
}

// writePump serializes all writes to the underlying connection. It exits when
// the send channel is closed or a write fails, closing the connection either way.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *Client) close() {
	close(c.send)
}

// Hub maintains the live set of real-time subscribers and fans broadcast
// messages out to all of them. The live set is the only shared mutable state;
// callers never touch member connections directly.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates an empty hub. One hub is constructed at process start and
// shared by the websocket controller and the event emitter.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Register wraps an accepted websocket connection and adds it to the live set.
// Safe to call concurrently with Broadcast and Unregister.
func (h *Hub) Register(conn *websocket.Conn) *Client {
	c := newClient(conn)

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	slog.Info("Subscriber connected", "subscribers", h.ClientCount())
	return c
}

// Unregister removes a client from the live set and releases its connection.
// Removing an already-absent client is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// SendDirect delivers one message to one specific subscriber (ack echoes).
// Delivery failure is contained: the client is evicted, nothing is returned.
func (h *Hub) SendDirect(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal direct message", "error", err)
		return
	}

	// The channel handoff happens under the read lock so it cannot race with
	// Unregister closing the channel; the network write itself runs in the
	// client's write pump, outside any lock.
	h.mu.RLock()
	failed := false
	if h.clients[c] {
		select {
		case c.send <- data:
		default:
			failed = true
		}
	}
	h.mu.RUnlock()

	if failed {
		slog.Warn("Subscriber not accepting writes, evicting")
		h.Unregister(c)
	}
}

// Broadcast delivers v to every subscriber currently in the live set. The
// non-blocking channel handoffs run under the read lock; the network writes
// run in each subscriber's write pump, so a slow peer never blocks new
// registrations. A failed send evicts that subscriber and never aborts
// delivery to the rest, nor surfaces to the caller.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "error", err)
		return
	}

	h.mu.RLock()
	var failed []*Client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range failed {
		// Full buffer is a strong signal the peer is gone
		slog.Warn("Subscriber too slow, evicting")
		h.Unregister(c)
	}
}

// ClientCount returns the current size of the live set.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every subscriber. Called once during process shutdown.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}
