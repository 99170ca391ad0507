// README: Websocket hub pushing ride-status and notification events to connected users.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rankgo/internal/types"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	userID types.ID
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks one send queue per connection; a user may be connected from
// several devices at once.
type Hub struct {
	mu      sync.RWMutex
	clients map[types.ID]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[types.ID]map[*client]struct{})}
}

// ServeWS upgrades the request and registers the connection for userID.
// Authentication happened upstream in the HTTP middleware.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID types.ID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{userID: userID, conn: conn, send: make(chan []byte, 16)}
	h.register(c)
	go c.writePump(func() { h.unregister(c) })
	go c.readPump(func() { h.unregister(c) })
}

// SendToUser queues v as JSON for every live connection of the user. Slow
// connections are dropped rather than blocking the caller.
func (h *Hub) SendToUser(userID types.ID, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- body:
		default:
		}
	}
}

// Run blocks until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for c := range conns {
			close(c.send)
		}
	}
	h.clients = make(map[types.ID]map[*client]struct{})
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*client]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[c.userID]; ok {
		if _, live := conns[c]; live {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	_ = c.conn.Close()
}

func (c *client) readPump(done func()) {
	defer done()
	c.conn.SetReadLimit(8192)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(done func()) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		done()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
