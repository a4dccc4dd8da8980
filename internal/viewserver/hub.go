package viewserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wgdash/internal/dashboard"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// Message is pushed to every WebSocket client after each render.
type Message struct {
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      dashboard.View `json:"data"`
}

type client struct {
	conn    *websocket.Conn
	filters dashboard.Filters
	send    chan Message
}

// Hub fans views out to connected clients, each with its own filters.
type Hub struct {
	view func(dashboard.Filters) dashboard.View
	log  zerolog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub that builds views with view.
func NewHub(view func(dashboard.Filters) dashboard.View, log zerolog.Logger) *Hub {
	return &Hub{view: view, log: log, clients: make(map[*client]struct{})}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends a fresh view to every client. Slow clients miss updates
// rather than block the poller.
func (h *Hub) Publish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	views := make(map[dashboard.Filters]dashboard.View)
	now := time.Now().UTC()
	for c := range h.clients {
		v, ok := views[c.filters]
		if !ok {
			v = h.view(c.filters)
			views[c.filters] = v
		}
		select {
		case c.send <- Message{Type: "view", Timestamp: now, Data: v}:
		default:
		}
	}
}

// serve registers conn and pumps messages until it closes.
func (h *Hub) serve(conn *websocket.Conn, f dashboard.Filters) {
	c := &client{conn: conn, filters: f, send: make(chan Message, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("ws client connected")

	c.send <- Message{Type: "view", Timestamp: time.Now().UTC(), Data: h.view(f)}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("ws client disconnected")
}

// readPump discards client input and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("ws read failed")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
