package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chundiet-web/internal/notify"
	"chundiet-web/internal/shared/telemetry"
	"chundiet-web/internal/view"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 5 * time.Second
)

// Message is what a browser receives for every notification event. HTML is
// the rendered toast for pushed events and empty for dismissals.
type Message struct {
	Type         notify.EventType    `json:"type"`
	Notification notify.Notification `json:"notification"`
	HTML         string              `json:"html,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans notification events out to every connected browser.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Follow subscribes the hub to q. The returned func stops forwarding.
func (h *Hub) Follow(q *notify.Queue) func() {
	return q.Subscribe(h.Broadcast)
}

// Broadcast sends ev to all clients. Clients that fail a write are dropped.
func (h *Hub) Broadcast(ev notify.Event) {
	msg := Message{Type: ev.Type, Notification: ev.Notification}
	if ev.Type == notify.EventPushed {
		out, err := view.HTML(view.Notification(ev.Notification))
		if err != nil {
			telemetry.Error("notification render failed", map[string]any{"error": err})
			return
		}
		msg.HTML = out
	}
	data, err := json.Marshal(msg)
	if err != nil {
		telemetry.Error("notification encode failed", map[string]any{"error": err})
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, data); err != nil {
			h.unregister(c)
		}
	}
}

// Len is the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and holds the connection until the browser
// goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Warn("websocket upgrade failed", map[string]any{"error": err})
		return
	}
	c := &client{conn: conn}
	h.register(c)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					h.unregister(c)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			h.unregister(c)
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	telemetry.Info("websocket connected", map[string]any{"clients": n})
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}
