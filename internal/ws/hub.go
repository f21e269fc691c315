package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"community-service/internal/models"
	"community-service/internal/observability"
)

const (
	wsKind       = "notifications"
	wsRoutingKey = "ws_events.notifications"
)

// Socket is the part of *websocket.Conn the hub writes to.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn    Socket
	info    ConnInfo
	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks live notification connections per user. A user may hold several
// connections at once.
type Hub struct {
	users map[int]map[Socket]*client
	mu    sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{users: make(map[int]map[Socket]*client)}
}

// AddClient registers a connection for userID.
func (h *Hub) AddClient(userID int, conn Socket, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Socket]*client)
	}
	h.users[userID][conn] = &client{conn: conn, info: info}
}

// RemoveClient drops a connection.
func (h *Hub) RemoveClient(userID int, conn Socket) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.users[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.users, userID)
		}
	}
}

// ConnectionCount returns how many live connections userID holds.
func (h *Hub) ConnectionCount(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// PushToUser writes event to every connection of userID and returns how many
// writes succeeded. Broken connections are closed and dropped.
func (h *Hub) PushToUser(userID int, event models.NotificationEvent) int {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.users[userID]))
	for _, c := range h.users[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	if len(clients) == 0 {
		return 0
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("websocket marshal error: %v", err)
		return 0
	}

	delivered := 0
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			log.Printf("websocket write error: user_id=%d conn_id=%s err=%v", userID, c.info.ConnID, err)
			_ = c.conn.Close()
			h.RemoveClient(userID, c.conn)
			publishConnEvent(context.Background(), "ws_error", c.info, err.Error())
			continue
		}
		delivered++
	}
	observability.IncWSEvent(wsKind, event.Type)
	return delivered
}

func publishConnEvent(ctx context.Context, event string, info ConnInfo, reason string) {
	observability.IncWSEvent(wsKind, event)
	envelope := observability.NewEnvelope("ws_events", event, info.RequestID, info.TraceID, info.payload(event, reason))
	if err := observability.PublishEvent(ctx, wsRoutingKey, envelope); err != nil {
		log.Printf("ws event publish failed: event=%s err=%v", event, err)
	}
}
