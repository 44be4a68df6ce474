package notification

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"opinor/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

// StreamEvent is what a connected dashboard receives when a notification
// is created for it.
type StreamEvent struct {
	Type         string               `json:"type"`
	Notification *domain.Notification `json:"notification"`
}

const eventNotificationCreated = "notification_created"

type connection struct {
	businessID int64
	conn       *websocket.Conn
	send       chan []byte
}

// Hub tracks live websocket subscribers per business owner. Delivery to
// the hub is best-effort; the persisted row is the source of truth.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
}

func NewHub() *Hub {
	return &Hub{connections: make(map[int64]*connection)}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.connections[c.businessID]; ok {
		close(old.send)
	}
	h.connections[c.businessID] = c
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.businessID]; ok && existing == c {
		delete(h.connections, c.businessID)
		close(c.send)
	}
}

// Publish pushes a freshly created notification to its recipient's live
// connection, if any. A slow client is skipped rather than blocking the
// create path.
func (h *Hub) Publish(n *domain.Notification) {
	data, err := json.Marshal(&StreamEvent{Type: eventNotificationCreated, Notification: n})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.connections[n.BusinessID]; ok {
		select {
		case c.send <- data:
		default:
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure per-origin in prod
}

// ServeWS upgrades and pumps a subscriber connection. Blocks until the
// client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, businessID int64) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		businessID: businessID,
		conn:       conn,
		send:       make(chan []byte, 64),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Subscribers only listen; any read error means disconnect.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
