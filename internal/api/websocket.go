package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sulozor/temple-solver/internal/telemetry"
)

// writeWait bounds a single websocket write so one stalled client can't
// hold the broadcast loop for everyone else on the same job.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is handled by the CORS middleware; the upgrade
	// itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans out one job's progress snapshots to every websocket client
// subscribed to its /job/{id}/stream. One Hub exists per job and is
// discarded once the job reaches a terminal state.
type Hub struct {
	log *telemetry.Logger

	mu      sync.Mutex
	conns   map[*websocket.Conn]bool
	updates chan []byte
}

// NewHub returns a Hub with no subscribers yet. Call Run in its own
// goroutine before the first Broadcast.
func NewHub(log *telemetry.Logger) *Hub {
	return &Hub{
		log:     log.Component("stream"),
		conns:   make(map[*websocket.Conn]bool),
		updates: make(chan []byte, 256),
	}
}

// ClientCount reports how many websocket clients are currently
// subscribed.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Run drains the update channel, pushing each payload to every
// subscriber and dropping connections whose writes fail.
func (h *Hub) Run() {
	for payload := range h.updates {
		h.mu.Lock()
		for conn := range h.conns {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.Debug("dropping slow stream client", map[string]interface{}{"error": err.Error()})
				conn.Close()
				delete(h.conns, conn)
			}
		}
		h.mu.Unlock()
	}
}

// Subscribe upgrades the request to a websocket and registers it for
// this hub's updates. The read loop exists only to observe the close.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	n := len(h.conns)
	h.mu.Unlock()
	h.log.Debug("stream client connected", map[string]interface{}{"clients": n})

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Debug("stream client read error", map[string]interface{}{"error": err.Error()})
				}
				return
			}
		}
	}()
}

// Broadcast enqueues payload for delivery to every subscriber. Drops
// the update when the buffer is full rather than blocking the job
// poller — a client that misses one best-so-far gets the next.
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.updates <- payload:
	default:
	}
}

// Close ends Run and disconnects every remaining subscriber. The owner
// must not Broadcast after Close.
func (h *Hub) Close() {
	close(h.updates)
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
