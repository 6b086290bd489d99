package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
)

// Hub fans freshly generated market snapshots out to connected WebSocket
// clients. Each client gets a buffered send queue; slow clients are dropped
// rather than allowed to stall a refresh.
type Hub struct {
	upgrader websocket.Upgrader
	metrics  drepo.Metrics
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// snapshotFrame is the wire envelope pushed on every refresh.
type snapshotFrame struct {
	Type    string                 `json:"type"`
	At      time.Time              `json:"at"`
	Entries []models.SnapshotEntry `json:"entries"`
}

func NewHub(metrics drepo.Metrics, log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		metrics: metrics,
		logger:  log,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast pushes the snapshot to every connected client. Clients whose
// queue is full get the frame dropped; the next refresh catches them up.
func (h *Hub) Broadcast(entries []models.SnapshotEntry) {
	frame, err := json.Marshal(snapshotFrame{
		Type:    "snapshot",
		At:      time.Now().UTC(),
		Entries: entries,
	})
	if err != nil {
		h.logger.Error("marshal snapshot frame", logger.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			// drop on backpressure
		}
	}
}

// Serve upgrades the request and keeps the connection alive until the
// client goes away.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &client{conn: conn, send: make(chan []byte, 8)}
	h.register(cl)
	h.logger.Info("stream client connected",
		logger.String("remote", conn.RemoteAddr().String()),
		logger.Int("clients", h.ClientCount()))

	go h.writeLoop(cl)
	h.readLoop(cl)
	return nil
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Used during shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
	h.metrics.SetStreamClients(0)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetStreamClients(n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.SetStreamClients(n)
	_ = c.conn.Close()
}

// readLoop drains client frames; the browser never sends payloads we care
// about, but the read pump is what notices a dead peer.
func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)
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

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
