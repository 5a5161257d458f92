package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"pv_dashboard/internal/dashboard"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotProvider yields the current dashboard payload.
type SnapshotProvider interface {
	Snapshot() dashboard.Snapshot
	ForceRefresh() dashboard.Snapshot
}

// Handler manages WebSocket connections and serves snapshots to the page.
type Handler struct {
	hub      *Hub
	provider SnapshotProvider
	log      *logrus.Logger
}

func NewHandler(hub *Hub, provider SnapshotProvider, log *logrus.Logger) *Handler {
	return &Handler{hub: hub, provider: provider, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.hub.Register(client)
	go client.writePump()

	// New clients get the current snapshot immediately.
	h.sendSnapshot(client, h.provider.Snapshot())

	h.readPump(client)
}

// BroadcastSnapshot pushes a snapshot to every connected client. The refresh
// ticker in the dashboard process calls this every cycle.
func (h *Handler) BroadcastSnapshot(snap dashboard.Snapshot) {
	msg, err := SnapshotMessage(snap)
	if err != nil {
		h.log.Errorf("Encoding snapshot: %v", err)
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(msg)
	}
}

func (h *Handler) handleMessage(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.log.Warnf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeRefresh:
		h.BroadcastSnapshot(h.provider.ForceRefresh())

	default:
		h.log.Warnf("Unknown message type: %s", env.Type)
	}
}

func (h *Handler) sendSnapshot(c *Client, snap dashboard.Snapshot) {
	msg, err := SnapshotMessage(snap)
	if err != nil {
		h.log.Errorf("Encoding snapshot: %v", err)
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
