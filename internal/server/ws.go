package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/handgrain/internal/control"
)

const (
	clientBuffer = 256
	writeWait    = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// HandPointMessage is broadcast for every landmark of every visible hand.
type HandPointMessage struct {
	Type  string  `json:"type"`
	Hand  int     `json:"hand"`
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ParametersMessage is broadcast for every emitted parameter vector.
type ParametersMessage struct {
	Type   string             `json:"type"`
	Values map[string]float64 `json:"values"`
	Vector []float64          `json:"vector"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub streams visualization messages to websocket clients. It implements
// engine.VisualSink; sends never block, and a client that falls behind
// loses messages rather than slowing the frame loop.
type Hub struct {
	log     *zap.Logger
	mu      sync.RWMutex
	clients map[*client]bool
	dropped uint64
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log.Named("ws"),
		clients: make(map[*client]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go h.writeLoop(c)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many messages were discarded for slow clients.
func (h *Hub) Dropped() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// SendHandPoint broadcasts one landmark.
func (h *Hub) SendHandPoint(hand, index int, x, y float64) error {
	return h.broadcast(HandPointMessage{Type: "hand", Hand: hand, Index: index, X: x, Y: y})
}

// SendParameters broadcasts a parameter vector.
func (h *Hub) SendParameters(v control.ParameterVector) error {
	values := make(map[string]float64, control.NumParameters)
	for _, p := range control.Parameters {
		values[p.String()] = v.Get(p)
	}
	return h.broadcast(ParametersMessage{Type: "parameters", Values: values, Vector: v[:]})
}

func (h *Hub) broadcast(msg any) error {
	h.mu.RLock()
	if len(h.clients) == 0 {
		h.mu.RUnlock()
		return nil
	}
	h.mu.RUnlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.dropped++
		}
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
