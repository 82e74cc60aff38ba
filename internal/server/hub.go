package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/toast/internal/api"
	"github.com/idilsaglam/toast/internal/toast"
)

const (
	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

// hub fans manager events out to WebSocket clients. Each client has its own
// buffered queue; a client that falls behind is dropped rather than allowed
// to block the goroutine that changed the collection.
type hub struct {
	manager  *toast.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*wsClient]struct{}
	closed      bool
	unsubscribe func()
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newHub(m *toast.Manager, log zerolog.Logger) *hub {
	h := &hub{
		manager: m,
		log:     log,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	h.unsubscribe = m.Subscribe(h.broadcast)
	return h
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	// Register before taking the snapshot so no event falls in between.
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	snap := snapshotOf(h.manager)
	if b, err := json.Marshal(api.StreamMessage{Type: api.StreamSnapshot, Toasts: snap}); err == nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.drop(c)
			return
		}
	}

	go h.writeLoop(c)

	// Read until the client goes away; inbound frames are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

func (h *hub) writeLoop(c *wsClient) {
	for b := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *hub) broadcast(ev toast.Event) {
	b, err := json.Marshal(api.EventMessage(ev))
	if err != nil {
		return
	}
	h.mu.Lock()
	var slow []*wsClient
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.log.Warn().Msg("dropping slow stream client")
		h.drop(c)
	}
}

func (h *hub) drop(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

func (h *hub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	h.unsubscribe()
	for _, c := range clients {
		h.drop(c)
	}
}

func snapshotOf(m *toast.Manager) []api.Toast {
	toasts := m.List()
	out := make([]api.Toast, 0, len(toasts))
	for _, t := range toasts {
		deadline, _ := m.Deadline(t.ID)
		out = append(out, api.FromModel(t, deadline))
	}
	return out
}
