package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeWait = 2 * time.Second

// Hub tracks websocket clients and fans events out to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     zerolog.Logger
}

type Stats struct {
	Clients int `json:"clients"`
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON writes v to every client. Clients that fail the write are
// dropped.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			h.log.Debug().Err(err).Str("remote", ws.RemoteAddr().String()).Msg("dropping client")
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Stats() Stats {
	return Stats{Clients: h.Count()}
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		delete(h.clients, ws)
	}
}
