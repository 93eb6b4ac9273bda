package live

import "sync"

// Hub fans match updates out to websocket subscribers. Rooms are keyed by
// tournament ID; a room exists only while it has at least one subscriber.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.room] == nil {
		h.rooms[c.room] = make(map[*Client]bool)
	}
	h.rooms[c.room][c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.rooms, c.room)
	}
}

// Broadcast delivers the payload to every subscriber of the room. Slow
// clients with a full send buffer are dropped rather than blocking the
// caller.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.mu.RLock()
	var stale []*Client
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
	}
}
