package ws

import (
	"encoding/json"
	"sync"
	"time"

	"chaotic_backend/internal/domain"
	"chaotic_backend/internal/logger"
)

// Hub fans pack-opening events out to connected feed clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OpeningEvent is the reveal summary published after a successful pack
// purchase.
type OpeningEvent struct {
	Type     string          `json:"type"`
	UserID   int64           `json:"user_id"`
	PackID   string          `json:"pack_id"`
	PackName string          `json:"pack_name"`
	Rarities []domain.Rarity `json:"rarities"`
	OpenedAt time.Time       `json:"opened_at"`
}

// BroadcastOpening sends the event to every connected client. Slow clients
// are dropped rather than blocking the broadcast.
func (h *Hub) BroadcastOpening(ev OpeningEvent) {
	ev.Type = "pack_opened"
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to encode opening event", "error", err)
		return
	}

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
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
