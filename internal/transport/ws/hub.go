package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/gamenight-go/internal/model"
	"github.com/mcoot/gamenight-go/internal/push"
)

// Hub tracks the registered connections and delivers events to them.
// Delivery is non-blocking: a client whose send queue is full misses the
// event rather than stalling the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.PlayerID]*Client
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]*Client),
		logger:  logger.With(slog.String("component", "wshub")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.PlayerID] = c
}

// Unregister removes a client and closes its send queue
func (h *Hub) Unregister(id model.PlayerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// ClientCount returns the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo delivers an event to a single player; unknown recipients are dropped
func (h *Hub) SendTo(ctx context.Context, to model.PlayerID, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[to]
	if !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		h.logger.Warn("dropping event for slow client",
			slog.String("player_id", string(to)),
			slog.String("type", string(event.Type)),
		)
	}
}

// Broadcast delivers an event to every registered connection
func (h *Hub) Broadcast(ctx context.Context, event model.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			h.logger.Warn("dropping event for slow client",
				slog.String("player_id", string(id)),
				slog.String("type", string(event.Type)),
			)
		}
	}
}

var _ push.Notifier = (*Hub)(nil)
