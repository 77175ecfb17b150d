package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

// Message is a live-sync notification sent to every connection of one user.
type Message struct {
	Type   string             `json:"type"`
	Action string             `json:"action"`
	ID     int64              `json:"id,omitempty"`
	Item   *model.GroceryItem `json:"item,omitempty"`
	Count  int64              `json:"count,omitempty"`
}

const (
	ActionCreated        = "created"
	ActionUpdated        = "updated"
	ActionToggled        = "toggled"
	ActionDeleted        = "deleted"
	ActionClearedDone    = "cleared_completed"
	ActionClearedAll     = "cleared_all"
	groceryMessagePrefix = "item_"
)

// NewMessage builds a Message for an item event. item may be nil for bulk
// events, in which case count carries the number of affected rows.
func NewMessage(action string, item *model.GroceryItem, count int64) Message {
	msg := Message{
		Type:   groceryMessagePrefix + action,
		Action: action,
		Item:   item,
		Count:  count,
	}
	if item != nil {
		msg.ID = item.ID
	}
	return msg
}

// Hub tracks live connections grouped by owning user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.userID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
}

// Publish sends msg to every connection belonging to ownerID. Other users
// never see it.
func (h *Hub) Publish(ownerID int64, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ownerID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket send buffer full, dropping message", "user_id", ownerID, "type", msg.Type)
		}
	}
}

// ClientCount returns the number of connections held by userID.
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
