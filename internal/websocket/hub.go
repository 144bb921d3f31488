package websocket

import (
	"encoding/json"
	"sync"
)

// CashUpdate is pushed to every connected back-office client after a
// ledger write commits. Balance is the signed minor-unit total for the
// currency bucket.
type CashUpdate struct {
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// Hub fans cash register updates out to all connected clients. The cash
// register is shared state, so there is no per-user routing.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) BroadcastCash(update CashUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
