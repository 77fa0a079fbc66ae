// Package hub fans mystery box lobby events out to the SSE streams of the
// lobby's participants.
package hub

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is a single message pushed to subscribers.
type Event struct {
	Type    string `json:"type"`
	LobbyID uint   `json:"lobby_id"`
	Payload any    `json:"payload,omitempty"`
}

// Client is one subscriber. The SSE handler drains it until it is closed.
type Client chan []byte

// clientBuffer is how many undelivered events a client may queue before
// further events are dropped for it.
const clientBuffer = 16

// Hub tracks subscribers per lobby.
type Hub struct {
	lobbies map[uint]map[Client]bool
	mu      sync.RWMutex
}

func New() *Hub {
	return &Hub{
		lobbies: make(map[uint]map[Client]bool),
	}
}

// Subscribe registers a new client on lobbyID.
func (h *Hub) Subscribe(lobbyID uint) Client {
	client := make(Client, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.lobbies[lobbyID]; !ok {
		h.lobbies[lobbyID] = make(map[Client]bool)
	}
	h.lobbies[lobbyID][client] = true
	return client
}

// Unsubscribe removes client from lobbyID and closes it. Unknown clients are
// ignored, so it is safe after Close.
func (h *Hub) Unsubscribe(lobbyID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.lobbies[lobbyID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.lobbies, lobbyID)
			}
		}
	}
}

// Close disconnects every subscriber of lobbyID.
func (h *Hub) Close(lobbyID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.lobbies[lobbyID] {
		close(client)
	}
	delete(h.lobbies, lobbyID)
}

// Broadcast sends event to every subscriber of event.LobbyID. Slow clients
// miss events rather than blocking the caller.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.lobbies[event.LobbyID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("hub: marshal %s event: %v", event.Type, err)
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
}

// Subscribers returns the number of clients on lobbyID.
func (h *Hub) Subscribers(lobbyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[lobbyID])
}
