package socket

import (
	"context"
	"encoding/json"
	"sync"

	"overlaysvc/pkg/logger"
)

const (
	OverlayCreatedType = "OVERLAY_CREATED"
	OverlayUpdatedType = "OVERLAY_UPDATED"
	OverlayDeletedType = "OVERLAY_DELETED"
)

// Event is one overlay change pushed to every subscriber of the feed.
type Event struct {
	Type      string          `json:"type"`
	OverlayID string          `json:"overlay_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Hub fans overlay events out to connected websocket clients. The client set is
// owned by the Run goroutine.
type Hub struct {
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client

	// OnClientCount, when set before Run, observes every change in subscriber count.
	OnClientCount func(n int)

	clients map[*Client]bool
	done    chan struct{}
	mu      sync.Mutex
	count   int
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			logger.Sugar.Info("Overlay feed stopped")
			return

		case client := <-h.Register:
			h.clients[client] = true
			h.countChanged()
			logger.Sugar.Debugf("Feed client %s connected", client.ID)

		case client := <-h.Unregister:
			if h.clients[client] {
				h.drop(client)
				logger.Sugar.Debugf("Feed client %s disconnected", client.ID)
			}

		case ev := <-h.Broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast event: %v", err)
				continue
			}

			for client := range h.clients {
				select {
				case client.Send <- payload:
				default:
					// Send buffer is full, the client is lagging.
					logger.Sugar.Warnf("Client %s's send buffer is full. Dropping.", client.ID)
					h.drop(client)
					client.Conn.Close()
				}
			}
		}
	}
}

// Publish hands ev to the Run loop. After the hub has stopped it is a no-op.
func (h *Hub) Publish(ev Event) {
	select {
	case h.Broadcast <- ev:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.countChanged()
}

func (h *Hub) countChanged() {
	n := len(h.clients)
	if h.OnClientCount != nil {
		h.OnClientCount(n)
	}
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}
