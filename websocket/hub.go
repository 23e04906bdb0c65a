package websocket

import (
	"HaloBackend/interfaces"
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub keeps the live sessions of every parent and fans feed messages out to them.
type Hub struct {
	// Registered clients by parent uid
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}

	mu     sync.Mutex
	logger *logrus.Entry
}

// Message is an encoded frame addressed to one parent.
type Message struct {
	ParentID string
	Data     []byte
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "feed"),
	}
}

// Register adds a session. After the hub has stopped the session is closed at once.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues msg for the parent's sessions. It never blocks: when the hub is
// backed up the message is dropped.
func (h *Hub) Publish(msg interfaces.FeedMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("encode feed message")
		return
	}
	select {
	case h.broadcast <- &Message{ParentID: msg.ParentID, Data: data}:
	default:
		h.logger.WithField("parent_id", msg.ParentID).Warn("feed backlog full, message dropped")
	}
}

// ClientCount returns the number of live sessions of parentID.
func (h *Hub) ClientCount(parentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[parentID])
}

// Run serves register, unregister and broadcast requests until ctx is done, then
// closes every session.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for parentID, clients := range h.clients {
				for client := range clients {
					close(client.send)
				}
				delete(h.clients, parentID)
			}
			h.mu.Unlock()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.clients[client.ParentID]; !ok {
				h.clients[client.ParentID] = make(map[*Client]bool)
			}
			h.clients[client.ParentID][client] = true
			h.mu.Unlock()
			h.logger.WithField("parent_id", client.ParentID).Debug("feed session opened")

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[message.ParentID] {
				select {
				case client.send <- message.Data:
				default:
					// Slow consumer.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.ParentID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.ParentID)
	}
}
