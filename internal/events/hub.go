package events

import (
	"context"
	"log/slog"

	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
)

// Topics published on the state feed
const (
	TopicSession  = "session"
	TopicListings = "listings"
)

// Event is one state snapshot published to a topic
type Event struct {
	Topic   string
	Payload []byte
}

// Hub fans manager state snapshots out to subscribed views. Each client
// subscribes to one or more topics; the latest snapshot per topic is
// replayed on subscribe so a fresh view renders current state immediately.
type Hub struct {
	clients    map[string]map[*Client]bool
	latest     map[string][]byte
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub creates a new state-feed hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		latest:     make(map[string][]byte),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			slog.Info("state feed shutting down")
			return ctx.Err()

		case client := <-h.register:
			for _, topic := range client.topics {
				if h.clients[topic] == nil {
					h.clients[topic] = make(map[*Client]bool)
				}
				h.clients[topic][client] = true
				observability.StateSubscribersActive.WithLabelValues(topic).Inc()

				// Replay the last snapshot so the view starts current
				if payload, ok := h.latest[topic]; ok {
					select {
					case client.send <- payload:
					default:
					}
				}
			}
			slog.Debug("state subscriber registered",
				slog.String("client_id", client.id),
				slog.Any("topics", client.topics))

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.latest[event.Topic] = event.Payload
			for client := range h.clients[event.Topic] {
				select {
				case client.send <- event.Payload:
				default:
					// Send buffer full, drop the subscriber
					h.dropClient(client)
				}
			}
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	removed := false
	for _, topic := range client.topics {
		if clients, ok := h.clients[topic]; ok {
			if _, ok := clients[client]; ok {
				delete(clients, client)
				observability.StateSubscribersActive.WithLabelValues(topic).Dec()
				removed = true
				if len(clients) == 0 {
					delete(h.clients, topic)
				}
			}
		}
	}
	if removed {
		h.closeClientSend(client)
	}
}

// dropClient removes a client from every topic it follows
func (h *Hub) dropClient(client *Client) {
	h.unregisterClient(client)
}

// closeClientSend is called at most once per client: unregisterClient
// only reaches it when the client was still registered, and shutdown only
// sees clients that were never unregistered.
func (h *Hub) closeClientSend(client *Client) {
	close(client.send)
}

func (h *Hub) shutdown() {
	close(h.done)

	seen := make(map[*Client]bool)
	for _, clients := range h.clients {
		for client := range clients {
			seen[client] = true
		}
	}
	for client := range seen {
		h.closeClientSend(client)
	}
	h.clients = make(map[string]map[*Client]bool)

	slog.Info("state feed shutdown complete")
}

// Broadcast publishes a snapshot payload to a topic
func (h *Hub) Broadcast(topic string, payload []byte) {
	select {
	case h.broadcast <- &Event{Topic: topic, Payload: payload}:
	case <-h.done:
	}
}

// Register registers a subscriber with the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a subscriber from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
