package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/RaymondAhuren/swedru-konnect/internal/events"
	"github.com/RaymondAhuren/swedru-konnect/internal/middleware"

	"github.com/gorilla/websocket"
)

// StateFeedHandler upgrades views onto the WebSocket state feed
type StateFeedHandler struct {
	hub      *events.Hub
	upgrader websocket.Upgrader
}

// NewStateFeedHandler creates the state-feed handler. Upgrades are only
// accepted from the configured view origins.
func NewStateFeedHandler(hub *events.Hub, allowedOrigins string) *StateFeedHandler {
	origins := middleware.ParseOrigins(allowedOrigins)

	return &StateFeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					// Non-browser clients (tests, curl) send no origin
					return true
				}
				for _, o := range origins {
					if o == origin || o == "*" {
						return true
					}
				}
				return false
			},
		},
	}
}

// Subscribe handles GET /ws/state?topics=session,listings
func (h *StateFeedHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	topics := parseTopics(r.URL.Query().Get("topics"))
	if len(topics) == 0 {
		http.Error(w, `{"error":"At least one valid topic required"}`, http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("state feed upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := events.NewClient(h.hub, conn, topics)
	h.hub.Register(client)

	slog.Debug("state feed subscriber connected",
		slog.String("client_id", client.ID()),
		slog.Any("topics", topics))

	go client.WritePump()
	go client.ReadPump()
}

func parseTopics(raw string) []string {
	if raw == "" {
		return []string{events.TopicSession, events.TopicListings}
	}

	var topics []string
	for _, t := range strings.Split(raw, ",") {
		switch strings.TrimSpace(t) {
		case events.TopicSession:
			topics = append(topics, events.TopicSession)
		case events.TopicListings:
			topics = append(topics, events.TopicListings)
		}
	}
	return topics
}
