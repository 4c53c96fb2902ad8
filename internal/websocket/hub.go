package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"civics-tutor-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "session_events"

// Hub tracks live realtime connections keyed by session id. When Redis is
// configured, outbound messages also fan out across instances so a resumed
// session can land on a different node than the one that paused it.
type Hub struct {
	// Registered clients map: session id -> connection.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance delivery. Optional.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// A reconnect for the same session replaces the old transport.
			if old, ok := h.clients[client.SessionID]; ok && old != client {
				close(old.Send)
			}
			h.clients[client.SessionID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.SessionID]; ok && current == client {
				delete(h.clients, client.SessionID)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
			}
			h.mu.Unlock()
		}
	}
}

// Send implements session.Sender: it delivers an outbound message to the
// session's transport, locally and via Redis for other instances.
func (h *Hub) Send(sessionID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.deliverLocal(sessionID, data)

	if h.rdb != nil {
		envelope, err := json.Marshal(map[string]interface{}{
			"target_session_id": sessionID,
			"message":           json.RawMessage(data),
		})
		if err != nil {
			return err
		}
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
	return nil
}

func (h *Hub) deliverLocal(sessionID string, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Hub", "Client send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		h.deliverLocal(payload.TargetSessionID, payload.Message)
	}
}
