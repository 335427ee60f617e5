package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cora-leaf-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cora_live_events"

// Envelope is the frame every live client receives.
type Envelope struct {
	Type      string      `json:"type"`
	SessionId uuid.UUID   `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionId string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub fans live session events out to every connection of that session, on
// this instance and, through Redis, on the others.
type Hub struct {
	clients    map[uuid.UUID][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	rdb        *redis.Client
	instanceId string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionId})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionId]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionId]) == 0 {
		delete(h.clients, client.SessionId)
		h.logger.Info("Hub", "Session has no live clients", map[string]interface{}{"session_id": client.SessionId})
	}
}

// Notify pushes one event to the session's live clients.
func (h *Hub) Notify(sessionId uuid.UUID, eventType string, data interface{}) {
	frame, err := json.Marshal(Envelope{
		Type:      eventType,
		SessionId: sessionId,
		Data:      data,
		SentAt:    time.Now(),
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode live event", map[string]interface{}{"type": eventType, "error": err.Error()})
		return
	}

	h.deliverLocal(sessionId, frame)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:    h.instanceId,
			SessionId: sessionId.String(),
			Message:   frame,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to mirror live event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) ClientCount(sessionId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionId])
}

// deliverLocal holds the read lock while sending so that remove cannot close
// a channel mid-send.
func (h *Hub) deliverLocal(sessionId uuid.UUID, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionId] {
		select {
		case client.Send <- frame:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"session_id": sessionId})
			select {
			case h.unregister <- client:
			default:
			}
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceId {
			continue
		}

		sessionId, err := uuid.Parse(payload.SessionId)
		if err != nil {
			continue
		}
		h.deliverLocal(sessionId, payload.Message)
	}
}
