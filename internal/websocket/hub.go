package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
)

// ChatService is the slice of the chat pipeline the hub needs to answer
// inbound websocket messages.
type ChatService interface {
	Answer(ctx context.Context, sessionId string, message string, topK int) (*dto.ChatAnswerDTO, error)
}

// Hub tracks connected clients and the session binding registry. Each session
// id is bound to at most one live connection: a join on an already-bound
// session evicts the prior connection.
type Hub struct {
	// All connected clients, bound or not.
	clients map[*Client]bool

	// Session binding registry: session id -> the single live connection.
	bindings map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	// Identifies this instance on the fanout channel so its own publishes
	// are not delivered twice to local clients.
	instanceId string

	chat ChatService

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, chat ChatService, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		bindings:   make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		chat:       chat,
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
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client connected", nil)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	if client.SessionId != "" && h.bindings[client.SessionId] == client {
		delete(h.bindings, client.SessionId)
	}
	client.closeSend()

	h.logger.Info("Hub", "Client disconnected", map[string]interface{}{"session_id": client.SessionId})
}

// Bind attaches a connection to a session id. A prior connection bound to the
// same session is evicted: its binding is dropped and its send channel closed,
// which tears the stale connection down.
func (h *Hub) Bind(sessionId string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.bindings[sessionId]; ok && prev != client {
		delete(h.clients, prev)
		prev.closeSend()
		h.logger.Info("Hub", "Evicted prior session binding", map[string]interface{}{"session_id": sessionId})
	}

	// A client rejoining under a new session drops its old binding.
	if client.SessionId != "" && client.SessionId != sessionId && h.bindings[client.SessionId] == client {
		delete(h.bindings, client.SessionId)
	}

	client.SessionId = sessionId
	h.bindings[sessionId] = client
}

// CurrentBinding reports which connection, if any, owns a session id.
func (h *Hub) CurrentBinding(sessionId string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.bindings[sessionId]
}

// Broadcast delivers a notification to every local client and fans it out to
// other instances through Redis.
func (h *Hub) Broadcast(payload interface{}) {
	data, _ := json.Marshal(dto.WsNotificationEvent{
		Type:      dto.WsEventNotification,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})

	h.mu.RLock()
	for client := range h.clients {
		client.enqueue(data)
	}
	h.mu.RUnlock()

	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":            h.instanceId,
			"target_session_id": "*",
			"message":           json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "cluster_events", envelope)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterEvent([]byte(msg.Payload))
	}
}

// handleClusterEvent delivers one fanout envelope to local clients. Envelopes
// published by this instance are dropped: their payload already went to local
// clients directly.
func (h *Hub) handleClusterEvent(raw []byte) {
	var payload struct {
		Origin          string          `json:"origin"`
		TargetSessionId string          `json:"target_session_id"`
		Message         json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}

	if payload.Origin == h.instanceId {
		return
	}

	if payload.TargetSessionId == "*" {
		h.mu.RLock()
		for client := range h.clients {
			client.enqueue(payload.Message)
		}
		h.mu.RUnlock()
		return
	}

	h.mu.RLock()
	client, ok := h.bindings[payload.TargetSessionId]
	h.mu.RUnlock()
	if ok {
		client.enqueue(payload.Message)
	}
}
