package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// SessionId this connection is bound to, empty until join-session.
	SessionId string

	// Buffered channel of outbound messages.
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue queues an outbound frame, dropping it when the buffer is full or
// the connection is already torn down. Safe against concurrent eviction.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// readPump pumps inbound events from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WebSocket", "Unexpected close", map[string]interface{}{"session_id": c.SessionId, "error": err.Error()})
			}
			break
		}

		var evt dto.WsInboundEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			c.sendError("invalid event payload")
			continue
		}

		switch evt.Type {
		case dto.WsEventJoinSession:
			c.handleJoinSession(evt)
		case dto.WsEventSendMessage:
			c.handleSendMessage(evt)
		default:
			c.sendError("unknown event type: " + evt.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleJoinSession(evt dto.WsInboundEvent) {
	if evt.SessionId == "" {
		c.sendError("sessionId is required to join")
		return
	}

	c.Hub.Bind(evt.SessionId, c)

	data, _ := json.Marshal(dto.WsSessionJoinedEvent{
		Type:      dto.WsEventSessionJoined,
		SessionId: evt.SessionId,
		Timestamp: time.Now().UTC(),
	})
	c.enqueue(data)
}

func (c *Client) handleSendMessage(evt dto.WsInboundEvent) {
	if evt.SessionId == "" || evt.SessionId != c.SessionId {
		c.sendError("join the session before sending messages")
		return
	}
	if strings.TrimSpace(evt.Message) == "" {
		c.sendError("message must not be empty")
		return
	}

	// Answer off the read loop so pings keep flowing during generation.
	// The response goes only to this connection, never to a later binding.
	go func() {
		res, err := c.Hub.chat.Answer(context.Background(), evt.SessionId, evt.Message, evt.TopK)
		if err != nil {
			c.sendError("failed to answer message")
			return
		}

		data, _ := json.Marshal(dto.WsBotResponseEvent{
			Type:      dto.WsEventBotResponse,
			Id:        uuid.NewString(),
			SessionId: evt.SessionId,
			Response:  res,
			Timestamp: time.Now().UTC(),
		})
		c.enqueue(data)
	}()
}

func (c *Client) sendError(message string) {
	data, _ := json.Marshal(dto.WsErrorEvent{
		Type:      dto.WsEventError,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
	c.enqueue(data)
}
