package dto

import "time"

// Inbound websocket events.
const (
	WsEventJoinSession = "join-session"
	WsEventSendMessage = "send-message"
)

// Outbound websocket events.
const (
	WsEventSessionJoined = "session-joined"
	WsEventBotResponse   = "bot-response"
	WsEventNotification  = "notification"
	WsEventError         = "error"
)

type WsInboundEvent struct {
	Type      string `json:"type"`
	SessionId string `json:"sessionId"`
	Message   string `json:"message,omitempty"`
	TopK      int    `json:"topK,omitempty"`
}

type WsSessionJoinedEvent struct {
	Type      string    `json:"type"`
	SessionId string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

type WsBotResponseEvent struct {
	Type      string         `json:"type"`
	Id        string         `json:"id"`
	SessionId string         `json:"sessionId"`
	Response  *ChatAnswerDTO `json:"response"`
	Timestamp time.Time      `json:"timestamp"`
}

type WsErrorEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type WsNotificationEvent struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
