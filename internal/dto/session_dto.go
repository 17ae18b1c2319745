package dto

import "time"

type CreateSessionResponse struct {
	Success   bool   `json:"success"`
	SessionId string `json:"sessionId"`
	ExpiresIn int    `json:"expiresIn"`
}

type SessionMessageDTO struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionHistoryResponse struct {
	Success      bool                `json:"success"`
	SessionId    string              `json:"sessionId"`
	History      []SessionMessageDTO `json:"history"`
	MessageCount int                 `json:"messageCount"`
	LastActivity time.Time           `json:"lastActivity"`
}
