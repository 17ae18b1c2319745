package dto

import "time"

type ChatMessageRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"sessionId" validate:"required,uuid4"`
	TopK      int    `json:"topK,omitempty" validate:"omitempty,min=1,max=20"`
}

type SourceDTO struct {
	Title string `json:"title"`
	Url   string `json:"url"`
}

type ChatAnswerDTO struct {
	Answer             string      `json:"answer"`
	Sources            []SourceDTO `json:"sources"`
	HasRelevantContext bool        `json:"hasRelevantContext"`
	FromCache          bool        `json:"fromCache"`
}

type ChatMessageResponse struct {
	Success   bool           `json:"success"`
	Response  *ChatAnswerDTO `json:"response"`
	SessionId string         `json:"sessionId"`
	Timestamp time.Time      `json:"timestamp"`
}
