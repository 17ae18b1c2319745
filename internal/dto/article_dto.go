package dto

import "time"

type ArticlePayload struct {
	Id          string                 `json:"id,omitempty"`
	Title       string                 `json:"title" validate:"required"`
	Summary     string                 `json:"summary"`
	Content     string                 `json:"content"`
	Url         string                 `json:"url" validate:"required,url"`
	Source      string                 `json:"source"`
	PublishedAt time.Time              `json:"publishedAt"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type IngestArticlesRequest struct {
	Articles []ArticlePayload `json:"articles" validate:"required,min=1,dive"`
}

// IngestArticlesMessage is the payload carried on the ingestion topic.
type IngestArticlesMessage struct {
	Articles []ArticlePayload `json:"articles"`
}

type RecentArticleDTO struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Url         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

type RecentArticlesResponse struct {
	Success  bool               `json:"success"`
	Articles []RecentArticleDTO `json:"articles"`
	Count    int                `json:"count"`
}
