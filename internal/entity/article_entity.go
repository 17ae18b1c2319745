package entity

import (
	"time"

	"github.com/google/uuid"
)

// Article is an indexed news article as the domain sees it. Retrieved
// articles are read-only for the query path; only the ingestion boundary
// writes them.
type Article struct {
	Id          uuid.UUID
	Title       string
	Summary     string
	Content     string
	Url         string
	Source      string
	PublishedAt time.Time
	Embedding   []float32
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
