package contract

import (
	"context"
	"time"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/entity"
)

// ScoredArticle pairs a retrieved article with its cosine similarity to
// the query embedding, in [0, 1] where 1 is an exact match.
type ScoredArticle struct {
	Article    *entity.Article
	Similarity float64
}

type ArticleRepository interface {
	// EnsureSchema prepares the vector extension, the articles table and
	// the similarity index. Safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// UpsertBatch inserts or replaces articles keyed by id.
	UpsertBatch(ctx context.Context, articles []*entity.Article) error

	// SearchSimilarWithScore returns up to limit articles whose embedding
	// similarity to the given vector meets the threshold, best first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredArticle, error)

	// FindSince returns articles published after the given time, newest first.
	FindSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error)

	Count(ctx context.Context) (int64, error)
}
