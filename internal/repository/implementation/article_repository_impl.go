package implementation

import (
	"context"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/entity"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/mapper"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/model"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/contract"
)

const upsertBatchSize = 100

type articleRepository struct {
	db     *gorm.DB
	mapper *mapper.ArticleMapper
}

func NewArticleRepository(db *gorm.DB) contract.ArticleRepository {
	return &articleRepository{
		db:     db,
		mapper: mapper.NewArticleMapper(),
	}
}

func (r *articleRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to enable vector extension: %w", err)
	}

	if !r.db.Migrator().HasTable(&model.Article{}) {
		if err := r.db.WithContext(ctx).AutoMigrate(&model.Article{}); err != nil {
			return fmt.Errorf("failed to migrate articles table: %w", err)
		}
	}

	err := r.db.WithContext(ctx).Exec(
		"CREATE INDEX IF NOT EXISTS idx_articles_embedding ON articles USING hnsw (embedding vector_cosine_ops)",
	).Error
	if err != nil {
		return fmt.Errorf("failed to create similarity index: %w", err)
	}

	return nil
}

func (r *articleRepository) UpsertBatch(ctx context.Context, articles []*entity.Article) error {
	if len(articles) == 0 {
		return nil
	}

	models := make([]*model.Article, 0, len(articles))
	for _, article := range articles {
		models = append(models, r.mapper.ToModel(article))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert articles: %w", err)
	}

	return nil
}

func (r *articleRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*contract.ScoredArticle, error) {
	var rows []struct {
		model.Article
		Similarity float64
	}

	vec := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Model(&model.Article{}).
		Select("*, 1 - (embedding <=> ?) AS similarity", vec).
		Where("1 - (embedding <=> ?) >= ?", vec, threshold).
		Order("similarity DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search similar articles: %w", err)
	}

	results := make([]*contract.ScoredArticle, 0, len(rows))
	for i := range rows {
		results = append(results, &contract.ScoredArticle{
			Article:    r.mapper.ToEntity(&rows[i].Article),
			Similarity: rows[i].Similarity,
		})
	}

	return results, nil
}

func (r *articleRepository) FindSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	var models []model.Article

	err := r.db.WithContext(ctx).
		Where("published_at > ?", since).
		Order("published_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent articles: %w", err)
	}

	articles := make([]*entity.Article, 0, len(models))
	for i := range models {
		articles = append(articles, r.mapper.ToEntity(&models[i]))
	}

	return articles, nil
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Article{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}
