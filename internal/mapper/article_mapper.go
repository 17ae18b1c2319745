package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/entity"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/model"
)

type ArticleMapper struct{}

func NewArticleMapper() *ArticleMapper {
	return &ArticleMapper{}
}

func (m *ArticleMapper) ToModel(e *entity.Article) *model.Article {
	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Article{
		Id:          e.Id,
		Title:       e.Title,
		Summary:     e.Summary,
		Content:     e.Content,
		Url:         e.Url,
		Source:      e.Source,
		PublishedAt: e.PublishedAt,
		Embedding:   pgvector.NewVector(e.Embedding),
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (m *ArticleMapper) ToEntity(mod *model.Article) *entity.Article {
	var metadata map[string]interface{}
	if len(mod.Metadata) > 0 {
		_ = json.Unmarshal(mod.Metadata, &metadata)
	}

	return &entity.Article{
		Id:          mod.Id,
		Title:       mod.Title,
		Summary:     mod.Summary,
		Content:     mod.Content,
		Url:         mod.Url,
		Source:      mod.Source,
		PublishedAt: mod.PublishedAt,
		Embedding:   mod.Embedding.Slice(),
		Metadata:    metadata,
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   mod.UpdatedAt,
	}
}
