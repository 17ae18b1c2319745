package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/entity"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/contract"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/events"
	pktNats "github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/nats"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/utils"
)

// Articles embed title + summary + a bounded content excerpt as one vector.
const embedExcerptChars = 1500

type IIngestService interface {
	// Consume starts draining the ingestion topic in the background.
	Consume(ctx context.Context) error

	// StoreArticles embeds and upserts a batch synchronously. Returns the
	// number of articles indexed. The whole batch fails together so the
	// vector store never holds half-embedded input.
	StoreArticles(ctx context.Context, articles []dto.ArticlePayload) (int, error)
}

type ingestService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	articleRepo       contract.ArticleRepository
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewIngestService(
	pubSub *gochannel.GoChannel,
	topicName string,
	articleRepo contract.ArticleRepository,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) IIngestService {
	return &ingestService{
		pubSub:            pubSub,
		topicName:         topicName,
		articleRepo:       articleRepo,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestArticlesMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing ingest batch of %d articles", len(payload.Articles))

	count, err := s.StoreArticles(ctx, payload.Articles)
	if err != nil {
		log.Printf("[ERROR] Failed to store article batch: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	log.Printf("[SUCCESS] Indexed %d articles", count)
	msg.Ack()
}

func (s *ingestService) StoreArticles(ctx context.Context, payloads []dto.ArticlePayload) (int, error) {
	if len(payloads) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(payloads))
	for _, p := range payloads {
		texts = append(texts, embedText(p))
	}

	vectors, err := s.embeddingProvider.GenerateBatch(texts, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	articles := make([]*entity.Article, 0, len(payloads))
	sources := map[string]struct{}{}
	for i, p := range payloads {
		id := uuid.New()
		if parsed, err := uuid.Parse(p.Id); err == nil {
			id = parsed
		}

		publishedAt := p.PublishedAt
		if publishedAt.IsZero() {
			publishedAt = now
		}

		articles = append(articles, &entity.Article{
			Id:          id,
			Title:       p.Title,
			Summary:     p.Summary,
			Content:     p.Content,
			Url:         p.Url,
			Source:      p.Source,
			PublishedAt: publishedAt,
			Embedding:   vectors[i],
			Metadata:    p.Metadata,
			CreatedAt:   now,
		})

		if p.Source != "" {
			sources[p.Source] = struct{}{}
		}
	}

	if err := s.articleRepo.UpsertBatch(ctx, articles); err != nil {
		return 0, err
	}

	s.publishIndexed(ctx, len(articles), sources)

	return len(articles), nil
}

func (s *ingestService) publishIndexed(ctx context.Context, count int, sources map[string]struct{}) {
	if s.eventPublisher == nil {
		return
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}

	evt := events.NewArticlesIndexed(count, names)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish indexed event: %v", err)
	}
}

func embedText(p dto.ArticlePayload) string {
	text := p.Title
	if p.Summary != "" {
		text += "\n\n" + p.Summary
	}
	if p.Content != "" {
		text += "\n\n" + utils.Excerpt(p.Content, embedExcerptChars)
	}
	return text
}
