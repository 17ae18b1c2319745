package service

import (
	"context"
	"time"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/config"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/contract"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/cache"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/gateway"
	ragcontext "github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/rag/context"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/rag/prompt"
)

// NoContextAnswerMessage is returned when retrieval finds nothing above the
// similarity threshold. Generation is skipped entirely in that case.
const NoContextAnswerMessage = "I couldn't find any relevant information about that in the indexed news articles. Try asking about recent events covered by the news feeds."

// DegradedAnswerMessage is returned when embedding or retrieval itself fails.
// The chat endpoint never propagates those failures as transport errors.
const DegradedAnswerMessage = "Sorry, something went wrong while processing your question. Please try again."

const maxTopK = 20

// IResponseCache is the answer cache as the orchestrator sees it: advisory,
// never failing.
type IResponseCache interface {
	Get(ctx context.Context, query string) (*cache.CachedAnswer, bool)
	Set(ctx context.Context, query string, answer *cache.CachedAnswer)
}

// IGenerator produces model text. Generate always resolves to text; streaming
// may truncate but still reports the accumulated prefix.
type IGenerator interface {
	Generate(ctx context.Context, prompt string, options ...llm.Option) string
	GenerateStream(ctx context.Context, prompt string, onDelta func(string) error, options ...llm.Option) (string, error)
}

// ISessionAppender is the slice of the session store the chat path needs.
type ISessionAppender interface {
	AppendTurn(ctx context.Context, id string, userContent string, botContent string) error
}

type IRagService interface {
	// Answer runs the full retrieval-augmented pipeline for one user message
	// and returns the complete answer.
	Answer(ctx context.Context, sessionId string, message string, topK int) (*dto.ChatAnswerDTO, error)

	// AnswerStream runs the same pipeline but forwards generated fragments to
	// onFragment as they arrive. The returned DTO carries the full accumulated
	// answer. A failing onFragment stops forwarding but not generation, so the
	// final answer is still cached and appended to the session.
	AnswerStream(ctx context.Context, sessionId string, message string, topK int, onFragment func(string) error) (*dto.ChatAnswerDTO, error)
}

type ragService struct {
	articleRepo contract.ArticleRepository
	embedder    embedding.EmbeddingProvider
	generator   IGenerator
	respCache   IResponseCache
	sessions    ISessionAppender
	cfg         config.RagConfig
	logger      logger.ILogger
}

func NewRagService(
	articleRepo contract.ArticleRepository,
	embedder embedding.EmbeddingProvider,
	generator IGenerator,
	respCache IResponseCache,
	sessions ISessionAppender,
	cfg config.RagConfig,
	log logger.ILogger,
) IRagService {
	return &ragService{
		articleRepo: articleRepo,
		embedder:    embedder,
		generator:   generator,
		respCache:   respCache,
		sessions:    sessions,
		cfg:         cfg,
		logger:      log,
	}
}

// preparedTurn is the outcome of the shared pre-generation pipeline. When
// shortCircuit is set the turn is already resolved and no model call happens.
type preparedTurn struct {
	shortCircuit  *dto.ChatAnswerDTO
	appendSession bool
	prompt        string
	sources       []dto.SourceDTO
}

func (s *ragService) Answer(ctx context.Context, sessionId string, message string, topK int) (*dto.ChatAnswerDTO, error) {
	turn := s.prepare(ctx, message, topK)
	if turn.shortCircuit != nil {
		if turn.appendSession {
			s.appendTurn(ctx, sessionId, message, turn.shortCircuit.Answer)
		}
		return turn.shortCircuit, nil
	}

	answer := s.generator.Generate(ctx, turn.prompt)

	s.finishTurn(ctx, sessionId, message, answer, turn.sources)

	return &dto.ChatAnswerDTO{
		Answer:             answer,
		Sources:            turn.sources,
		HasRelevantContext: true,
		FromCache:          false,
	}, nil
}

func (s *ragService) AnswerStream(ctx context.Context, sessionId string, message string, topK int, onFragment func(string) error) (*dto.ChatAnswerDTO, error) {
	turn := s.prepare(ctx, message, topK)
	if turn.shortCircuit != nil {
		// Fixed answers are delivered as a single fragment.
		_ = onFragment(turn.shortCircuit.Answer)
		if turn.appendSession {
			s.appendTurn(ctx, sessionId, message, turn.shortCircuit.Answer)
		}
		return turn.shortCircuit, nil
	}

	// Once onFragment fails (client gone) fragments are dropped, but the
	// model stream is drained so the full answer can still be persisted.
	clientGone := false
	answer, err := s.generator.GenerateStream(ctx, turn.prompt, func(delta string) error {
		if clientGone {
			return nil
		}
		if ferr := onFragment(delta); ferr != nil {
			clientGone = true
			s.logger.Warn("RagService", "Client left mid-stream, draining generation", map[string]interface{}{"session_id": sessionId})
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("RagService", "Generation stream truncated", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}

	if answer == "" {
		answer = gateway.ApologyMessage
		if !clientGone {
			_ = onFragment(answer)
		}
	}

	s.finishTurn(ctx, sessionId, message, answer, turn.sources)

	return &dto.ChatAnswerDTO{
		Answer:             answer,
		Sources:            turn.sources,
		HasRelevantContext: true,
		FromCache:          false,
	}, nil
}

// prepare runs the steps shared by both entry points: cache lookup, query
// embedding, similarity search and prompt assembly.
func (s *ragService) prepare(ctx context.Context, message string, topK int) *preparedTurn {
	if topK <= 0 {
		topK = s.cfg.TopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	if cached, hit := s.respCache.Get(ctx, message); hit {
		s.logger.Debug("RagService", "Cache hit", map[string]interface{}{"query": cache.NormalizeQuery(message)})
		return &preparedTurn{
			shortCircuit: &dto.ChatAnswerDTO{
				Answer:             cached.Answer,
				Sources:            toSourceDTOs(cached.Sources),
				HasRelevantContext: len(cached.Sources) > 0,
				FromCache:          true,
			},
		}
	}

	embedResp, err := s.embedder.Generate(message, "RETRIEVAL_QUERY")
	if err != nil {
		s.logger.Error("RagService", "Query embedding failed", map[string]interface{}{"error": err.Error()})
		return &preparedTurn{
			shortCircuit:  degradedAnswer(),
			appendSession: true,
		}
	}

	hits, err := s.articleRepo.SearchSimilarWithScore(ctx, embedResp.Embedding.Values, topK, s.cfg.ScoreThreshold)
	if err != nil {
		s.logger.Error("RagService", "Similarity search failed", map[string]interface{}{"error": err.Error()})
		return &preparedTurn{
			shortCircuit:  degradedAnswer(),
			appendSession: true,
		}
	}

	if len(hits) == 0 {
		return &preparedTurn{
			shortCircuit: &dto.ChatAnswerDTO{
				Answer:             NoContextAnswerMessage,
				Sources:            []dto.SourceDTO{},
				HasRelevantContext: false,
				FromCache:          false,
			},
			appendSession: true,
		}
	}

	docs := make([]ragcontext.Document, 0, len(hits))
	sources := make([]dto.SourceDTO, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, ragcontext.Document{
			ID:          hit.Article.Id.String(),
			Title:       hit.Article.Title,
			Summary:     hit.Article.Summary,
			Url:         hit.Article.Url,
			Source:      hit.Article.Source,
			PublishedAt: hit.Article.PublishedAt.Format(time.RFC3339),
			Score:       hit.Similarity,
		})
		sources = append(sources, dto.SourceDTO{
			Title: hit.Article.Title,
			Url:   hit.Article.Url,
		})
	}

	contextBlock := ragcontext.Build(docs, s.cfg.MaxContextChars)
	groundedPrompt := prompt.NewGroundedBuilder(message, contextBlock).Build()

	return &preparedTurn{
		prompt:  groundedPrompt,
		sources: sources,
	}
}

// finishTurn caches the generated answer and appends the turn to the session.
// Apologies are never cached so a transient model outage does not poison the
// cache for an hour.
func (s *ragService) finishTurn(ctx context.Context, sessionId string, message string, answer string, sources []dto.SourceDTO) {
	if answer != gateway.ApologyMessage {
		s.respCache.Set(ctx, message, &cache.CachedAnswer{
			Answer:   answer,
			Sources:  toCacheSources(sources),
			CachedAt: time.Now().UTC(),
		})
	}

	s.appendTurn(ctx, sessionId, message, answer)
}

func (s *ragService) appendTurn(ctx context.Context, sessionId string, userContent string, botContent string) {
	if err := s.sessions.AppendTurn(ctx, sessionId, userContent, botContent); err != nil {
		s.logger.Warn("RagService", "Session append skipped", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
}

func degradedAnswer() *dto.ChatAnswerDTO {
	return &dto.ChatAnswerDTO{
		Answer:             DegradedAnswerMessage,
		Sources:            []dto.SourceDTO{},
		HasRelevantContext: false,
		FromCache:          false,
	}
}

func toSourceDTOs(sources []cache.Source) []dto.SourceDTO {
	out := make([]dto.SourceDTO, 0, len(sources))
	for _, s := range sources {
		out = append(out, dto.SourceDTO{Title: s.Title, Url: s.Url})
	}
	return out
}

func toCacheSources(sources []dto.SourceDTO) []cache.Source {
	out := make([]cache.Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, cache.Source{Title: s.Title, Url: s.Url})
	}
	return out
}
