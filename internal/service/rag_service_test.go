package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/config"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/entity"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/contract"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/cache"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/gateway"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/sessionstore"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

func (f *fakeEmbedder) GenerateBatch(texts []string, taskType string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type fakeArticleRepo struct {
	hits        []*contract.ScoredArticle
	searchErr   error
	searchCalls int
}

func (f *fakeArticleRepo) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeArticleRepo) UpsertBatch(ctx context.Context, articles []*entity.Article) error {
	return nil
}

func (f *fakeArticleRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, threshold float64) ([]*contract.ScoredArticle, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if limit < len(f.hits) {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

func (f *fakeArticleRepo) FindSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	return nil, nil
}

func (f *fakeArticleRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

type fakeGenerator struct {
	text      string
	deltas    []string
	streamErr error
	calls     int
	lastInput string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, options ...llm.Option) string {
	f.calls++
	f.lastInput = prompt
	return f.text
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, prompt string, onDelta func(string) error, options ...llm.Option) (string, error) {
	f.calls++
	f.lastInput = prompt
	var full strings.Builder
	for _, d := range f.deltas {
		full.WriteString(d)
		_ = onDelta(d)
	}
	return full.String(), f.streamErr
}

type fakeCache struct {
	entries map[string]*cache.CachedAnswer
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*cache.CachedAnswer{}}
}

func (f *fakeCache) Get(ctx context.Context, query string) (*cache.CachedAnswer, bool) {
	answer, ok := f.entries[cache.NormalizeQuery(query)]
	return answer, ok
}

func (f *fakeCache) Set(ctx context.Context, query string, answer *cache.CachedAnswer) {
	f.sets++
	f.entries[cache.NormalizeQuery(query)] = answer
}

type fakeSessions struct {
	err   error
	turns [][2]string
}

func (f *fakeSessions) AppendTurn(ctx context.Context, id string, userContent string, botContent string) error {
	if f.err != nil {
		return f.err
	}
	f.turns = append(f.turns, [2]string{userContent, botContent})
	return nil
}

func testRagConfig() config.RagConfig {
	return config.RagConfig{
		TopK:            5,
		ScoreThreshold:  0.6,
		MaxContextChars: 4000,
	}
}

func scoredArticle(title, url string, score float64) *contract.ScoredArticle {
	return &contract.ScoredArticle{
		Article: &entity.Article{
			Id:          uuid.New(),
			Title:       title,
			Summary:     "Summary of " + title,
			Url:         url,
			Source:      "Reuters",
			PublishedAt: time.Now(),
		},
		Similarity: score,
	}
}

func TestAnswer_HappyPath(t *testing.T) {
	repo := &fakeArticleRepo{hits: []*contract.ScoredArticle{
		scoredArticle("Ceasefire talks resume", "https://example.com/a", 0.91),
		scoredArticle("Markets rally on rate cut", "https://example.com/b", 0.74),
	}}
	gen := &fakeGenerator{text: "Talks resumed this week."}
	respCache := newFakeCache()
	sessions := &fakeSessions{}

	svc := NewRagService(repo, &fakeEmbedder{}, gen, respCache, sessions, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "What about the ceasefire?", 0)
	require.NoError(t, err)

	assert.Equal(t, "Talks resumed this week.", res.Answer)
	assert.True(t, res.HasRelevantContext)
	assert.False(t, res.FromCache)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "Ceasefire talks resume", res.Sources[0].Title)

	// Prompt carries the retrieved articles.
	assert.Contains(t, gen.lastInput, "Ceasefire talks resume")
	assert.Contains(t, gen.lastInput, "What about the ceasefire?")

	// Answer is cached and the turn lands in the session.
	assert.Equal(t, 1, respCache.sets)
	require.Len(t, sessions.turns, 1)
	assert.Equal(t, "What about the ceasefire?", sessions.turns[0][0])
	assert.Equal(t, "Talks resumed this week.", sessions.turns[0][1])
}

func TestAnswer_CacheHitSkipsPipeline(t *testing.T) {
	embedder := &fakeEmbedder{}
	gen := &fakeGenerator{text: "should never be called"}
	respCache := newFakeCache()
	sessions := &fakeSessions{}

	respCache.Set(context.Background(), "latest election results", &cache.CachedAnswer{
		Answer:  "The count finished overnight.",
		Sources: []cache.Source{{Title: "Final tally in", Url: "https://example.com/tally"}},
	})
	respCache.sets = 0

	svc := NewRagService(&fakeArticleRepo{}, embedder, gen, respCache, sessions, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "  Latest   ELECTION results ", 0)
	require.NoError(t, err)

	assert.True(t, res.FromCache)
	assert.Equal(t, "The count finished overnight.", res.Answer)
	assert.True(t, res.HasRelevantContext)

	assert.Equal(t, 0, embedder.calls)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, respCache.sets)
	assert.Empty(t, sessions.turns)
}

func TestAnswer_NoHitsSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{text: "should never be called"}
	respCache := newFakeCache()
	sessions := &fakeSessions{}

	svc := NewRagService(&fakeArticleRepo{}, &fakeEmbedder{}, gen, respCache, sessions, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "quantum basket weaving news", 0)
	require.NoError(t, err)

	assert.Equal(t, NoContextAnswerMessage, res.Answer)
	assert.False(t, res.HasRelevantContext)
	assert.Empty(t, res.Sources)
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, respCache.sets)
	require.Len(t, sessions.turns, 1)
}

func TestAnswer_EmbeddingFailureDegrades(t *testing.T) {
	repo := &fakeArticleRepo{}
	svc := NewRagService(repo, &fakeEmbedder{err: errors.New("upstream down")}, &fakeGenerator{}, newFakeCache(), &fakeSessions{}, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "anything", 0)
	require.NoError(t, err)

	assert.Equal(t, DegradedAnswerMessage, res.Answer)
	assert.False(t, res.HasRelevantContext)
	assert.Equal(t, 0, repo.searchCalls)
}

func TestAnswer_RetrievalFailureDegrades(t *testing.T) {
	repo := &fakeArticleRepo{searchErr: errors.New("db gone")}
	gen := &fakeGenerator{}
	svc := NewRagService(repo, &fakeEmbedder{}, gen, newFakeCache(), &fakeSessions{}, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "anything", 0)
	require.NoError(t, err)

	assert.Equal(t, DegradedAnswerMessage, res.Answer)
	assert.Equal(t, 0, gen.calls)
}

func TestAnswer_ExpiredSessionAppendIsSwallowed(t *testing.T) {
	repo := &fakeArticleRepo{hits: []*contract.ScoredArticle{scoredArticle("A story", "https://example.com/a", 0.8)}}
	sessions := &fakeSessions{err: sessionstore.ErrSessionNotFound}

	svc := NewRagService(repo, &fakeEmbedder{}, &fakeGenerator{text: "fine"}, newFakeCache(), sessions, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "gone-session", "a question", 0)
	require.NoError(t, err)
	assert.Equal(t, "fine", res.Answer)
}

func TestAnswer_ApologyIsNotCached(t *testing.T) {
	repo := &fakeArticleRepo{hits: []*contract.ScoredArticle{scoredArticle("A story", "https://example.com/a", 0.8)}}
	respCache := newFakeCache()

	svc := NewRagService(repo, &fakeEmbedder{}, &fakeGenerator{text: gateway.ApologyMessage}, respCache, &fakeSessions{}, testRagConfig(), nopLogger{})

	res, err := svc.Answer(context.Background(), "sess-1", "a question", 0)
	require.NoError(t, err)

	assert.Equal(t, gateway.ApologyMessage, res.Answer)
	assert.Equal(t, 0, respCache.sets)
}

func TestAnswerStream_MatchesSyncAnswer(t *testing.T) {
	repo := &fakeArticleRepo{hits: []*contract.ScoredArticle{scoredArticle("A story", "https://example.com/a", 0.8)}}
	gen := &fakeGenerator{deltas: []string{"The ", "talks ", "resumed."}}
	respCache := newFakeCache()
	sessions := &fakeSessions{}

	svc := NewRagService(repo, &fakeEmbedder{}, gen, respCache, sessions, testRagConfig(), nopLogger{})

	var received []string
	res, err := svc.AnswerStream(context.Background(), "sess-1", "a question", 0, func(frag string) error {
		received = append(received, frag)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "The talks resumed.", res.Answer)
	assert.Equal(t, res.Answer, strings.Join(received, ""))
	assert.Equal(t, 1, respCache.sets)
	require.Len(t, sessions.turns, 1)
	assert.Equal(t, "The talks resumed.", sessions.turns[0][1])
}

func TestAnswerStream_ClientGoneStillPersists(t *testing.T) {
	repo := &fakeArticleRepo{hits: []*contract.ScoredArticle{scoredArticle("A story", "https://example.com/a", 0.8)}}
	gen := &fakeGenerator{deltas: []string{"part one ", "part two ", "part three"}}
	respCache := newFakeCache()
	sessions := &fakeSessions{}

	svc := NewRagService(repo, &fakeEmbedder{}, gen, respCache, sessions, testRagConfig(), nopLogger{})

	delivered := 0
	res, err := svc.AnswerStream(context.Background(), "sess-1", "a question", 0, func(frag string) error {
		delivered++
		if delivered >= 1 {
			return errors.New("connection reset")
		}
		return nil
	})
	require.NoError(t, err)

	// Only the first fragment reached the client, but the full answer was
	// drained, cached and appended.
	assert.Equal(t, 1, delivered)
	assert.Equal(t, "part one part two part three", res.Answer)
	assert.Equal(t, 1, respCache.sets)
	require.Len(t, sessions.turns, 1)
	assert.Equal(t, "part one part two part three", sessions.turns[0][1])
}

func TestAnswerStream_CachedAnswerSentAsSingleFragment(t *testing.T) {
	respCache := newFakeCache()
	respCache.entries[cache.NormalizeQuery("cached question")] = &cache.CachedAnswer{
		Answer:  "cached text",
		Sources: []cache.Source{{Title: "T", Url: "https://example.com"}},
	}

	svc := NewRagService(&fakeArticleRepo{}, &fakeEmbedder{}, &fakeGenerator{}, respCache, &fakeSessions{}, testRagConfig(), nopLogger{})

	var received []string
	res, err := svc.AnswerStream(context.Background(), "sess-1", "cached question", 0, func(frag string) error {
		received = append(received, frag)
		return nil
	})
	require.NoError(t, err)

	assert.True(t, res.FromCache)
	assert.Equal(t, []string{"cached text"}, received)
}
