package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5, cfg.Rag.TopK)
	assert.Equal(t, 0.6, cfg.Rag.ScoreThreshold)
	assert.Equal(t, 4000, cfg.Rag.MaxContextChars)
	assert.Equal(t, time.Hour, cfg.Rag.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Rag.SessionTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RAG_TOP_K", "8")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EMBEDDING_PROVIDER", "jina")

	cfg := Load()

	assert.Equal(t, 8, cfg.Rag.TopK)
	assert.Equal(t, 30*time.Minute, cfg.Rag.SessionTTL)
	assert.Equal(t, "jina", cfg.Ai.EmbeddingProvider)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("RAG_SCORE_THRESHOLD", "much")

	cfg := Load()

	assert.Equal(t, 5, cfg.Rag.TopK)
	assert.Equal(t, 0.6, cfg.Rag.ScoreThreshold)
}
