package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Ukraine War?", "ukraine war?"},
		{"trim", "  ukraine war?  ", "ukraine war?"},
		{"collapse inner whitespace", "ukraine \t  war?", "ukraine war?"},
		{"mixed", " Ukraine   WAR? ", "ukraine war?"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeQuery(tt.input))
		})
	}
}

func TestKeyIsStableAndStoreSafe(t *testing.T) {
	k1 := Key(NormalizeQuery("Ukraine War?"))
	k2 := Key(NormalizeQuery(" ukraine   war? "))
	k3 := Key(NormalizeQuery("something else"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "query:")
	// sha256 hex digest after the prefix
	assert.Len(t, k1, len("query:")+64)
}

func TestLocalTierServesWhenRedisAbsent(t *testing.T) {
	c := NewResponseCache(nil, time.Hour, nopLogger{})
	ctx := context.Background()

	_, found := c.Get(ctx, "latest tech news")
	assert.False(t, found)

	c.Set(ctx, "Latest  Tech News", &CachedAnswer{
		Answer:   "a roundup",
		Sources:  []Source{{Title: "t", Url: "u"}},
		CachedAt: time.Now(),
	})

	// Differently-cased, differently-spaced query hits the same entry.
	got, found := c.Get(ctx, "  latest tech NEWS ")
	assert.True(t, found)
	assert.Equal(t, "a roundup", got.Answer)
	assert.Len(t, got.Sources, 1)
}
