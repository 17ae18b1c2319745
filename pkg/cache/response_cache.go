package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
)

// Source identifies an article that contributed to a cached answer.
type Source struct {
	Title string `json:"title"`
	Url   string `json:"url"`
}

// CachedAnswer is the value stored per normalized query. It is overwritten
// wholesale on re-cache, never updated in place.
type CachedAnswer struct {
	Answer   string    `json:"answer"`
	Sources  []Source  `json:"sources"`
	CachedAt time.Time `json:"cachedAt"`
}

// ResponseCache is an advisory cache over Redis with an in-process fallback
// tier. Keys are global (query-scoped, not session-scoped): the corpus is
// shared news, so identical questions from different users may share answers.
// Any read or write failure degrades to a miss and never surfaces to callers.
type ResponseCache struct {
	rdb    *redis.Client
	local  *gocache.Cache
	ttl    time.Duration
	logger logger.ILogger
}

func NewResponseCache(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *ResponseCache {
	return &ResponseCache{
		rdb:    rdb,
		local:  gocache.New(ttl, 10*time.Minute),
		ttl:    ttl,
		logger: log,
	}
}

// NormalizeQuery lowercases, trims and collapses whitespace so that
// "Ukraine War?" and " ukraine   war? " share one cache entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(query))), " ")
}

// Key derives a Redis-safe key from the normalized query. Hashing keeps keys
// bounded and free of control characters regardless of query content.
func Key(normalizedQuery string) string {
	sum := sha256.Sum256([]byte(normalizedQuery))
	return "query:" + hex.EncodeToString(sum[:])
}

func (c *ResponseCache) Get(ctx context.Context, query string) (*CachedAnswer, bool) {
	key := Key(NormalizeQuery(query))

	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			var answer CachedAnswer
			if err := json.Unmarshal([]byte(raw), &answer); err == nil {
				return &answer, true
			}
			c.logger.Warn("ResponseCache", "Corrupt cache entry, treating as miss", map[string]interface{}{"key": key, "error": err.Error()})
		} else if err != redis.Nil {
			c.logger.Warn("ResponseCache", "Redis read failed, falling back to local tier", map[string]interface{}{"error": err.Error()})
		}
	}

	if x, found := c.local.Get(key); found {
		if answer, ok := x.(*CachedAnswer); ok {
			return answer, true
		}
	}

	return nil, false
}

func (c *ResponseCache) Set(ctx context.Context, query string, answer *CachedAnswer) {
	key := Key(NormalizeQuery(query))

	c.local.Set(key, answer, c.ttl)

	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(answer)
	if err != nil {
		c.logger.Warn("ResponseCache", "Failed to marshal answer for caching", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("ResponseCache", "Redis write failed, entry kept in local tier only", map[string]interface{}{"error": err.Error()})
	}
}

func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}
