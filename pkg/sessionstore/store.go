package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
)

// ErrSessionNotFound is returned when a session id is absent or its TTL has
// expired. Callers on the chat path treat this as best-effort and drop the
// update; only the direct session routes surface it as a 404.
var ErrSessionNotFound = errors.New("session not found")

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

type Message struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the single source of truth for conversational state. The
// orchestrator and transports hold nothing beyond the id.
type Session struct {
	Id           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"messageCount"`
}

// RedisClient is the narrow command surface the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Store keeps sessions in Redis under session:<id> with a sliding TTL:
// every mutation re-applies the full TTL. Expiry is delegated to Redis.
type Store struct {
	rdb    RedisClient
	ttl    time.Duration
	logger logger.ILogger
}

func New(rdb RedisClient, ttl time.Duration, log logger.ILogger) *Store {
	return &Store{
		rdb:    rdb,
		ttl:    ttl,
		logger: log,
	}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *Store) Create(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		Id:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
		Messages:     []Message{},
		MessageCount: 0,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// History returns the full ordered message list and metadata.
func (s *Store) History(ctx context.Context, id string) (*Session, error) {
	return s.load(ctx, id)
}

// AppendTurn appends a user message and, when botContent is non-empty, a bot
// message. Updates are read-modify-write without locking: concurrent turns on
// one session may race and the later write wins (accepted, history is
// advisory context, not an audit log).
func (s *Store) AppendTurn(ctx context.Context, id string, userContent string, botContent string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	session.appendTurn(userContent, botContent, time.Now().UTC())

	return s.save(ctx, session)
}

// Clear resets the message list to empty while keeping the same id and TTL
// policy.
func (s *Store) Clear(ctx context.Context, id string) error {
	session, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	session.Messages = []Message{}
	session.MessageCount = 0
	session.LastActivity = time.Now().UTC()

	return s.save(ctx, session)
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) load(ctx context.Context, id string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn("SessionStore", "Corrupt session payload", map[string]interface{}{"session_id": id, "error": err.Error()})
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *Store) save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.Id, err)
	}

	// Full TTL on every write: sliding expiry, not fixed.
	return s.rdb.Set(ctx, sessionKey(session.Id), raw, s.ttl).Err()
}

func (sess *Session) appendTurn(userContent, botContent string, now time.Time) {
	sess.Messages = append(sess.Messages, Message{
		Id:        uuid.NewString(),
		Role:      RoleUser,
		Content:   userContent,
		Timestamp: now,
	})
	if botContent != "" {
		sess.Messages = append(sess.Messages, Message{
			Id:        uuid.NewString(),
			Role:      RoleBot,
			Content:   botContent,
			Timestamp: now,
		})
	}
	sess.MessageCount = len(sess.Messages)
	sess.LastActivity = now
}
