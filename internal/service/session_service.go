package service

import (
	"context"
	"time"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/sessionstore"
)

// ISessionStore is the session persistence surface the service layer uses.
type ISessionStore interface {
	Create(ctx context.Context) (*sessionstore.Session, error)
	History(ctx context.Context, id string) (*sessionstore.Session, error)
	AppendTurn(ctx context.Context, id string, userContent string, botContent string) error
	Clear(ctx context.Context, id string) error
	TTL() time.Duration
}

type ISessionService interface {
	Create(ctx context.Context) (*dto.CreateSessionResponse, error)
	History(ctx context.Context, id string) (*dto.SessionHistoryResponse, error)
	Clear(ctx context.Context, id string) error
}

type sessionService struct {
	store ISessionStore
}

func NewSessionService(store ISessionStore) ISessionService {
	return &sessionService{store: store}
}

func (s *sessionService) Create(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session, err := s.store.Create(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Success:   true,
		SessionId: session.Id,
		ExpiresIn: int(s.store.TTL().Seconds()),
	}, nil
}

func (s *sessionService) History(ctx context.Context, id string) (*dto.SessionHistoryResponse, error) {
	session, err := s.store.History(ctx, id)
	if err != nil {
		return nil, err
	}

	history := make([]dto.SessionMessageDTO, 0, len(session.Messages))
	for _, msg := range session.Messages {
		history = append(history, dto.SessionMessageDTO{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}

	return &dto.SessionHistoryResponse{
		Success:      true,
		SessionId:    session.Id,
		History:      history,
		MessageCount: session.MessageCount,
		LastActivity: session.LastActivity,
	}, nil
}

func (s *sessionService) Clear(ctx context.Context, id string) error {
	return s.store.Clear(ctx, id)
}
