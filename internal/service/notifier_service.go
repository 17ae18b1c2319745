package service

import (
	"context"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/events"
	pktNats "github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/nats"
)

// IndexUpdateBroadcaster pushes index update notifications to connected
// websocket clients.
type IndexUpdateBroadcaster interface {
	Broadcast(payload interface{})
}

// NotifierService bridges bus events to websocket clients: when a batch of
// articles lands in the index, connected clients hear about it.
type NotifierService struct {
	subscriber *pktNats.Subscriber
	hub        IndexUpdateBroadcaster
	logger     logger.ILogger
}

func NewNotifierService(subscriber *pktNats.Subscriber, hub IndexUpdateBroadcaster, log logger.ILogger) *NotifierService {
	return &NotifierService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (s *NotifierService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("Notifier", "NATS unavailable, index notifications disabled", nil)
		return nil
	}

	return s.subscriber.Subscribe("events.article.indexed", "newsbot-notifier", func(ctx context.Context, event events.Event) error {
		s.logger.Info("Notifier", "Broadcasting index update", map[string]interface{}{"payload": event.Payload()})
		s.hub.Broadcast(event.Payload())
		return nil
	})
}
