package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
)

type IPublisherService interface {
	PublishArticles(ctx context.Context, msg *dto.IngestArticlesMessage) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (p *publisherService) PublishArticles(ctx context.Context, msg *dto.IngestArticlesMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.pubSub.Publish(p.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
