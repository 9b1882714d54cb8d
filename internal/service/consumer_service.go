package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/specification"
	"doc-qa-be/internal/repository/unitofwork"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage removes every chat session (and its messages) owned by the
// deleted document. Ack on unmarshal failure to prevent infinite redelivery.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.DocumentCleanupMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal cleanup message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	cs.logger.Info("consumer", "cleaning up sessions for deleted document", map[string]interface{}{
		"document_id": payload.DocumentId,
	})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.OwnedByDocument{DocumentID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("consumer", "failed to list sessions for cleanup", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("consumer", "failed to begin cleanup transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	for _, session := range sessions {
		if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
			cs.logger.Error("consumer", "failed to delete session messages", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
			msg.Nack()
			return
		}
		if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
			cs.logger.Error("consumer", "failed to delete session", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("consumer", "failed to commit cleanup transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "session cleanup complete", map[string]interface{}{
		"document_id":      payload.DocumentId,
		"sessions_removed": len(sessions),
	})
	msg.Ack()
}
