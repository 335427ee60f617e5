package service

import (
	"context"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/repository/contract"
	"cora-leaf-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// EventForwarder relays audit events off the process. *nats.Publisher
// satisfies it.
type EventForwarder interface {
	Publish(ctx context.Context, event events.BaseEvent) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	auditLog   logger.ILogger
	archive    contract.AuditRepository
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService drains the audit bus. archive and forwarder are
// optional.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditLog logger.ILogger,
	archive contract.AuditRepository,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		auditLog:   auditLog,
		archive:    archive,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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

// processMessage always acks: the in-memory bus redelivers a nacked message
// immediately, and a failing archive would spin forever.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal audit event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.auditLog.Info("AUDIT", event.Type, event.Payload())

	if cs.archive != nil {
		if err := cs.archiveEvent(ctx, event); err != nil {
			cs.logger.Error("CONSUMER", "Failed to archive audit event", map[string]interface{}{
				"type":       event.Type,
				"session_id": event.SessionId,
				"error":      err.Error(),
			})
		}
	}

	if cs.forwarder != nil {
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to forward audit event", map[string]interface{}{
				"type":  event.Type,
				"error": err.Error(),
			})
		}
	}
}

func (cs *consumerService) archiveEvent(ctx context.Context, event events.BaseEvent) error {
	sessionId, err := uuid.Parse(event.SessionId)
	if err != nil {
		return err
	}

	switch event.Type {
	case constant.EventDecisionRecorded:
		var payload dto.DecisionResponse
		if err := fromEventData(event.Data, &payload); err != nil {
			return err
		}
		record := payload.ToEntity()
		return cs.archive.SaveDecision(ctx, sessionId, &record)

	case constant.EventEmailDispatched:
		var payload dto.EmailResponse
		if err := fromEventData(event.Data, &payload); err != nil {
			return err
		}
		record := payload.ToEntity()
		return cs.archive.SaveEmail(ctx, sessionId, &record)

	default:
		cs.logger.Warn("CONSUMER", "Unknown audit event type", map[string]interface{}{"type": event.Type})
		return nil
	}
}
