package service

import (
	"context"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/pkg/events"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
)

type IDispatchService interface {
	Send(ctx context.Context, sessionId uuid.UUID, req *dto.EmailRequest) (*dto.EmailResponse, error)
	History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.EmailResponse, error)
}

type dispatchService struct {
	sessions  SessionLocator
	publisher IPublisherService
	notifier  LiveNotifier
	logger    logger.ILogger
}

// NewDispatchService records sends in the session ledger. Delivery itself
// happens in the ledger's transport, which also decides whether records are
// labelled simulated.
func NewDispatchService(
	sessions SessionLocator,
	publisher IPublisherService,
	notifier LiveNotifier,
	log logger.ILogger,
) IDispatchService {
	return &dispatchService{
		sessions:  sessions,
		publisher: publisherOrNoop(publisher),
		notifier:  notifierOrNoop(notifier),
		logger:    log,
	}
}

func (d *dispatchService) Send(ctx context.Context, sessionId uuid.UUID, req *dto.EmailRequest) (*dto.EmailResponse, error) {
	sess, err := d.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var (
		record    entity.EmailRecord
		simulated bool
	)
	err = runInput(sess, func(w *session.Workspace) error {
		r, err := w.Emails.RecordSend(req.Customer, req.Subject)
		if err != nil {
			return err
		}
		record = r
		simulated = isSimulated(w.Emails.Transport())
		return nil
	})
	if err != nil {
		d.logger.Warn("DISPATCH", "Email not recorded", map[string]interface{}{
			"session_id": sessionId.String(),
			"customer":   req.Customer,
			"error":      err.Error(),
		})
		return nil, err
	}

	res := dto.NewEmailResponse(record, simulated)
	d.logger.Info("DISPATCH", "Email recorded", map[string]interface{}{
		"session_id": sessionId.String(),
		"customer":   record.RecipientCustomer,
		"recipient":  record.RecipientEmailAddress,
	})

	event := events.New(constant.EventEmailDispatched, sessionId.String(), toEventData(res))
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error("DISPATCH", "Failed to publish dispatch event", map[string]interface{}{
			"email_id": record.Id.String(),
			"error":    err.Error(),
		})
	}
	d.notifier.Notify(sessionId, constant.LiveEventEmail, res)

	return &res, nil
}

func (d *dispatchService) History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.EmailResponse, error) {
	sess, err := d.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res []dto.EmailResponse
	err = sess.With(func(w *session.Workspace) error {
		if limit <= 0 {
			limit = w.Emails.Len()
		}
		res = dto.NewEmailResponses(w.Emails.Recent(limit), isSimulated(w.Emails.Transport()))
		return nil
	})
	return res, err
}
