package service

import (
	"context"
	"strings"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/pkg/events"
	"cora-leaf-be/pkg/governance"
	"cora-leaf-be/pkg/policy"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
)

type IGovernanceService interface {
	Decide(ctx context.Context, sessionId uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, error)
	History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.DecisionResponse, error)
	Limit(ctx context.Context, sessionId uuid.UUID, name string) (*dto.LimitResponse, error)
}

type governanceService struct {
	sessions  SessionLocator
	engine    *governance.Engine
	publisher IPublisherService
	notifier  LiveNotifier
	logger    logger.ILogger
}

func NewGovernanceService(
	sessions SessionLocator,
	engine *governance.Engine,
	publisher IPublisherService,
	notifier LiveNotifier,
	log logger.ILogger,
) IGovernanceService {
	return &governanceService{
		sessions:  sessions,
		engine:    engine,
		publisher: publisherOrNoop(publisher),
		notifier:  notifierOrNoop(notifier),
		logger:    log,
	}
}

func (g *governanceService) Decide(ctx context.Context, sessionId uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, error) {
	if req.DiscountPercent == nil {
		return nil, entity.NewValidationError("discount_percent", "discount_percent is required")
	}

	sess, err := g.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var record entity.DecisionRecord
	err = runInput(sess, func(w *session.Workspace) error {
		customer, err := targetCustomer(w, req.Customer)
		if err != nil {
			return err
		}

		decision, err := g.engine.Evaluate(customer, *req.DiscountPercent)
		if err != nil {
			return err
		}
		record = w.Decisions.Append(*decision)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := dto.NewDecisionResponse(record)
	g.logger.Info("GOVERNANCE", "Discount evaluated", map[string]interface{}{
		"session_id": sessionId.String(),
		"customer":   record.Customer,
		"proposed":   record.ProposedDiscountPercent,
		"limit":      record.LimitPercent,
		"outcome":    record.Outcome,
	})

	event := events.New(constant.EventDecisionRecorded, sessionId.String(), toEventData(res))
	if err := g.publisher.Publish(ctx, event); err != nil {
		g.logger.Error("GOVERNANCE", "Failed to publish decision event", map[string]interface{}{
			"decision_id": record.Id.String(),
			"error":       err.Error(),
		})
	}
	g.notifier.Notify(sessionId, constant.LiveEventDecision, res)

	return &res, nil
}

func (g *governanceService) History(ctx context.Context, sessionId uuid.UUID, limit int) ([]dto.DecisionResponse, error) {
	sess, err := g.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res []dto.DecisionResponse
	err = sess.With(func(w *session.Workspace) error {
		if limit <= 0 {
			limit = w.Decisions.Len()
		}
		res = dto.NewDecisionResponses(w.Decisions.Recent(limit))
		return nil
	})
	return res, err
}

func (g *governanceService) Limit(ctx context.Context, sessionId uuid.UUID, name string) (*dto.LimitResponse, error) {
	sess, err := g.sessions.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var res dto.LimitResponse
	err = sess.With(func(w *session.Workspace) error {
		customer, err := w.Store.Get(name)
		if err != nil {
			return err
		}
		limit, err := policy.ResolveDiscountLimit(customer)
		if err != nil {
			return err
		}
		res = dto.LimitResponse{
			Customer:     customer.Name,
			RiskTier:     string(customer.RiskTier),
			LimitPercent: limit.Percent,
			Source:       string(limit.Source),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// targetCustomer resolves an explicit name, falling back to the session's
// selected customer.
func targetCustomer(w *session.Workspace, name string) (*entity.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = w.SelectedCustomer()
	}
	if name == "" {
		return nil, entity.NewValidationError("customer", "no customer given and none selected")
	}
	return w.Store.Get(name)
}
