package governance

import (
	"time"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/policy"
)

// Engine checks a proposed discount against a customer's resolved ceiling.
// It performs no I/O and never records its own decisions.
type Engine struct {
	escalationAction string
	followUpAction   string
	now              func() time.Time
}

type Option func(*Engine)

func WithEscalationAction(text string) Option {
	return func(e *Engine) {
		if text != "" {
			e.escalationAction = text
		}
	}
}

func WithFollowUpAction(text string) Option {
	return func(e *Engine) {
		if text != "" {
			e.followUpAction = text
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		escalationAction: constant.DefaultEscalationAction,
		followUpAction:   constant.DefaultFollowUpAction,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate approves when proposed <= limit. The boundary is approved.
func (e *Engine) Evaluate(customer *entity.Customer, proposedDiscountPercent int) (*entity.DecisionRecord, error) {
	if proposedDiscountPercent < 0 || proposedDiscountPercent > 100 {
		return nil, entity.NewValidationError("discount_percent", "proposed discount must be between 0 and 100")
	}

	limit, err := policy.ResolveDiscountLimit(customer)
	if err != nil {
		return nil, err
	}

	record := &entity.DecisionRecord{
		Customer:                customer.Name,
		RiskTier:                customer.RiskTier,
		ProposedDiscountPercent: proposedDiscountPercent,
		LimitPercent:            limit.Percent,
		LimitSource:             limit.Source,
		Timestamp:               e.now(),
	}

	if proposedDiscountPercent > limit.Percent {
		record.Outcome = entity.DecisionRejected
		record.EscalationAction = e.escalationAction
	} else {
		record.Outcome = entity.DecisionApproved
		record.FollowUpAction = e.followUpAction
	}

	return record, nil
}
