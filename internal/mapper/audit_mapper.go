package mapper

import (
	"encoding/json"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditMapper struct{}

func NewAuditMapper() *AuditMapper {
	return &AuditMapper{}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m *AuditMapper) DecisionToModel(sessionId uuid.UUID, d *entity.DecisionRecord) *model.DecisionAudit {
	if d == nil {
		return nil
	}

	snapshot, err := json.Marshal(d)
	if err != nil {
		snapshot = nil
	}

	return &model.DecisionAudit{
		Id:                      d.Id,
		SessionId:               sessionId,
		Customer:                d.Customer,
		RiskTier:                string(d.RiskTier),
		ProposedDiscountPercent: d.ProposedDiscountPercent,
		LimitPercent:            d.LimitPercent,
		LimitSource:             string(d.LimitSource),
		Outcome:                 string(d.Outcome),
		EscalationAction:        optional(d.EscalationAction),
		FollowUpAction:          optional(d.FollowUpAction),
		Snapshot:                datatypes.JSON(snapshot),
		DecidedAt:               d.Timestamp,
	}
}

func (m *AuditMapper) DecisionToEntity(a *model.DecisionAudit) *entity.ArchivedDecision {
	if a == nil {
		return nil
	}
	return &entity.ArchivedDecision{
		SessionId: a.SessionId,
		DecisionRecord: entity.DecisionRecord{
			Id:                      a.Id,
			Customer:                a.Customer,
			RiskTier:                entity.RiskTier(a.RiskTier),
			ProposedDiscountPercent: a.ProposedDiscountPercent,
			LimitPercent:            a.LimitPercent,
			LimitSource:             entity.LimitSource(a.LimitSource),
			Outcome:                 entity.DecisionOutcome(a.Outcome),
			EscalationAction:        deref(a.EscalationAction),
			FollowUpAction:          deref(a.FollowUpAction),
			Timestamp:               a.DecidedAt,
		},
	}
}

func (m *AuditMapper) EmailToModel(sessionId uuid.UUID, e *entity.EmailRecord) *model.EmailDispatch {
	if e == nil {
		return nil
	}
	return &model.EmailDispatch{
		Id:                    e.Id,
		SessionId:             sessionId,
		RecipientCustomer:     e.RecipientCustomer,
		RecipientEmailAddress: e.RecipientEmailAddress,
		Subject:               e.Subject,
		SentAt:                e.SentAt,
	}
}

func (m *AuditMapper) EmailToEntity(d *model.EmailDispatch) *entity.ArchivedEmail {
	if d == nil {
		return nil
	}
	return &entity.ArchivedEmail{
		SessionId: d.SessionId,
		EmailRecord: entity.EmailRecord{
			Id:                    d.Id,
			RecipientCustomer:     d.RecipientCustomer,
			RecipientEmailAddress: d.RecipientEmailAddress,
			Subject:               d.Subject,
			SentAt:                d.SentAt,
		},
	}
}
