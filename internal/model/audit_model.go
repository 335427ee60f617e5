package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DecisionAudit is the durable copy of one governance decision.
type DecisionAudit struct {
	Id                      uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId               uuid.UUID      `gorm:"type:uuid;not null;index:idx_decision_audits_session_decided,priority:1"`
	Customer                string         `gorm:"type:varchar(200);not null;index"`
	RiskTier                string         `gorm:"type:varchar(20)"`
	ProposedDiscountPercent int            `gorm:"not null"`
	LimitPercent            int            `gorm:"not null"`
	LimitSource             string         `gorm:"type:varchar(20);not null"`
	Outcome                 string         `gorm:"type:varchar(20);not null;index"`
	EscalationAction        *string        `gorm:"type:text"`
	FollowUpAction          *string        `gorm:"type:text"`
	Snapshot                datatypes.JSON `gorm:"type:jsonb"`
	DecidedAt               time.Time      `gorm:"not null;index:idx_decision_audits_session_decided,priority:2"`
	CreatedAt               time.Time      `gorm:"default:now();not null"`
}

func (DecisionAudit) TableName() string {
	return "decision_audits"
}

type EmailDispatch struct {
	Id                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId             uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipientCustomer     string    `gorm:"type:varchar(200);not null;index"`
	RecipientEmailAddress string    `gorm:"type:varchar(320);not null"`
	Subject               string    `gorm:"type:text;not null"`
	SentAt                time.Time `gorm:"not null"`
	CreatedAt             time.Time `gorm:"default:now();not null"`
}

func (EmailDispatch) TableName() string {
	return "email_dispatches"
}
