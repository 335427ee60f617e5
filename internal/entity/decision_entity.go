package entity

import (
	"time"

	"github.com/google/uuid"
)

type DecisionOutcome string

const (
	DecisionApproved DecisionOutcome = "Approved"
	DecisionRejected DecisionOutcome = "Rejected"
)

type LimitSource string

const (
	LimitSourceExplicit LimitSource = "explicit"
	LimitSourceRiskTier LimitSource = "risk_tier"
)

// DecisionRecord is produced by the governance engine. Id stays uuid.Nil
// until the record is appended to a decision log.
type DecisionRecord struct {
	Id                      uuid.UUID
	Customer                string
	RiskTier                RiskTier
	ProposedDiscountPercent int
	LimitPercent            int
	LimitSource             LimitSource
	Outcome                 DecisionOutcome
	EscalationAction        string
	FollowUpAction          string
	Timestamp               time.Time
}

func (d DecisionRecord) Approved() bool {
	return d.Outcome == DecisionApproved
}

// ArchivedDecision is a DecisionRecord read back from the audit archive.
type ArchivedDecision struct {
	SessionId uuid.UUID
	DecisionRecord
}
