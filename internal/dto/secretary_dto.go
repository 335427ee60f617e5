package dto

import (
	"time"

	"cora-leaf-be/internal/entity"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	Customer string `json:"customer"`
}

type StartSessionResponse struct {
	SessionId        uuid.UUID         `json:"session_id"`
	Token            string            `json:"token"`
	ExpiresAt        time.Time         `json:"expires_at"`
	SelectedCustomer *CustomerResponse `json:"selected_customer,omitempty"`
	Greeting         *MessageResponse  `json:"greeting,omitempty"`
}

type SessionStateResponse struct {
	SessionId        uuid.UUID          `json:"session_id"`
	Busy             bool               `json:"busy"`
	SelectedCustomer *CustomerResponse  `json:"selected_customer,omitempty"`
	Messages         []MessageResponse  `json:"messages"`
	Decisions        []DecisionResponse `json:"decisions"`
	Emails           []EmailResponse    `json:"emails"`
}

type SelectCustomerRequest struct {
	Name string `json:"name" validate:"notblank"`
}

type CustomerRequest struct {
	Name                 string `json:"name" validate:"notblank"`
	Industry             string `json:"industry"`
	AnnualSpend          string `json:"annual_spend"`
	RiskTier             string `json:"risk_tier"`
	History              string `json:"history"`
	PainPoints           string `json:"pain_points"`
	DiscountLimitPercent *int   `json:"discount_limit_percent" validate:"omitempty,min=0,max=100"`
	Email                string `json:"email" validate:"omitempty,email"`
	Company              string `json:"company"`
	Notes                string `json:"notes"`
}

type CustomerResponse struct {
	Name                 string    `json:"name"`
	Industry             string    `json:"industry,omitempty"`
	AnnualSpend          string    `json:"annual_spend,omitempty"`
	RiskTier             string    `json:"risk_tier,omitempty"`
	History              string    `json:"history,omitempty"`
	PainPoints           string    `json:"pain_points,omitempty"`
	DiscountLimitPercent *int      `json:"discount_limit_percent,omitempty"`
	ResolvedLimitPercent *int      `json:"resolved_limit_percent,omitempty"`
	LimitSource          string    `json:"limit_source,omitempty"`
	LimitError           string    `json:"limit_error,omitempty"`
	Email                string    `json:"email,omitempty"`
	Company              string    `json:"company,omitempty"`
	Notes                string    `json:"notes,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type ProductRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type ProductResponse struct {
	Name        string    `json:"name"`
	Price       string    `json:"price,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatRequest struct {
	Chat string `json:"chat"`
}

type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatResponse reports a gateway failure through Failed; the failure text
// is the reply itself.
type ChatResponse struct {
	Sent   MessageResponse `json:"sent"`
	Reply  MessageResponse `json:"reply"`
	Failed bool            `json:"failed"`
}

type DecisionRequest struct {
	Customer        string `json:"customer"`
	DiscountPercent *int   `json:"discount_percent" validate:"required"`
}

type DecisionResponse struct {
	Id                      uuid.UUID `json:"id"`
	Customer                string    `json:"customer"`
	RiskTier                string    `json:"risk_tier,omitempty"`
	ProposedDiscountPercent int       `json:"proposed_discount_percent"`
	LimitPercent            int       `json:"limit_percent"`
	LimitSource             string    `json:"limit_source"`
	Outcome                 string    `json:"outcome"`
	Approved                bool      `json:"approved"`
	EscalationAction        string    `json:"escalation_action,omitempty"`
	FollowUpAction          string    `json:"follow_up_action,omitempty"`
	Timestamp               time.Time `json:"timestamp"`
}

type LimitResponse struct {
	Customer     string `json:"customer"`
	RiskTier     string `json:"risk_tier,omitempty"`
	LimitPercent int    `json:"limit_percent"`
	Source       string `json:"source"`
}

type EmailRequest struct {
	Customer string `json:"customer" validate:"notblank"`
	Subject  string `json:"subject" validate:"notblank"`
}

type EmailResponse struct {
	Id                    uuid.UUID `json:"id"`
	RecipientCustomer     string    `json:"recipient_customer"`
	RecipientEmailAddress string    `json:"recipient_email_address"`
	Subject               string    `json:"subject"`
	SentAt                time.Time `json:"sent_at"`
	Simulated             bool      `json:"simulated"`
}

type ArchivedDecisionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	DecisionResponse
}

type ArchivedDecisionPage struct {
	Items  []ArchivedDecisionResponse `json:"items"`
	Total  int64                      `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

func NewMessageResponse(m entity.Message) MessageResponse {
	return MessageResponse{Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp}
}

func NewMessageResponses(messages []entity.Message) []MessageResponse {
	res := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, NewMessageResponse(m))
	}
	return res
}

func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{Name: p.Name, Price: p.Price, Description: p.Description, CreatedAt: p.CreatedAt}
}

func NewDecisionResponse(d entity.DecisionRecord) DecisionResponse {
	return DecisionResponse{
		Id:                      d.Id,
		Customer:                d.Customer,
		RiskTier:                string(d.RiskTier),
		ProposedDiscountPercent: d.ProposedDiscountPercent,
		LimitPercent:            d.LimitPercent,
		LimitSource:             string(d.LimitSource),
		Outcome:                 string(d.Outcome),
		Approved:                d.Approved(),
		EscalationAction:        d.EscalationAction,
		FollowUpAction:          d.FollowUpAction,
		Timestamp:               d.Timestamp,
	}
}

func (d DecisionResponse) ToEntity() entity.DecisionRecord {
	return entity.DecisionRecord{
		Id:                      d.Id,
		Customer:                d.Customer,
		RiskTier:                entity.RiskTier(d.RiskTier),
		ProposedDiscountPercent: d.ProposedDiscountPercent,
		LimitPercent:            d.LimitPercent,
		LimitSource:             entity.LimitSource(d.LimitSource),
		Outcome:                 entity.DecisionOutcome(d.Outcome),
		EscalationAction:        d.EscalationAction,
		FollowUpAction:          d.FollowUpAction,
		Timestamp:               d.Timestamp,
	}
}

func NewDecisionResponses(records []entity.DecisionRecord) []DecisionResponse {
	res := make([]DecisionResponse, 0, len(records))
	for _, r := range records {
		res = append(res, NewDecisionResponse(r))
	}
	return res
}

func NewEmailResponse(e entity.EmailRecord, simulated bool) EmailResponse {
	return EmailResponse{
		Id:                    e.Id,
		RecipientCustomer:     e.RecipientCustomer,
		RecipientEmailAddress: e.RecipientEmailAddress,
		Subject:               e.Subject,
		SentAt:                e.SentAt,
		Simulated:             simulated,
	}
}

func (e EmailResponse) ToEntity() entity.EmailRecord {
	return entity.EmailRecord{
		Id:                    e.Id,
		RecipientCustomer:     e.RecipientCustomer,
		RecipientEmailAddress: e.RecipientEmailAddress,
		Subject:               e.Subject,
		SentAt:                e.SentAt,
	}
}

func NewEmailResponses(records []entity.EmailRecord, simulated bool) []EmailResponse {
	res := make([]EmailResponse, 0, len(records))
	for _, r := range records {
		res = append(res, NewEmailResponse(r, simulated))
	}
	return res
}
