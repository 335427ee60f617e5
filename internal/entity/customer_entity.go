package entity

import "time"

type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// Customer is identified by Name within a session.
// DiscountLimitPercent is nil when the limit should be derived from RiskTier.
type Customer struct {
	Name                 string
	Industry             string
	AnnualSpend          string // display only, never parsed
	RiskTier             RiskTier
	History              string
	PainPoints           string
	DiscountLimitPercent *int
	Email                string
	Company              string
	Notes                string
	CreatedAt            time.Time
}

type Product struct {
	Name        string
	Price       string
	Description string
	CreatedAt   time.Time
}
