package policy

import (
	"fmt"
	"strings"

	"cora-leaf-be/internal/entity"
)

type Limit struct {
	Percent int
	Source  entity.LimitSource
}

// ResolveDiscountLimit returns the explicit limit when one is stored and
// otherwise falls back to the risk tier table. It never guesses a default.
func ResolveDiscountLimit(customer *entity.Customer) (Limit, error) {
	if customer == nil {
		return Limit{}, &entity.ConfigurationError{Message: "no customer to resolve a discount limit for"}
	}

	if customer.DiscountLimitPercent != nil {
		v := *customer.DiscountLimitPercent
		if v < 0 || v > 100 {
			return Limit{}, &entity.ConfigurationError{
				Message: fmt.Sprintf("customer %q has an out of range discount limit %d", customer.Name, v),
			}
		}
		return Limit{Percent: v, Source: entity.LimitSourceExplicit}, nil
	}

	if customer.RiskTier == "" {
		return Limit{}, &entity.ConfigurationError{
			Message: fmt.Sprintf("customer %q has neither a discount limit nor a risk tier", customer.Name),
		}
	}

	percent, ok := riskTierLimits[customer.RiskTier]
	if !ok {
		return Limit{}, &entity.ConfigurationError{
			Message: fmt.Sprintf("customer %q has unrecognized risk tier %q", customer.Name, customer.RiskTier),
		}
	}

	return Limit{Percent: percent, Source: entity.LimitSourceRiskTier}, nil
}

// ParseRiskTier normalizes case for the three known tiers and returns any
// other value unchanged so that resolution can report it.
func ParseRiskTier(raw string) entity.RiskTier {
	raw = strings.TrimSpace(raw)
	for tier := range riskTierLimits {
		if strings.EqualFold(raw, string(tier)) {
			return tier
		}
	}
	return entity.RiskTier(raw)
}
