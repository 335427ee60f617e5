package prompt

import (
	"strings"
	"testing"

	"cora-leaf-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestSecretaryBuilder_Build(t *testing.T) {
	customer := &entity.Customer{
		Name:        "Tesla",
		Industry:    "Automotive",
		AnnualSpend: "$800K",
		RiskTier:    entity.RiskTierHigh,
		History:     "Two late payments last year.",
		PainPoints:  "Budget was cut.",
	}
	history := []entity.Message{
		{Role: entity.MessageRoleAssistant, Content: "Hello"},
		{Role: entity.MessageRoleUser, Content: "Earlier question"},
	}

	got := NewSecretaryBuilder(customer, history, "Can we offer 5%?").Build()

	for _, want := range []string{
		"Industry: Automotive",
		"Annual spend: $800K",
		"Risk tier: High",
		"Discount limit: 3%",
		"Two late payments last year.",
		"Budget was cut.",
		"User: Earlier question",
		"Assistant: Hello",
		"Can we offer 5%?",
		"system limit is 3%",
	} {
		assert.Contains(t, got, want)
	}

	assert.Less(t, strings.Index(got, "<role>"), strings.Index(got, "<customer_profile>"))
	assert.Less(t, strings.Index(got, "<conversation>"), strings.Index(got, "<user_question>"))
}

func TestSecretaryBuilder_UnresolvableLimit(t *testing.T) {
	customer := &entity.Customer{Name: "Odd", RiskTier: "Extreme"}

	got := NewSecretaryBuilder(customer, nil, "hi").Build()

	assert.Contains(t, got, "Discount limit: not configured")
	assert.NotContains(t, got, "<conversation>")
}

func TestSecretaryBuilder_NoCustomer(t *testing.T) {
	got := NewSecretaryBuilder(nil, nil, "hi").Build()
	assert.Contains(t, got, "No customer is selected.")
}
