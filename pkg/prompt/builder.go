package prompt

import (
	"fmt"
	"strings"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/policy"
)

// SecretaryBuilder assembles the single plain-text prompt sent to the gateway.
type SecretaryBuilder struct {
	customer *entity.Customer
	history  []entity.Message
	query    string
}

// NewSecretaryBuilder takes the transcript window as it was before the
// current user message was appended.
func NewSecretaryBuilder(customer *entity.Customer, history []entity.Message, query string) *SecretaryBuilder {
	return &SecretaryBuilder{
		customer: customer,
		history:  history,
		query:    query,
	}
}

func (b *SecretaryBuilder) Build() string {
	var prompt strings.Builder

	limit, risk := b.limitAndRisk()

	b.writeRole(&prompt)
	b.writeCustomerProfile(&prompt, limit)
	b.writeHistory(&prompt)
	b.writeUserQuery(&prompt)
	b.writeGuidelines(&prompt, limit, risk)

	return prompt.String()
}

// limitAndRisk never fails; an unresolvable limit is stated as such so the
// model cannot invent one.
func (b *SecretaryBuilder) limitAndRisk() (string, string) {
	if b.customer == nil {
		return constant.LimitNotConfigured, constant.LimitNotConfigured
	}

	risk := string(b.customer.RiskTier)
	if risk == "" {
		risk = constant.LimitNotConfigured
	}

	limit, err := policy.ResolveDiscountLimit(b.customer)
	if err != nil {
		return constant.LimitNotConfigured, risk
	}
	return fmt.Sprintf("%d%%", limit.Percent), risk
}

func (b *SecretaryBuilder) writeRole(prompt *strings.Builder) {
	prompt.WriteString("<role>\n")
	prompt.WriteString(constant.SecretaryRolePrompt)
	prompt.WriteString("\n</role>\n\n")
}

func (b *SecretaryBuilder) writeCustomerProfile(prompt *strings.Builder, limit string) {
	prompt.WriteString("<customer_profile>\n")
	if b.customer == nil {
		prompt.WriteString("No customer is selected.\n")
		prompt.WriteString("</customer_profile>\n\n")
		return
	}

	c := b.customer
	fmt.Fprintf(prompt, "- Customer: %s\n", c.Name)
	if c.Company != "" && c.Company != c.Name {
		fmt.Fprintf(prompt, "- Company: %s\n", c.Company)
	}
	fmt.Fprintf(prompt, "- Industry: %s\n", valueOrUnknown(c.Industry))
	fmt.Fprintf(prompt, "- Annual spend: %s\n", valueOrUnknown(c.AnnualSpend))
	fmt.Fprintf(prompt, "- Risk tier: %s\n", valueOrUnknown(string(c.RiskTier)))
	fmt.Fprintf(prompt, "- Discount limit: %s\n", limit)
	fmt.Fprintf(prompt, "- History: %s\n", valueOrUnknown(c.History))
	fmt.Fprintf(prompt, "- Pain points: %s\n", valueOrUnknown(c.PainPoints))
	if c.Notes != "" {
		fmt.Fprintf(prompt, "- Notes: %s\n", c.Notes)
	}
	prompt.WriteString("</customer_profile>\n\n")
}

func (b *SecretaryBuilder) writeHistory(prompt *strings.Builder) {
	if len(b.history) == 0 {
		return
	}

	prompt.WriteString("<conversation>\n")
	for _, msg := range b.history {
		fmt.Fprintf(prompt, "%s: %s\n", roleLabel(msg.Role), msg.Content)
	}
	prompt.WriteString("</conversation>\n\n")
}

func (b *SecretaryBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.query)
	prompt.WriteString("\n</user_question>\n\n")
}

func (b *SecretaryBuilder) writeGuidelines(prompt *strings.Builder, limit, risk string) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString(strings.NewReplacer("{limit}", limit, "{risk}", risk).Replace(constant.SecretaryGuidelinesPrompt))
	prompt.WriteString("\n</guidelines>")
}

func roleLabel(role entity.MessageRole) string {
	if role == entity.MessageRoleUser {
		return "User"
	}
	return "Assistant"
}

func valueOrUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return v
}
