package constant

const (
	AssistantName = "CORA Leaf"

	// Greeting seeded into every new or cleared conversation.
	// Placeholders: {assistant}, {customer}, {company}.
	GreetingTemplate = `👋 Hello! I'm {assistant}, your decision secretary. I'm ready to help you analyze the renewal strategy for {customer}{company}.

💡 You can ask me:
- "Generate a negotiation brief for {customer}"
- "What happens if we offer a 12% discount?"
- "Which risks should I be aware of?"`

	// Used when the session has no customer selected yet.
	GreetingNoCustomer = "your accounts"

	// Fixed role text placed at the top of every gateway prompt.
	SecretaryRolePrompt = `You are Leaf, the decision secretary of the CORA system. You already hold the enterprise customer's profile below.`

	SecretaryGuidelinesPrompt = `Answer in a professional but friendly tone, like a senior consultant.
- If the question involves a discount decision, remind the user that the system limit is {limit}.
- If the user asks about risk, base the answer on the customer's {risk} risk tier.
- Use emoji and compact formatting so the answer is easy to read.
- Keep the answer under 150 words.`

	// Assistant-authored transcript entry when the gateway fails.
	GatewayFailureMessage = "Sorry, I ran into a technical problem. Error: %s"

	DefaultEscalationAction = "Escalated to the finance director for approval"
	DefaultFollowUpAction   = "Contract draft forwarded to legal"

	LimitNotConfigured = "not configured"
)

// Event types published on the audit bus and the live feed.
const (
	AuditTopic = "governance_audit"

	EventDecisionRecorded = "DECISION_RECORDED"
	EventEmailDispatched  = "EMAIL_DISPATCHED"

	LiveEventMessage  = "message"
	LiveEventDecision = "decision"
	LiveEventEmail    = "email"
	LiveEventBusy     = "busy"
	LiveEventCleared  = "cleared"
)
