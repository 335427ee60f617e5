package conversation

import (
	"strings"
	"time"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/entity"
)

// State is an append-only, role-tagged transcript. Insertion order is the
// only ordering it guarantees.
type State struct {
	messages []entity.Message
	now      func() time.Time
}

func New() *State {
	return &State{now: time.Now}
}

func NewWithClock(now func() time.Time) *State {
	return &State{now: now}
}

// Initialize seeds the greeting when the transcript is empty and reports
// whether it did so.
func (s *State) Initialize(customerName, company string) bool {
	if len(s.messages) > 0 {
		return false
	}
	s.AppendAssistant(Greeting(customerName, company))
	return true
}

func (s *State) AppendUser(text string) (entity.Message, error) {
	if strings.TrimSpace(text) == "" {
		return entity.Message{}, entity.NewValidationError("chat", "message must not be empty")
	}
	return s.append(entity.MessageRoleUser, text), nil
}

// AppendAssistant never fails; failure notices are regular transcript entries.
func (s *State) AppendAssistant(text string) entity.Message {
	return s.append(entity.MessageRoleAssistant, text)
}

func (s *State) append(role entity.MessageRole, text string) entity.Message {
	msg := entity.Message{Role: role, Content: text, Timestamp: s.now()}
	s.messages = append(s.messages, msg)
	return msg
}

// RecentWindow returns a copy of the last n messages in original order.
func (s *State) RecentWindow(n int) []entity.Message {
	if n <= 0 {
		return []entity.Message{}
	}
	start := len(s.messages) - n
	if start < 0 {
		start = 0
	}
	window := make([]entity.Message, len(s.messages)-start)
	copy(window, s.messages[start:])
	return window
}

func (s *State) Messages() []entity.Message {
	return s.RecentWindow(len(s.messages))
}

func (s *State) Len() int {
	return len(s.messages)
}

func (s *State) Clear() {
	s.messages = nil
}

func Greeting(customerName, company string) string {
	customer := strings.TrimSpace(customerName)
	if customer == "" {
		customer = constant.GreetingNoCustomer
	}

	suffix := ""
	company = strings.TrimSpace(company)
	if company != "" && !strings.EqualFold(company, customer) {
		suffix = " (" + company + ")"
	}

	return strings.NewReplacer(
		"{assistant}", constant.AssistantName,
		"{customer}", customer,
		"{company}", suffix,
	).Replace(constant.GreetingTemplate)
}
