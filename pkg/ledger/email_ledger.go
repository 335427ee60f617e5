package ledger

import (
	"fmt"
	"strings"
	"time"

	"cora-leaf-be/internal/entity"

	"github.com/google/uuid"
)

// CustomerLookup is satisfied by *policy.Store.
type CustomerLookup interface {
	Get(name string) (*entity.Customer, error)
}

// Transport delivers a message before it is recorded. A nil Transport means
// the send is simulated.
type Transport interface {
	Deliver(record entity.EmailRecord) error
}

type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// EmailLedger is the append-only record of confirmed outbound emails.
type EmailLedger struct {
	customers CustomerLookup
	transport Transport
	records   []entity.EmailRecord
	now       func() time.Time
}

func NewEmailLedger(customers CustomerLookup, transport Transport) *EmailLedger {
	return &EmailLedger{
		customers: customers,
		transport: transport,
		now:       time.Now,
	}
}

func (l *EmailLedger) Transport() Transport {
	return l.transport
}

func (l *EmailLedger) SetClock(now func() time.Time) {
	l.now = now
}

// RecordSend appends a record only after the recipient resolves to an
// address and the transport, if any, accepted the message.
func (l *EmailLedger) RecordSend(customerName, subject string) (entity.EmailRecord, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return entity.EmailRecord{}, entity.NewValidationError("subject", "subject is required")
	}

	customer, err := l.customers.Get(customerName)
	if err != nil {
		return entity.EmailRecord{}, err
	}
	if strings.TrimSpace(customer.Email) == "" {
		return entity.EmailRecord{}, entity.NewNotFoundError("email address", customer.Name)
	}

	record := entity.EmailRecord{
		Id:                    uuid.New(),
		RecipientCustomer:     customer.Name,
		RecipientEmailAddress: customer.Email,
		Subject:               subject,
		SentAt:                l.now(),
	}

	if l.transport != nil {
		if err := l.transport.Deliver(record); err != nil {
			return entity.EmailRecord{}, &DeliveryError{Recipient: record.RecipientEmailAddress, Err: err}
		}
	}

	l.records = append(l.records, record)
	return record, nil
}

func (l *EmailLedger) Recent(k int) []entity.EmailRecord {
	return tail(l.records, k)
}

func (l *EmailLedger) Len() int {
	return len(l.records)
}

func (l *EmailLedger) Clear() {
	l.records = nil
}

func tail[T any](items []T, k int) []T {
	if k <= 0 {
		return []T{}
	}
	start := len(items) - k
	if start < 0 {
		start = 0
	}
	out := make([]T, len(items)-start)
	copy(out, items[start:])
	return out
}
