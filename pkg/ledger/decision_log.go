package ledger

import (
	"cora-leaf-be/internal/entity"

	"github.com/google/uuid"
)

// DecisionLog keeps the session's governance decisions in evaluation order.
type DecisionLog struct {
	records []entity.DecisionRecord
}

func NewDecisionLog() *DecisionLog {
	return &DecisionLog{}
}

// Append stores a copy of record with a fresh id and returns it.
func (l *DecisionLog) Append(record entity.DecisionRecord) entity.DecisionRecord {
	record.Id = uuid.New()
	l.records = append(l.records, record)
	return record
}

func (l *DecisionLog) Recent(k int) []entity.DecisionRecord {
	return tail(l.records, k)
}

func (l *DecisionLog) Len() int {
	return len(l.records)
}

func (l *DecisionLog) Clear() {
	l.records = nil
}
