package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySession struct {
	SessionId uuid.UUID
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByCustomer matches the customer name case-insensitively.
type ByCustomer struct {
	Column string
	Name   string
}

func (s ByCustomer) Apply(db *gorm.DB) *gorm.DB {
	column := s.Column
	if column == "" {
		column = "customer"
	}
	return db.Where("LOWER("+column+") = ?", strings.ToLower(strings.TrimSpace(s.Name)))
}

type ByOutcome struct {
	Outcome string
}

func (s ByOutcome) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("outcome = ?", s.Outcome)
}
