package entity

import (
	"time"

	"github.com/google/uuid"
)

type EmailRecord struct {
	Id                    uuid.UUID
	RecipientCustomer     string
	RecipientEmailAddress string
	Subject               string
	SentAt                time.Time
}

type ArchivedEmail struct {
	SessionId uuid.UUID
	EmailRecord
}
