package contract

import (
	"context"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AuditRepository interface {
	Migrate(ctx context.Context) error
	SaveDecision(ctx context.Context, sessionId uuid.UUID, record *entity.DecisionRecord) error
	SaveEmail(ctx context.Context, sessionId uuid.UUID, record *entity.EmailRecord) error
	FindDecisions(ctx context.Context, specs ...specification.Specification) ([]*entity.ArchivedDecision, error)
	CountDecisions(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindEmails(ctx context.Context, specs ...specification.Specification) ([]*entity.ArchivedEmail, error)
}
