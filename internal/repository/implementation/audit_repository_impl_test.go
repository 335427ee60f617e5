package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/repository/specification"
	"cora-leaf-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_Integration(t *testing.T) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("DB_CONNECTION_STRING not set, skipping audit archive integration test")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)

	ctx := context.Background()
	repo := NewAuditRepository(db)
	require.NoError(t, repo.Migrate(ctx))

	sessionId := uuid.New()
	customer := "Archive-" + sessionId.String()[:8]
	decided := time.Now().UTC().Truncate(time.Millisecond)

	approved := &entity.DecisionRecord{
		Id: uuid.New(), Customer: customer, RiskTier: entity.RiskTierLow,
		ProposedDiscountPercent: 10, LimitPercent: 15, LimitSource: entity.LimitSourceRiskTier,
		Outcome: entity.DecisionApproved, FollowUpAction: "Contract draft forwarded to legal", Timestamp: decided,
	}
	rejected := &entity.DecisionRecord{
		Id: uuid.New(), Customer: customer, RiskTier: entity.RiskTierLow,
		ProposedDiscountPercent: 20, LimitPercent: 15, LimitSource: entity.LimitSourceRiskTier,
		Outcome: entity.DecisionRejected, EscalationAction: "Escalated", Timestamp: decided.Add(time.Second),
	}

	require.NoError(t, repo.SaveDecision(ctx, sessionId, approved))
	require.NoError(t, repo.SaveDecision(ctx, sessionId, rejected))
	require.NoError(t, repo.SaveDecision(ctx, sessionId, rejected), "duplicate ids are ignored")

	count, err := repo.CountDecisions(ctx, specification.BySession{SessionId: sessionId})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	found, err := repo.FindDecisions(ctx,
		specification.ByCustomer{Name: customer},
		specification.OrderBy{Field: "decided_at", Desc: true},
		specification.Pagination{Limit: 10},
	)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, rejected.Id, found[0].Id)
	assert.Equal(t, "Escalated", found[0].EscalationAction)

	onlyRejected, err := repo.FindDecisions(ctx, specification.BySession{SessionId: sessionId}, specification.ByOutcome{Outcome: string(entity.DecisionRejected)})
	require.NoError(t, err)
	assert.Len(t, onlyRejected, 1)

	email := &entity.EmailRecord{Id: uuid.New(), RecipientCustomer: customer, RecipientEmailAddress: "a@b.test", Subject: "Hi", SentAt: decided}
	require.NoError(t, repo.SaveEmail(ctx, sessionId, email))

	emails, err := repo.FindEmails(ctx, specification.BySession{SessionId: sessionId})
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "Hi", emails[0].Subject)
}
