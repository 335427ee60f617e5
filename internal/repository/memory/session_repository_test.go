package memory

import (
	"testing"
	"time"

	"cora-leaf-be/pkg/policy"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Hour, time.Minute)
	s := session.New(uuid.New(), policy.NewStore(), nil)

	repo.Save(s)
	assert.Equal(t, 1, repo.Count())

	got, ok := repo.Get(s.Id)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = repo.Get(uuid.New())
	assert.False(t, ok)

	repo.Delete(s.Id)
	_, ok = repo.Get(s.Id)
	assert.False(t, ok)
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository(20*time.Millisecond, time.Hour)
	s := session.New(uuid.New(), policy.NewStore(), nil)
	repo.Save(s)

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get(s.Id)
	assert.False(t, ok)
}
