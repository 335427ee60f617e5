package memory

import (
	"time"

	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live sessions in process memory. Expired sessions
// are dropped together with their transcript and ledgers.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	return &SessionRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *SessionRepository) Save(s *session.Session) {
	r.cache.Set(s.Id.String(), s, cache.DefaultExpiration)
}

// Get returns the session and slides its expiry forward.
func (r *SessionRepository) Get(id uuid.UUID) (*session.Session, bool) {
	x, found := r.cache.Get(id.String())
	if !found {
		return nil, false
	}
	s := x.(*session.Session)
	r.cache.Set(id.String(), s, cache.DefaultExpiration)
	return s, true
}

func (r *SessionRepository) Delete(id uuid.UUID) {
	r.cache.Delete(id.String())
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
