package session

import (
	"sync"
	"sync/atomic"
	"time"

	"cora-leaf-be/internal/entity"
	"cora-leaf-be/pkg/conversation"
	"cora-leaf-be/pkg/ledger"
	"cora-leaf-be/pkg/policy"

	"github.com/google/uuid"
)

// Workspace is the mutable state of one session. It must only be touched
// inside Session.With.
type Workspace struct {
	Store        *policy.Store
	Conversation *conversation.State
	Decisions    *ledger.DecisionLog
	Emails       *ledger.EmailLedger

	selected string
}

// Session isolates everything one interactive user can change. Sessions
// never share state with each other.
type Session struct {
	Id        uuid.UUID
	CreatedAt time.Time

	mu   sync.Mutex
	busy atomic.Bool
	ws   *Workspace
}

func New(id uuid.UUID, store *policy.Store, transport ledger.Transport) *Session {
	return &Session{
		Id:        id,
		CreatedAt: time.Now(),
		ws: &Workspace{
			Store:        store,
			Conversation: conversation.New(),
			Decisions:    ledger.NewDecisionLog(),
			Emails:       ledger.NewEmailLedger(store, transport),
		},
	}
}

// Acquire marks the session busy for one input operation.
func (s *Session) Acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return entity.ErrSessionBusy
	}
	return nil
}

func (s *Session) Release() {
	s.busy.Store(false)
}

func (s *Session) Busy() bool {
	return s.busy.Load()
}

// With runs fn while holding the session lock. Keep fn short; never call the
// gateway from inside it.
func (s *Session) With(fn func(w *Workspace) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ws)
}

func (w *Workspace) SelectedCustomer() string {
	return w.selected
}

func (w *Workspace) SelectCustomer(name string) (*entity.Customer, error) {
	customer, err := w.Store.Get(name)
	if err != nil {
		return nil, err
	}
	w.selected = customer.Name
	return customer, nil
}

// Current returns the selected customer, or nil when none is selected or it
// no longer resolves.
func (w *Workspace) Current() *entity.Customer {
	if w.selected == "" {
		return nil
	}
	customer, err := w.Store.Get(w.selected)
	if err != nil {
		return nil
	}
	return customer
}

// EnsureGreeting seeds the transcript for the selected customer.
func (w *Workspace) EnsureGreeting() bool {
	name, company := "", ""
	if c := w.Current(); c != nil {
		name, company = c.Name, c.Company
	}
	return w.Conversation.Initialize(name, company)
}

// Clear resets the transcript and both ledgers. The catalog and the selected
// customer survive.
func (w *Workspace) Clear() {
	w.Conversation.Clear()
	w.Decisions.Clear()
	w.Emails.Clear()
}
