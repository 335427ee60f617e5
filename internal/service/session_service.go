package service

import (
	"context"
	"fmt"
	"time"

	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/dto"
	"cora-leaf-be/internal/entity"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/repository/memory"
	"cora-leaf-be/pkg/ledger"
	"cora-leaf-be/pkg/policy"
	"cora-leaf-be/pkg/session"

	"github.com/google/uuid"
)

// defaultRecentLimit bounds the decision and email lists in the session state.
const defaultRecentLimit = 20

// SessionLocator resolves a session id from a verified token.
type SessionLocator interface {
	Find(sessionId uuid.UUID) (*session.Session, error)
}

type ISessionService interface {
	SessionLocator
	Create(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	State(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error)
	SelectCustomer(ctx context.Context, sessionId uuid.UUID, req *dto.SelectCustomerRequest) (*dto.CustomerResponse, error)
	Clear(ctx context.Context, sessionId uuid.UUID) error
}

type SessionConfig struct {
	Secret             string
	TTL                time.Duration
	CustomerManagement bool
	DefaultCustomer    string
}

type sessionService struct {
	repo      *memory.SessionRepository
	catalog   *policy.Catalog
	transport ledger.Transport
	notifier  LiveNotifier
	logger    logger.ILogger
	cfg       SessionConfig
}

func NewSessionService(
	repo *memory.SessionRepository,
	catalog *policy.Catalog,
	transport ledger.Transport,
	notifier LiveNotifier,
	log logger.ILogger,
	cfg SessionConfig,
) ISessionService {
	return &sessionService{
		repo:      repo,
		catalog:   catalog,
		transport: transport,
		notifier:  notifierOrNoop(notifier),
		logger:    log,
		cfg:       cfg,
	}
}

func (s *sessionService) Find(sessionId uuid.UUID) (*session.Session, error) {
	sess, ok := s.repo.Get(sessionId)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionService) Create(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	store := policy.NewStore(policy.WithCustomerManagement(s.cfg.CustomerManagement))
	if err := s.catalog.Seed(store); err != nil {
		return nil, fmt.Errorf("failed to seed session catalog: %w", err)
	}

	sess := session.New(uuid.New(), store, s.transport)

	var (
		selected *entity.Customer
		greeting *entity.Message
	)
	err := sess.With(func(w *session.Workspace) error {
		if req.Customer != "" {
			c, err := w.Store.Get(req.Customer)
			if err != nil {
				return err
			}
			selected = c
		} else {
			selected = s.defaultCustomer(w.Store)
		}
		if selected != nil {
			if _, err := w.SelectCustomer(selected.Name); err != nil {
				return err
			}
		}

		w.EnsureGreeting()
		if msgs := w.Conversation.Messages(); len(msgs) > 0 {
			greeting = &msgs[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := serverutils.GenerateSessionToken(s.cfg.Secret, sess.Id, s.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.repo.Save(sess)
	s.logger.Info("SESSION", "Session created", map[string]interface{}{
		"session_id": sess.Id.String(),
		"customers":  store.Len(),
	})

	res := &dto.StartSessionResponse{
		SessionId: sess.Id,
		Token:     token,
		ExpiresAt: time.Now().Add(s.cfg.TTL),
	}
	if selected != nil {
		card := newCustomerResponse(selected)
		res.SelectedCustomer = &card
	}
	if greeting != nil {
		msg := dto.NewMessageResponse(*greeting)
		res.Greeting = &msg
	}
	return res, nil
}

// defaultCustomer prefers the configured name and falls back to the first
// catalog entry. A configured name that is not in the catalog is ignored.
func (s *sessionService) defaultCustomer(store *policy.Store) *entity.Customer {
	for _, name := range []string{s.cfg.DefaultCustomer, s.catalog.First()} {
		if name == "" {
			continue
		}
		if c, err := store.Get(name); err == nil {
			return c
		}
	}
	return nil
}

func (s *sessionService) State(ctx context.Context, sessionId uuid.UUID) (*dto.SessionStateResponse, error) {
	sess, err := s.Find(sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionStateResponse{
		SessionId: sess.Id,
		Busy:      sess.Busy(),
	}
	err = sess.With(func(w *session.Workspace) error {
		simulated := isSimulated(w.Emails.Transport())
		if c := w.Current(); c != nil {
			card := newCustomerResponse(c)
			res.SelectedCustomer = &card
		}
		res.Messages = dto.NewMessageResponses(w.Conversation.Messages())
		res.Decisions = dto.NewDecisionResponses(w.Decisions.Recent(defaultRecentLimit))
		res.Emails = dto.NewEmailResponses(w.Emails.Recent(defaultRecentLimit), simulated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *sessionService) SelectCustomer(ctx context.Context, sessionId uuid.UUID, req *dto.SelectCustomerRequest) (*dto.CustomerResponse, error) {
	sess, err := s.Find(sessionId)
	if err != nil {
		return nil, err
	}

	var card dto.CustomerResponse
	err = runInput(sess, func(w *session.Workspace) error {
		c, err := w.SelectCustomer(req.Name)
		if err != nil {
			return err
		}
		card = newCustomerResponse(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *sessionService) Clear(ctx context.Context, sessionId uuid.UUID) error {
	sess, err := s.Find(sessionId)
	if err != nil {
		return err
	}

	err = runInput(sess, func(w *session.Workspace) error {
		w.Clear()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("SESSION", "Conversation cleared", map[string]interface{}{"session_id": sessionId.String()})
	s.notifier.Notify(sessionId, constant.LiveEventCleared, nil)
	return nil
}

// runInput executes one short input operation under the busy flag and the
// session lock.
func runInput(sess *session.Session, fn func(w *session.Workspace) error) error {
	if err := sess.Acquire(); err != nil {
		return err
	}
	defer sess.Release()
	return sess.With(fn)
}

// Simulator is implemented by transports that only log a send.
type Simulator interface {
	Simulated() bool
}

func isSimulated(t ledger.Transport) bool {
	if t == nil {
		return true
	}
	sim, ok := t.(Simulator)
	return ok && sim.Simulated()
}
