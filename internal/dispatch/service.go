package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/smartest/internal/logger"
	"github.com/abhisek/smartest/internal/session"
)

// Service runs Dispatch against the state saved for a session ID.
type Service struct {
	dispatcher *Dispatcher
	sessions   session.Store
	log        *logger.Logger

	// Load, dispatch and save for one session run under that session's
	// lock, so concurrent messages cannot overwrite each other's state.
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewService wires a service. A nil sessions store means an in-memory one
// without expiry.
func NewService(d *Dispatcher, sessions session.Store, log *logger.Logger) *Service {
	if sessions == nil {
		sessions = session.NewMemoryStore(0)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		dispatcher: d,
		sessions:   sessions,
		log:        log.With("component", "chat"),
		locks:      map[string]*sessionLock{},
	}
}

// lock takes the lock for sessionID and returns its release. Entries are
// dropped once no caller holds or waits for them.
func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// Handle answers one message for sessionID.
func (s *Service) Handle(ctx context.Context, sessionID, input string) (Reply, error) {
	return s.HandleTopic(ctx, sessionID, input, "")
}

// HandleTopic is Handle with theory lookups limited to topicID.
func (s *Service) HandleTopic(ctx context.Context, sessionID, input, topicID string) (Reply, error) {
	defer s.lock(sessionID)()

	st, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}

	reply, next := s.dispatcher.DispatchTopic(ctx, input, topicID, st)

	if next.Pending != st.Pending {
		next.UpdatedAt = time.Now()
		if err := s.sessions.Save(ctx, sessionID, next); err != nil {
			return Reply{}, fmt.Errorf("save session: %w", err)
		}
	}
	if reply.Kind == KindGrade && reply.Result != nil && reply.Problem != nil {
		s.log.Info("answer graded", "session", sessionID, "domain", reply.Problem.Domain,
			"problem_id", reply.Problem.ID, "score", reply.Result.Score, "method", reply.Result.Method)
	}
	s.log.Debug("chat reply", "session", sessionID, "kind", reply.Kind, "method", reply.Method)
	return reply, nil
}

// Pending returns the problem sessionID is expected to answer, if any.
func (s *Service) Pending(ctx context.Context, sessionID string) (session.State, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Reset drops the session's pending problem.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	defer s.lock(sessionID)()
	return s.sessions.Delete(ctx, sessionID)
}
