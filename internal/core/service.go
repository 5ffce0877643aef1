package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionConfig bounds the in-memory form sessions.
// Zero values fall back to the defaults noted on each field.
type SessionConfig struct {
	IdleTimeout time.Duration // Inactivity before a session is dropped (default: 30m)
	MaxSessions int           // Open sessions allowed at once (default: 10000)
}

// Service owns one Form per browser session. Sessions never share state.
//
// Transitions for a single session are serialised; the Form logic itself is
// single-threaded and knows nothing about locking.
type Service struct {
	cfg SessionConfig
	now func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

type session struct {
	mu       sync.Mutex
	form     Form
	lastSeen time.Time
}

// NewService creates a new Service instance.
func NewService(cfg SessionConfig) *Service {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 10000
	}
	return &Service{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session),
	}
}

// NewSession opens an empty form and returns its id.
func (s *Service) NewSession(ctx context.Context) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.cfg.MaxSessions {
		return uuid.Nil, fmt.Errorf("open session (limit %d): %w", s.cfg.MaxSessions, ErrTooManySessions)
	}

	id := uuid.New()
	s.sessions[id] = &session{form: NewForm(), lastSeen: s.now()}

	slog.DebugContext(ctx, "session opened", "session_id", id, "sessions", len(s.sessions))
	return id, nil
}

// EndSession drops a session. Unknown ids are ignored.
func (s *Service) EndSession(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// SessionCount returns the number of open sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns a copy of the session's form.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (Form, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Form{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = s.now()
	return copyForm(sess.form), nil
}

// Apply runs one transition against the session's form. The form is only
// replaced when fn succeeds. The returned form is a copy of the stored one.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, fn func(Form) (Form, error)) (Form, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Form{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = s.now()

	next, err := fn(sess.form)
	if err != nil {
		return copyForm(sess.form), err
	}
	sess.form = next
	return copyForm(next), nil
}

// Submit validates and stores a candidate for the session.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, c Record) (Form, Outcome, error) {
	var outcome Outcome
	f, err := s.Apply(ctx, id, func(f Form) (Form, error) {
		var next Form
		next, outcome = f.Submit(c)
		return next, nil
	})
	if err != nil {
		return Form{}, "", err
	}
	return f, outcome, nil
}

// Edit puts the session's form into edit mode for index i.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, i int) (Form, error) {
	return s.Apply(ctx, id, func(f Form) (Form, error) {
		return f.Edit(i)
	})
}

// Delete removes the record at index i from the session's list.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, i int) (Form, error) {
	return s.Apply(ctx, id, func(f Form) (Form, error) {
		return f.Delete(i)
	})
}

// lookup returns a live session, dropping it if it has gone idle.
func (s *Service) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	sess.mu.Lock()
	expired := s.now().Sub(sess.lastSeen) > s.cfg.IdleTimeout
	sess.mu.Unlock()

	if expired {
		s.EndSession(id)
		return nil, fmt.Errorf("session %s expired: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// sweepIdle drops every session idle longer than the timeout.
func (s *Service) sweepIdle() int {
	cutoff := s.now().Add(-s.cfg.IdleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func copyForm(f Form) Form {
	return Form{State: f.State, Buffer: f.Buffer, Errors: f.Errors.Clone()}
}
