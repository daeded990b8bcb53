// Package token issues and verifies double-submit tokens.
//
// A token is generated per session and group (usually the form being
// rendered) and verified once when the form comes back. A session may race
// with itself across browser tabs, so every session has its own lock.
package token

import (
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNoToken  = errors.New("token: no token issued")
	ErrMismatch = errors.New("token: token mismatch")
)

// Manager keeps the outstanding tokens of all sessions. The zero value is
// ready to use.
type Manager struct {
	sessions sync.Map // session id -> *sessionTokens
}

type sessionTokens struct {
	mu     sync.Mutex
	tokens map[string]string // group -> token
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) session(id string) *sessionTokens {
	if s, ok := m.sessions.Load(id); ok {
		return s.(*sessionTokens)
	}
	s, _ := m.sessions.LoadOrStore(id, &sessionTokens{tokens: make(map[string]string)})
	return s.(*sessionTokens)
}

// Generate issues a new token for group, replacing any outstanding one.
func (m *Manager) Generate(session, group string) string {
	s := m.session(session)
	tok := uuid.NewString()

	s.mu.Lock()
	s.tokens[group] = tok
	s.mu.Unlock()
	return tok
}

// Verify checks tok against the outstanding token of group and consumes it
// on success, so a resubmission fails.
func (m *Manager) Verify(session, group, tok string) error {
	return m.verify(session, group, tok, true)
}

// Keep checks tok like Verify but leaves it outstanding.
func (m *Manager) Keep(session, group, tok string) error {
	return m.verify(session, group, tok, false)
}

func (m *Manager) verify(session, group, tok string, consume bool) error {
	v, ok := m.sessions.Load(session)
	if !ok {
		return ErrNoToken
	}
	s := v.(*sessionTokens)

	s.mu.Lock()
	defer s.mu.Unlock()

	want, ok := s.tokens[group]
	if !ok {
		return ErrNoToken
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(tok)) != 1 {
		return ErrMismatch
	}
	if consume {
		delete(s.tokens, group)
	}
	return nil
}

// Outstanding returns the token of group, if any.
func (m *Manager) Outstanding(session, group string) (string, bool) {
	v, ok := m.sessions.Load(session)
	if !ok {
		return "", false
	}
	s := v.(*sessionTokens)

	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[group]
	return tok, ok
}

// Forget drops every token of session.
func (m *Manager) Forget(session string) {
	m.sessions.Delete(session)
}
