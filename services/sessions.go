package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// WizardSession ties one wizard to an opaque token handed to the client.
// Operations on a session must hold its lock; the wizard itself is
// single-threaded by design.
type WizardSession struct {
	sync.Mutex
	Token      string
	Wizard     *Wizard
	CreatedAt  time.Time
	LastActive time.Time
}

// SessionManager keeps in-flight wizard drafts in memory. Drafts are never
// persisted; abandoning or expiring a session discards them entirely.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*WizardSession
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a manager whose sessions expire after ttl of
// inactivity.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*WizardSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start opens a new wizard session and returns it.
func (m *SessionManager) Start() *WizardSession {
	now := m.now()
	session := &WizardSession{
		Token:      uuid.NewString(),
		Wizard:     NewWizard(),
		CreatedAt:  now,
		LastActive: now,
	}
	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()
	return session
}

// Get returns the session for a token and refreshes its activity timestamp.
func (m *SessionManager) Get(token string) (*WizardSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	session.LastActive = m.now()
	return session, true
}

// Abandon discards a session and its draft. No partial request is ever
// persisted for an abandoned wizard.
func (m *SessionManager) Abandon(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// SweepExpired removes sessions idle past the ttl and completed wizards, and
// reports how many were dropped. Run periodically from a cron job.
func (m *SessionManager) SweepExpired() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, session := range m.sessions {
		if session.LastActive.Before(cutoff) || session.Wizard.Step() == StepSubmission {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
