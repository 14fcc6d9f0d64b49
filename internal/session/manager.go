package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Manager tracks logged-in sessions in memory. Sessions expire after the
// idle window; validation touches them to keep active users signed in.
type Manager struct {
	sessions map[string]*Session
	idle     time.Duration
	mu       sync.Mutex
}

func NewManager(idle time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		idle:     idle,
	}
}

func (m *Manager) CreateSession(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		LastSeen:  now,
	}
	m.sessions[session.ID] = session
	return session
}

// ValidateSession returns the live session for the id, touching its idle
// clock. Expired sessions are removed on the spot.
func (m *Manager) ValidateSession(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, false
	}
	if time.Since(session.LastSeen) > m.idle {
		delete(m.sessions, sessionID)
		return nil, false
	}
	session.LastSeen = time.Now()
	return session, true
}

func (m *Manager) DeleteSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
}

func (m *Manager) CleanupExpiredSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, session := range m.sessions {
		if time.Since(session.LastSeen) > m.idle {
			delete(m.sessions, id)
		}
	}
}

// ActiveSessions snapshots the live sessions for the admin listing.
func (m *Manager) ActiveSessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}
