package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndValidateSession(t *testing.T) {
	m := NewManager(time.Hour)

	created := m.CreateSession("admin")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "admin", created.UserID)
	assert.Equal(t, 1, m.Count())

	got, ok := m.ValidateSession(created.ID)
	require.True(t, ok)
	assert.Equal(t, "admin", got.UserID)

	_, ok = m.ValidateSession("no-such-session")
	assert.False(t, ok)
}

func TestValidateSessionTouchesIdleClock(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.CreateSession("admin")

	s.LastSeen = time.Now().Add(-50 * time.Minute)
	_, ok := m.ValidateSession(s.ID)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), s.LastSeen, time.Minute, "validation resets the idle clock")
}

func TestValidateSessionExpires(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.CreateSession("admin")
	s.LastSeen = time.Now().Add(-2 * time.Hour)

	_, ok := m.ValidateSession(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count(), "expired sessions are removed on sight")
}

func TestDeleteSession(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.CreateSession("admin")

	m.DeleteSession(s.ID)
	_, ok := m.ValidateSession(s.ID)
	assert.False(t, ok)

	m.DeleteSession("already-gone")
	assert.Equal(t, 0, m.Count())
}

func TestCleanupExpiredSessions(t *testing.T) {
	m := NewManager(time.Hour)
	live := m.CreateSession("live")
	stale := m.CreateSession("stale")
	stale.LastSeen = time.Now().Add(-2 * time.Hour)

	m.CleanupExpiredSessions()

	assert.Equal(t, 1, m.Count())
	_, ok := m.ValidateSession(live.ID)
	assert.True(t, ok)
}

func TestActiveSessions(t *testing.T) {
	m := NewManager(time.Hour)
	m.CreateSession("a")
	m.CreateSession("b")

	active := m.ActiveSessions()
	require.Len(t, active, 2)

	users := map[string]bool{}
	for _, s := range active {
		users[s.UserID] = true
	}
	assert.True(t, users["a"] && users["b"])
}
