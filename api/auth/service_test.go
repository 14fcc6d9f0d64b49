package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/config"
)

func writeCredentials(t *testing.T, dir string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []any{"User ID", "Password"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, config.CredentialsFile)
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestAuth(t *testing.T, cfg map[string]interface{}) *AuthService {
	t.Helper()
	svc := NewAuthService(cfg).(*AuthService)
	require.NoError(t, svc.Start())
	t.Cleanup(func() { svc.Stop() })
	return svc
}

func TestLogin(t *testing.T) {
	dir := t.TempDir()
	writeCredentials(t, dir, [][]any{
		{"admin", "password1"},
		{"1001.0", "secret123"},
	})
	t.Setenv("DATA_DIR", dir)
	svc := newTestAuth(t, nil)

	t.Run("valid credentials open a session", func(t *testing.T) {
		sess, err := svc.Login("admin", "password1")
		require.NoError(t, err)
		assert.Equal(t, "admin", sess.UserID)
		assert.NotEmpty(t, sess.ID)
	})

	t.Run("user id is trimmed", func(t *testing.T) {
		sess, err := svc.Login("  admin  ", "password1")
		require.NoError(t, err)
		assert.Equal(t, "admin", sess.UserID)
	})

	t.Run("numeric workbook ids match their integer spelling", func(t *testing.T) {
		_, err := svc.Login("1001", "secret123")
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login("nobody", "password1")
		assert.EqualError(t, err, constants.ErrInvalidUserID)
	})

	t.Run("empty user id", func(t *testing.T) {
		_, err := svc.Login("   ", "password1")
		assert.EqualError(t, err, constants.ErrInvalidUserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("admin", "wrong")
		assert.EqualError(t, err, constants.ErrInvalidPassword)
	})
}

func TestLoginMaxUsers(t *testing.T) {
	dir := t.TempDir()
	writeCredentials(t, dir, [][]any{
		{"admin", "password1"},
		{"user2", "password2"},
	})
	t.Setenv("DATA_DIR", dir)
	svc := newTestAuth(t, map[string]interface{}{"max_users": 1})

	_, err := svc.Login("admin", "password1")
	require.NoError(t, err)

	_, err = svc.Login("user2", "password2")
	assert.EqualError(t, err, "maximum concurrent users reached")
}

func TestLogout(t *testing.T) {
	dir := t.TempDir()
	writeCredentials(t, dir, [][]any{{"admin", "password1"}})
	t.Setenv("DATA_DIR", dir)
	svc := newTestAuth(t, nil)

	sess, err := svc.Login("admin", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(sess.ID))
	_, ok := svc.ValidateSession(sess.ID)
	assert.False(t, ok)

	assert.EqualError(t, svc.Logout(sess.ID), "session not found")
}

func TestChangePassword(t *testing.T) {
	dir := t.TempDir()
	path := writeCredentials(t, dir, [][]any{
		{"admin", "password1"},
		{"user2", "password2"},
	})
	t.Setenv("DATA_DIR", dir)
	svc := newTestAuth(t, nil)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword("admin", "nope", "newpassword")
		assert.EqualError(t, err, constants.ErrCurrentPassword)
	})

	t.Run("too short", func(t *testing.T) {
		err := svc.ChangePassword("admin", "password1", "abc")
		assert.EqualError(t, err, constants.ErrPasswordTooShort)
	})

	t.Run("success writes through to the workbook", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword("user2", "password2", "betterpass"))

		_, err := svc.Login("user2", "betterpass")
		assert.NoError(t, err)
		_, err = svc.Login("user2", "password2")
		assert.EqualError(t, err, constants.ErrInvalidPassword)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		saved, err := f.GetCellValue("Sheet1", "B3")
		require.NoError(t, err)
		assert.Equal(t, "betterpass", saved)
	})
}

func TestStartWithoutCredentialsFile(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	svc := newTestAuth(t, nil)

	_, err := svc.Login("admin", "password1")
	assert.EqualError(t, err, constants.ErrInvalidUserID)
}

func TestGetActiveSessions(t *testing.T) {
	dir := t.TempDir()
	writeCredentials(t, dir, [][]any{{"admin", "password1"}})
	t.Setenv("DATA_DIR", dir)
	svc := newTestAuth(t, nil)

	assert.Empty(t, svc.GetActiveSessions())

	_, err := svc.Login("admin", "password1")
	require.NoError(t, err)
	sessions := svc.GetActiveSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "admin", sessions[0].UserID)
}

func TestNormalizeUserID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"admin", "admin"},
		{"  admin  ", "admin"},
		{"1001.0", "1001"},
		{"1001", "1001"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeUserID(tc.in), "input %q", tc.in)
	}
}

func TestGlobalAuthService(t *testing.T) {
	svc := NewAuthService(nil).(*AuthService)
	SetGlobalAuthService(svc)
	assert.Same(t, svc, GetGlobalAuthService())
}
