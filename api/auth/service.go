package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/internal/serviceiface"
	"WarrantyDesk/internal/session"
	"WarrantyDesk/internal/warranty"
)

// AuthService authenticates dashboard users against the credentials workbook
// and tracks their sessions in memory. Password changes are written back to
// the workbook so they survive restarts.
type AuthService struct {
	maxUsers    int
	credFile    string
	credentials map[string]string
	sessions    *session.Manager
	mu          sync.Mutex
	stopCh      chan struct{}
}

func NewAuthService(cfg map[string]interface{}) serviceiface.Service {
	maxUsers := 100
	if v, ok := cfg["max_users"]; ok {
		switch n := v.(type) {
		case int:
			maxUsers = n
		case float64:
			maxUsers = int(n)
		}
	}
	return &AuthService{
		maxUsers:    maxUsers,
		credentials: make(map[string]string),
		sessions:    session.NewManager(config.SessionIdleHours * time.Hour),
		stopCh:      make(chan struct{}),
	}
}

func (a *AuthService) Name() string { return "auth" }

func (a *AuthService) Start() error {
	if err := a.loadCredentials(); err != nil {
		logger.Audit("Credentials not loaded: %v", err)
	}
	go a.sessionCleaner()
	return nil
}

func (a *AuthService) Stop() error {
	close(a.stopCh)
	return nil
}

// Login checks the user id and password against the workbook credentials and
// opens a session. The two failure modes stay distinct so the login page can
// tell the user which field was wrong.
func (a *AuthService) Login(userID, password string) (*session.Session, error) {
	userID = strings.TrimSpace(userID)

	a.mu.Lock()
	stored, exists := a.credentials[userID]
	a.mu.Unlock()

	if userID == "" || !exists {
		return nil, errors.New(constants.ErrInvalidUserID)
	}
	if stored != password {
		return nil, errors.New(constants.ErrInvalidPassword)
	}
	if a.sessions.Count() >= a.maxUsers {
		return nil, errors.New("maximum concurrent users reached")
	}

	sess := a.sessions.CreateSession(userID)
	logger.Audit("User logged in: %s", userID)
	return sess, nil
}

func (a *AuthService) Logout(sessionID string) error {
	sess, ok := a.sessions.ValidateSession(sessionID)
	if !ok {
		return errors.New("session not found")
	}
	a.sessions.DeleteSession(sessionID)
	logger.Audit("User logged out: %s", sess.UserID)
	return nil
}

// ValidateSession resolves a live session, touching its idle clock.
func (a *AuthService) ValidateSession(sessionID string) (*session.Session, bool) {
	return a.sessions.ValidateSession(sessionID)
}

func (a *AuthService) GetActiveSessions() []session.Session {
	return a.sessions.ActiveSessions()
}

var globalAuthService *AuthService

// SetGlobalAuthService sets the global AuthService instance
func SetGlobalAuthService(svc *AuthService) {
	globalAuthService = svc
}

// GetGlobalAuthService returns the global AuthService instance
func GetGlobalAuthService() *AuthService {
	return globalAuthService
}

// ChangePassword verifies the current password, applies the length rule, and
// writes the new password into the workbook before updating memory. Other
// sessions of the user stay valid.
func (a *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored, exists := a.credentials[userID]
	if !exists || stored != currentPassword {
		return errors.New(constants.ErrCurrentPassword)
	}
	if len(newPassword) < config.MinPasswordLength {
		return errors.New(constants.ErrPasswordTooShort)
	}
	if err := a.writePassword(userID, newPassword); err != nil {
		logger.Audit("Password update failed for %s: %v", userID, err)
		return errors.New(constants.ErrPasswordUpdate)
	}
	a.credentials[userID] = newPassword
	logger.Audit("Password changed for user %s", userID)
	return nil
}

// loadCredentials reads the User ID / Password columns of the credentials
// workbook. Numeric ids are normalized to their integer spelling, matching
// what users type on the login form.
func (a *AuthService) loadCredentials() error {
	loader := warranty.NewLoader(config.DataDir())
	path := loader.FindFile(config.CredentialsFile)
	if path == "" {
		return fmt.Errorf("credentials file %s not found", config.CredentialsFile)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("credentials file %s is empty", path)
	}

	userCol, passCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "User ID":
			userCol = i
		case "Password":
			passCol = i
		}
	}
	if userCol < 0 || passCol < 0 {
		return fmt.Errorf("credentials file %s is missing the User ID or Password column", path)
	}

	creds := make(map[string]string)
	for _, row := range rows[1:] {
		if len(row) <= userCol || len(row) <= passCol {
			continue
		}
		uid := normalizeUserID(row[userCol])
		pwd := strings.TrimSpace(row[passCol])
		if uid == "" || pwd == "" {
			continue
		}
		creds[uid] = pwd
	}

	a.mu.Lock()
	a.credentials = creds
	a.credFile = path
	a.mu.Unlock()

	logger.Audit("Loaded %d user credentials from %s", len(creds), path)
	return nil
}

// writePassword updates the user's row in the credentials workbook in place.
// Callers hold a.mu.
func (a *AuthService) writePassword(userID, newPassword string) error {
	f, err := excelize.OpenFile(a.credFile)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("credentials file %s is empty", a.credFile)
	}

	userCol, passCol := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case "User ID":
			userCol = i
		case "Password":
			passCol = i
		}
	}
	if userCol < 0 || passCol < 0 {
		return fmt.Errorf("credentials file %s is missing the User ID or Password column", a.credFile)
	}

	for i, row := range rows[1:] {
		if len(row) <= userCol {
			continue
		}
		if normalizeUserID(row[userCol]) != userID {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(passCol+1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, newPassword); err != nil {
			return err
		}
		return f.Save()
	}
	return fmt.Errorf("user %s not found in %s", userID, a.credFile)
}

// normalizeUserID renders a workbook cell the way it appears on the login
// form: numeric ids lose their decimal tail, everything else is trimmed.
func normalizeUserID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d.Truncate(0).String()
	}
	return s
}

func (a *AuthService) sessionCleaner() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.sessions.CleanupExpiredSessions()
		}
	}
}
