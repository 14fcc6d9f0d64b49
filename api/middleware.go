package api

import (
	"context"
	"net/http"

	"WarrantyDesk/api/auth"
	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/session"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	UserIDKey  contextKey = "user_id"
)

// Helper functions for context retrieval (used by handlers downstream)
func GetSessionFromCtx(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return s
	}
	return nil
}

func GetUserIDFromCtx(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// SessionCookie reads the session id cookie, empty when absent.
func SessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(config.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionMiddleware rejects requests without a live session and attaches the
// session and user id to the request context.
func SessionMiddleware(svc *auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := SessionCookie(r)
			if sessionID == "" {
				RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
				return
			}
			sess, ok := svc.ValidateSession(sessionID)
			if !ok {
				RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			ctx = context.WithValue(ctx, UserIDKey, sess.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
