package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"sync"

	"WarrantyDesk/api/auth"
	"WarrantyDesk/api/constants"
	"WarrantyDesk/internal/config"
	"WarrantyDesk/internal/logger"
	"WarrantyDesk/pkg/loadbalancer"
)

// Global reference to AuthService (set from main or manager)
var (
	authService     *auth.AuthService
	authServiceOnce sync.Once
)

// SetAuthService allows wiring the AuthService from main/manager
func SetAuthService(svc *auth.AuthService) {
	authServiceOnce.Do(func() {
		authService = svc
	})
}

// publicPaths are reachable without a session: the login flow, the page
// shells, and the health probe. Everything else needs a live session cookie.
var publicPaths = map[string]bool{
	"/":            true,
	"/login-page":  true,
	"/dashboard":   true,
	"/api/login":   true,
	"/api/captcha": true,
	"/api/health":  true,
}

var gatewayBalancer *loadbalancer.LoadBalancer

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

// LoginHandler handles POST /api/login
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}
	if authService == nil {
		RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
		return
	}
	sess, err := authService.Login(req.UserID, req.Password)
	if err != nil {
		logger.Audit("Login rejected for %q from %s: %v", req.UserID, extractClientIP(r), err)
		RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   config.SessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		constants.ValueSuccess: true,
		"session_id":           sess.ID,
		"user_id":              sess.UserID,
		"message":              constants.SuccessLogin,
	})
}

// LogoutHandler handles POST /api/logout
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	if authService == nil {
		RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
		return
	}
	sessionID := SessionCookie(r)
	if sessionID == "" {
		var req struct {
			SessionID string `json:"session_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			sessionID = req.SessionID
		}
	}
	if err := authService.Logout(sessionID); err != nil {
		RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		constants.ValueSuccess: true,
		"message":              constants.SuccessLogout,
	})
}

// CaptchaHandler handles GET /api/captcha
func CaptchaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	text, image := auth.GenerateCaptcha()
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"captcha": text,
		"image":   image,
	})
}

// ChangePasswordHandler handles POST /api/change-password
func ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}
	if authService == nil {
		RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
		return
	}
	sess, ok := authService.ValidateSession(SessionCookie(r))
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFields)
		return
	}
	if err := authService.ChangePassword(sess.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		switch err.Error() {
		case constants.ErrCurrentPassword:
			RespondWithError(w, http.StatusUnauthorized, err.Error())
		case constants.ErrPasswordTooShort:
			RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		constants.ValueSuccess: true,
		"message":              constants.SuccessPasswordChange,
	})
}

// GetSessionsHandler lists active sessions for operators.
func GetSessionsHandler(w http.ResponseWriter, r *http.Request) {
	if authService == nil {
		RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
		return
	}
	if _, ok := authService.ValidateSession(SessionCookie(r)); !ok {
		RespondWithError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}
	sessions := authService.GetActiveSessions()
	out := make([]map[string]interface{}, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, map[string]interface{}{
			"user_id":    s.UserID,
			"created_at": s.CreatedAt.Format(constants.DateTimeFormat),
			"last_seen":  s.LastSeen.Format(constants.DateTimeFormat),
		})
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		constants.ValueSuccess: true,
		"sessions":             out,
	})
}

// proxyToWarranty gates non-public paths on a live session, then forwards the
// request to the next warranty backend.
func proxyToWarranty(w http.ResponseWriter, r *http.Request) {
	if !publicPaths[r.URL.Path] {
		if authService == nil {
			RespondWithError(w, http.StatusInternalServerError, "Auth service unavailable")
			return
		}
		sessionID := SessionCookie(r)
		if sessionID == "" {
			RespondWithError(w, http.StatusUnauthorized, constants.ErrPleaseLogin)
			return
		}
		if _, ok := authService.ValidateSession(sessionID); !ok {
			RespondWithError(w, http.StatusUnauthorized, constants.ErrInvalidSession)
			return
		}
	}

	target := gatewayBalancer.GetNextServer()
	if target == "" {
		RespondWithError(w, http.StatusServiceUnavailable, "No warranty backend available")
		return
	}

	logger.Audit("[Gateway] Incoming request: %s %s from %s", r.Method, r.URL.Path, extractClientIP(r))

	backend, err := url.Parse(target)
	if err != nil {
		logger.Audit("[Gateway] Bad backend URL %s for %s", target, r.URL.Path)
		RespondWithError(w, http.StatusInternalServerError, "Bad backend URL")
		return
	}
	proxy := httputil.NewSingleHostReverseProxy(backend)

	rw := &responseWriter{ResponseWriter: w, statusCode: 200}
	proxy.ServeHTTP(rw, r)
	if rw.statusCode >= 400 {
		logger.Audit("[Gateway] Proxied to %s for %s, status %d", target, r.URL.Path, rw.statusCode)
	}
}

// responseWriter wraps http.ResponseWriter to capture the proxied status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// warrantyBackends reads the backend list from the environment, defaulting
// to the local warranty service.
func warrantyBackends() []string {
	raw := os.Getenv("WARRANTY_BACKENDS")
	if raw == "" {
		return []string{fmt.Sprintf("http://localhost:%s", config.WarrantyPort())}
	}
	var servers []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

// StartGateway starts the API gateway server
func StartGateway() {
	gatewayBalancer = loadbalancer.NewLoadBalancer(warrantyBackends())

	mux := http.NewServeMux()

	// Auth endpoints served at the edge
	mux.HandleFunc("/api/login", LoginHandler)
	mux.HandleFunc("/api/logout", LogoutHandler)
	mux.HandleFunc("/api/captcha", CaptchaHandler)
	mux.HandleFunc("/api/change-password", ChangePasswordHandler)
	mux.HandleFunc("/get-sessions", GetSessionsHandler)

	mux.HandleFunc("/gateway/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	})

	// Everything else belongs to the warranty service
	mux.HandleFunc("/", proxyToWarranty)

	port := config.GatewayPort()
	LogInfo("API Gateway started on :%s", port)
	err := http.ListenAndServe(":"+port, mux)
	if err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}
