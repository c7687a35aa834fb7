// Package login implements the console's sign-in and sign-out endpoints.
//
// There are no user accounts; one shared console password (stored as a
// bcrypt hash in config) unlocks the whole console. A successful login
// sets the session cookie that the rest of the API requires.
package login

import (
	"encoding/json"
	"net/http"

	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"

	"go.uber.org/zap"
)

type Handler struct {
	Sessions     *auth.Manager
	PasswordHash string
	ErrLog       *apierr.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(sessions *auth.Manager, passwordHash string, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions:     sessions,
		PasswordHash: passwordHash,
		ErrLog:       apierr.NewErrorLogger(logger),
		Log:          logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	SignedIn bool `json:"signed_in"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Request body must be JSON with a password field.", err))
		return
	}
	if req.Password == "" {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Password is required.", nil))
		return
	}

	if !auth.CheckPassword(h.PasswordHash, req.Password) {
		h.Log.Warn("login rejected", zap.String("remote", r.RemoteAddr))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"kind":    "Unauthorized",
				"message": "Incorrect password.",
			},
		})
		return
	}

	if err := h.Sessions.SignIn(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session failed", err, "Could not establish a session.")
		return
	}

	h.Log.Info("console sign-in", zap.String("remote", r.RemoteAddr))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{SignedIn: true})
}

// HandleLogout handles POST /logout. Always succeeds, signed in or not.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "logout: clear session failed", err, "Could not clear the session.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{SignedIn: false})
}
