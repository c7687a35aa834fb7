// internal/app/system/auth/auth.go

// Package auth implements the console's login gate.
//
// The console has a single shared password; what a session carries is just
// "this client has signed in". That flag lives in a signed server-side
// session cookie (gorilla/sessions), loaded into the request context by
// middleware, so no handler touches ambient global state. The password
// itself is configured as a bcrypt hash, never as a literal.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	isAuthKey   = "is_authenticated"
	signedInKey = "signed_in_at"
)

// Session is what a signed-in request carries in its context.
type Session struct {
	SignedInAt time.Time
}

type ctxKey string

const sessionKey ctxKey = "consoleSession"

// Manager owns the cookie store and session configuration.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewManager builds a session Manager.
//
// In production (secure=true) cookies are Secure with SameSite=None so the
// mobile web client can send them cross-site over HTTPS; in dev Lax is fine.
func NewManager(signingKey, cookieName, domain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(signingKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(signingKey)))
	}

	store := sessions.NewCookieStore([]byte(signingKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("cookie", cookieName))

	return &Manager{store: store, name: cookieName, log: logger}, nil
}

// CurrentSession returns the request's session and a found flag.
func CurrentSession(r *http.Request) (*Session, bool) {
	s, ok := r.Context().Value(sessionKey).(*Session)
	return s, ok
}

// LoadSession injects the Session into context when the cookie says the
// client has signed in. Requests without a valid session pass through
// unchanged; RequireSignedIn decides what to do about that.
func (m *Manager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			s := &Session{}
			if ts, ok := sess.Values[signedInKey].(int64); ok {
				s.SignedInAt = time.Unix(ts, 0).UTC()
			}
			r = r.WithContext(context.WithValue(r.Context(), sessionKey, s))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests without a session. This API serves a
// mobile client, so the answer is always a plain 401, never a redirect.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentSession(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"kind":"Unauthorized","message":"Sign in required."}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn marks the client as authenticated and saves the session cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[signedInKey] = time.Now().UTC().Unix()
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// CheckPassword compares the submitted console password against the
// configured bcrypt hash.
func CheckPassword(passwordHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash suitable for the
// console_password_hash config value. Used by tests and provisioning.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WithTestSession injects a signed-in session into the request context.
// Handler tests use this to bypass the session middleware.
func WithTestSession(r *http.Request) *http.Request {
	s := &Session{SignedInAt: time.Now().UTC()}
	return r.WithContext(context.WithValue(r.Context(), sessionKey, s))
}
