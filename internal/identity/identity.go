// Package identity assigns each browser client an opaque session identifier.
//
// The identifier is generated client-side of the agent service (here, at the
// front-end) and carried in an HttpOnly cookie, so one interactive client
// keeps one conversational session across page reloads.
package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the cookie carrying the session identifier.
	SessionCookieName = "opschat_session_id"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const sessionIDKey contextKey = iota

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// NewSessionID generates a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

func isValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SetSessionCookie writes the session cookie. Also used by the reset
// handler to rotate the identifier.
func SetSessionCookie(w http.ResponseWriter, sessionID string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(sessionCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// Middleware resolves the client's session identifier, minting one when the
// cookie is absent or malformed, and stores it in the request context.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(SessionCookieName); err == nil && isValidSessionID(c.Value) {
				sessionID = c.Value
			} else {
				sessionID = NewSessionID()
			}

			// Refresh on every request to extend the rolling window.
			SetSessionCookie(w, sessionID, isDev)

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
