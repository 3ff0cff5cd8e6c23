// Package middleware holds HTTP middleware for the echo delivery.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"waitlist/config"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionIDKey is the context key the session id is stored under.
const SessionIDKey = "sessionID"

const sessionMaxAge = 24 * time.Hour

// SessionMiddleware gives every browser a stable session id cookie so the
// state broker has a session-scoped key. The cookie is an opaque random
// id; all session data lives server side.
type SessionMiddleware struct {
	cookieName string
	secure     bool
	logger     *slog.Logger
}

// NewSessionMiddleware creates the session middleware.
func NewSessionMiddleware(cfg *config.Config, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		cookieName: cfg.Session.CookieName,
		secure:     cfg.Env.Env == "production",
		logger:     logger,
	}
}

// Handle ensures the request carries a session id and exposes it on the
// echo context.
func (m *SessionMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			sid := uuid.NewString()
			// SameSite=Lax keeps the cookie on the provider's redirect
			// back; it may still be dropped by some browsers, which is
			// why the fallback state store exists.
			c.SetCookie(&http.Cookie{
				Name:     m.cookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(SessionIDKey, sid)

			return next(c)
		}

		c.Set(SessionIDKey, cookie.Value)

		return next(c)
	}
}

// SessionID extracts the session id from the echo context.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(SessionIDKey).(string)

	return sid
}
