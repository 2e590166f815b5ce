package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"retaildash/models"
	"retaildash/session"
)

// Locals keys set by LoadSession.
const (
	LocalSessionID = "sessionID"
	LocalSession   = "session"
	LocalUserRole  = "userRole"
)

// Cookies issues and removes the browser's session cookie.
type Cookies struct {
	Name   string
	Secure bool
	MaxAge time.Duration
	Signer *session.CookieSigner
}

// Set writes a signed cookie carrying sid.
func (k Cookies) Set(c *fiber.Ctx, sid string) error {
	value, err := k.Signer.Issue(sid)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     k.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(k.MaxAge.Seconds()),
		Secure:   k.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Clear expires the cookie in the browser.
func (k Cookies) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     k.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   k.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// LoadSession resolves the session cookie. A valid cookie sets the session id; when
// storage also holds a login for it, the session itself is set too. Requests without a
// usable cookie pass through anonymously.
func LoadSession(cookies Cookies, manager *session.Manager, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(cookies.Name)
		if raw == "" {
			return c.Next()
		}
		sid, err := cookies.Signer.Parse(raw)
		if err != nil {
			log.Debug("Ignoring session cookie", zap.Error(err))
			return c.Next()
		}
		c.Locals(LocalSessionID, sid)

		s, err := manager.Load(c.UserContext(), sid)
		switch {
		case err == nil:
			c.Locals(LocalSession, s)
			c.Locals(LocalUserRole, s.Role)
		case errors.Is(err, session.ErrNoSession):
		default:
			log.Error("Failed to load session", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
		}
		return c.Next()
	}
}

// RequireSession sends anonymous requests to the login page.
func RequireSession(c *fiber.Ctx) error {
	if SessionFrom(c) == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// SessionFrom returns the authenticated session of the request, or nil.
func SessionFrom(c *fiber.Ctx) *models.Session {
	s, _ := c.Locals(LocalSession).(*models.Session)
	return s
}

// SessionIDFrom returns the session id carried by a valid cookie, or "".
func SessionIDFrom(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocalSessionID).(string)
	return sid
}
