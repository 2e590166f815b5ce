package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"retaildash/apiclient"
	"retaildash/middleware"
	"retaildash/session"
)

const msgLoginFailed = "Invalid username or password"

// HandleRoot sends the browser to the dashboard or the login page.
// GET /
func (h *Handlers) HandleRoot(c *fiber.Ctx) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// HandleLoginPage renders the login form.
// GET /login
func (h *Handlers) HandleLoginPage(c *fiber.Ctx) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return renderLogin(c, fiber.StatusOK, "", "")
}

// HandleLogin authenticates against the backend and starts a session.
// POST /login
func (h *Handlers) HandleLogin(c *fiber.Ctx) error {
	var req struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		h.Log.Warn("Error parsing login request", zap.Error(err))
		return renderLogin(c, fiber.StatusBadRequest, "", "Cannot parse login form")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return renderLogin(c, fiber.StatusBadRequest, req.Username, "Username and password are required")
	}

	ctx := c.UserContext()
	auth, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.Log.Info("Login failed", zap.String("username", req.Username), zap.Error(err))
		msg := apiclient.MessageOf(err)
		if msg == "" {
			msg = msgLoginFailed
		}
		return renderLogin(c, fiber.StatusUnauthorized, req.Username, msg)
	}

	// A fresh id on every login; an older session of this browser is discarded.
	if old := middleware.SessionIDFrom(c); old != "" {
		h.endSession(c, old)
	}
	sid := session.NewID()
	if _, err := h.Sessions.Save(ctx, sid, *auth); err != nil {
		h.Log.Error("Error saving session", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Could not start session")
	}
	if err := h.Cookies.Set(c, sid); err != nil {
		h.Log.Error("Error issuing session cookie", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Could not start session")
	}

	h.Log.Info("User logged in", zap.String("username", auth.Username), zap.String("role", auth.Role))
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// HandleLogout clears the session in storage and in memory.
// POST /logout
func (h *Handlers) HandleLogout(c *fiber.Ctx) error {
	if sid := middleware.SessionIDFrom(c); sid != "" {
		h.endSession(c, sid)
	}
	h.Cookies.Clear(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (h *Handlers) endSession(c *fiber.Ctx, sid string) {
	if err := h.Sessions.Clear(c.UserContext(), sid); err != nil {
		h.Log.Error("Error clearing session", zap.Error(err))
	}
	h.Dashboards.Drop(sid)
}

func renderLogin(c *fiber.Ctx, status int, username, errMsg string) error {
	return c.Status(status).Render("views/login", fiber.Map{
		"Title":    "Login",
		"Username": username,
		"Error":    errMsg,
	}, "layouts/main")
}
