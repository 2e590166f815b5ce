package handlers

import (
	"context"
	"errors"
	"html"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"retaildash/middleware"
	"retaildash/models"
	"retaildash/session"
	"retaildash/views"
)

// Authenticator exchanges credentials for a backend token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
}

// Handlers serves the dashboard pages.
type Handlers struct {
	Auth       Authenticator
	Sessions   *session.Manager
	Cookies    middleware.Cookies
	Dashboards *views.Registry
	Log        *zap.Logger
}

// dashboard returns the mounted dashboard of the request's session.
func (h *Handlers) dashboard(c *fiber.Ctx) (*views.Dashboard, *models.Session) {
	s := middleware.SessionFrom(c)
	return h.Dashboards.Get(c.UserContext(), s), s
}

// renderDashboard renders the active tab of d.
func (h *Handlers) renderDashboard(c *fiber.Ctx, d *views.Dashboard, s *models.Session) error {
	return c.Render("views/dashboard", fiber.Map{
		"Title":      "Dashboard",
		"User":       s.User(),
		"Tab":        d.ActiveTab(),
		"Tabs":       views.Tabs,
		"Stores":     models.DefaultStores,
		"AbcPeriods": views.AbcPeriods,
		"Inventory":  d.Inventory.Snapshot(),
		"Sales":      d.Sales.Snapshot(),
		"Abc":        d.Abc.Snapshot(),
		"Reorder":    d.Reorder.Snapshot(),
	}, "layouts/main")
}

// statusFor maps a view error to the status of the re-rendered page. Backend failures
// are shown inside the page, so they keep 200.
func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, views.ErrInvalidSale):
		return fiber.StatusBadRequest
	case errors.Is(err, views.ErrCatalogLoading):
		return fiber.StatusConflict
	case errors.Is(err, views.ErrInsightsDisabled):
		return fiber.StatusNotFound
	default:
		return fiber.StatusOK
	}
}

// HandleHealth reports liveness.
// GET /healthz
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "success", "message": "ok"})
}

// HandleVersion prints the build information of the running binary.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + html.EscapeString(info.String()) + "</pre>\n")
}
