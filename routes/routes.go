package routes

import (
	"github.com/gofiber/fiber/v2"

	"retaildash/handlers"
	"retaildash/metrics"
	"retaildash/middleware"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handlers, rec *metrics.Recorder) {
	// --- Operational Routes ---
	app.Get("/healthz", handlers.HandleHealth)
	app.Get("/version", handlers.HandleVersion)
	app.Get("/metrics", rec.Handler())

	// Everything below knows about the browser session.
	ui := app.Group("", middleware.LoadSession(h.Cookies, h.Sessions, h.Log))

	// --- Authentication Routes ---
	ui.Get("/", h.HandleRoot)
	ui.Get("/login", h.HandleLoginPage)
	ui.Post("/login", h.HandleLogin)
	ui.Post("/logout", h.HandleLogout)

	// --- Dashboard Routes ---
	dash := ui.Group("", middleware.RequireSession)
	dash.Get("/dashboard", h.HandleDashboard)

	// Inventory
	dash.Get("/inventory", h.HandleInventory)
	dash.Post("/inventory/refresh", h.HandleInventoryRefresh)

	// Sales
	dash.Post("/sales", h.HandleRecordSale)

	// Reports
	dash.Post("/abc-analysis", h.HandleAbcAnalysis)
	dash.Post("/reorder", h.HandleReorder)
	dash.Post("/reorder/order", h.HandleOrderNow)
	dash.Post("/reorder/explain", h.HandleExplainReorder)
}
