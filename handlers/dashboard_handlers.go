package handlers

import (
	"github.com/gofiber/fiber/v2"

	"retaildash/views"
)

// HandleDashboard activates the requested tab and renders it. Without a tab the
// current one is shown.
// GET /dashboard?tab=inventory|sales|abc-analysis|reorder
func (h *Handlers) HandleDashboard(c *fiber.Ctx) error {
	d, s := h.dashboard(c)
	if tab := c.Query("tab"); tab != "" {
		if !views.ValidTab(tab) {
			return fiber.NewError(fiber.StatusNotFound, "Unknown tab")
		}
		d.Activate(c.UserContext(), tab)
	}
	return h.renderDashboard(c, d, s)
}

// HandleInventory switches the inventory view to another store.
// GET /inventory?store=N
func (h *Handlers) HandleInventory(c *fiber.Ctx) error {
	storeID := int64(c.QueryInt("store", 0))
	if storeID < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid store")
	}
	d, s := h.dashboard(c)
	d.Show(views.TabInventory)
	_ = d.Inventory.SelectStore(c.UserContext(), storeID)
	return h.renderDashboard(c, d, s)
}

// HandleInventoryRefresh refetches the current store.
// POST /inventory/refresh
func (h *Handlers) HandleInventoryRefresh(c *fiber.Ctx) error {
	d, s := h.dashboard(c)
	d.Show(views.TabInventory)
	_ = d.Inventory.Refresh(c.UserContext())
	return h.renderDashboard(c, d, s)
}
