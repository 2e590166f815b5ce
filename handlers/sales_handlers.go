package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"retaildash/views"
)

// HandleRecordSale submits the sales form.
// POST /sales
func (h *Handlers) HandleRecordSale(c *fiber.Ctx) error {
	var fields views.SaleFields
	if err := c.BodyParser(&fields); err != nil {
		h.Log.Warn("Error parsing sale form", zap.Error(err))
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse sale form")
	}

	d, s := h.dashboard(c)
	d.Activate(c.UserContext(), views.TabSales)
	_, err := d.Sales.Submit(c.UserContext(), fields)
	c.Status(statusFor(err))
	return h.renderDashboard(c, d, s)
}
