package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"retaildash/views"
)

func formStore(c *fiber.Ctx) (int64, error) {
	storeID, err := strconv.ParseInt(c.FormValue("store", "1"), 10, 64)
	if err != nil || storeID < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid store")
	}
	return storeID, nil
}

// HandleAbcAnalysis runs the ABC analysis for a store and period.
// POST /abc-analysis
func (h *Handlers) HandleAbcAnalysis(c *fiber.Ctx) error {
	storeID, err := formStore(c)
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(c.FormValue("days", strconv.Itoa(views.DefaultAbcDays)))
	if err != nil || days < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid analysis period")
	}

	d, s := h.dashboard(c)
	d.Activate(c.UserContext(), views.TabAbcAnalysis)
	_ = d.Abc.Run(c.UserContext(), storeID, days)
	return h.renderDashboard(c, d, s)
}

// HandleReorder fetches reorder recommendations for a store.
// POST /reorder
func (h *Handlers) HandleReorder(c *fiber.Ctx) error {
	storeID, err := formStore(c)
	if err != nil {
		return err
	}

	d, s := h.dashboard(c)
	d.Activate(c.UserContext(), views.TabReorder)
	_ = d.Reorder.Fetch(c.UserContext(), storeID)
	return h.renderDashboard(c, d, s)
}

// HandleOrderNow confirms an order locally; nothing is sent to the backend.
// POST /reorder/order
func (h *Handlers) HandleOrderNow(c *fiber.Ctx) error {
	name := c.FormValue("productName")
	qty, err := strconv.Atoi(c.FormValue("quantity"))
	if name == "" || err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid order")
	}

	d, s := h.dashboard(c)
	d.Activate(c.UserContext(), views.TabReorder)
	msg := d.Reorder.OrderNow(name, qty)
	h.Log.Info(msg, zap.String("user", s.Username))
	return h.renderDashboard(c, d, s)
}

// HandleExplainReorder asks the AI assistant to summarize the current recommendations.
// POST /reorder/explain
func (h *Handlers) HandleExplainReorder(c *fiber.Ctx) error {
	d, s := h.dashboard(c)
	d.Activate(c.UserContext(), views.TabReorder)
	_, err := d.Reorder.Explain(c.UserContext())
	c.Status(statusFor(err))
	return h.renderDashboard(c, d, s)
}
