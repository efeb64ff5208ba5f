package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/services"
)

type PaymentHandler struct {
	Payment *services.PaymentService
}

type checkoutRequest struct {
	Amount int64 `json:"amount"`
}

// Checkout authorizes a charge against the dummy gateway.
func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	auth, err := h.Payment.Authorize(req.Amount)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(auth)
}
