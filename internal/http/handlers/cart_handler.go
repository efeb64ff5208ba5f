package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/cart"
	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// View returns the session cart snapshot, totals included.
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.Snapshot(ensureSID(c)))
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if req.ProductID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "missing product_id")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity > 1000 {
		return jsonError(c, fiber.StatusBadRequest, "invalid quantity")
	}

	next, err := h.Cart.Add(sid, req.ProductID, req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": req.ProductID, "qty": req.Quantity, "item_count": next.ItemCount})
	return c.JSON(next)
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ProductID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	var req setQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if req.Quantity > 1000 {
		return jsonError(c, fiber.StatusBadRequest, "invalid quantity")
	}

	// Quantity <= 0 removes the line; the engine enforces that no stored
	// line ever carries a non-positive quantity.
	next, err := h.Cart.SetQuantity(sid, pid, req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(next)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := validate.ProductID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	next, err := h.Cart.Remove(sid, pid)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(next)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	next, err := h.Cart.Clear(ensureSID(c))
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(next)
}

func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct):
		applog.Security(c, "validation.fail", map[string]any{"field": "cart", "error": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		return jsonError(c, fiber.StatusNotFound, "product not found")
	default:
		applog.Error(c, "cart.command", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "cart unavailable")
	}
}
