package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type SavedItemsHandler struct {
	Saved *services.SavedItemsService
}

type saveItemRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *SavedItemsHandler) List(c *fiber.Ctx) error {
	items, err := h.Saved.List(ensureSID(c))
	if err != nil {
		applog.Error(c, "saved.list", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load saved items")
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *SavedItemsHandler) Save(c *fiber.Ctx) error {
	var req saveItemRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "missing product_id")
	}
	if err := h.Saved.Save(ensureSID(c), req.ProductID); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		applog.Error(c, "saved.save", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not save item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SavedItemsHandler) Unsave(c *fiber.Ctx) error {
	pid, ok := validate.ProductID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Saved.Unsave(ensureSID(c), pid); err != nil {
		applog.Error(c, "saved.unsave", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not remove item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
