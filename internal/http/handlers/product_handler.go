package handlers

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := ""
	if rawQ := strings.TrimSpace(c.Query("q")); rawQ != "" {
		var ok bool
		if q, ok = validate.Q(rawQ); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return jsonError(c, fiber.StatusBadRequest, "invalid search query")
		}
		q = strings.ToLower(q)
	}

	category := ""
	if rawCat := strings.TrimSpace(c.Query("category")); rawCat != "" {
		var ok bool
		if category, ok = validate.Category(rawCat); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	res, err := h.Catalog.List(q, category, page, pageSize)
	if err != nil {
		applog.Error(c, "products.list", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(res)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	p, err := h.Catalog.Get(id)
	if err != nil || !p.Active {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	return c.JSON(p)
}

func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	avail, err := h.Catalog.CheckAvailability(id)
	if err != nil && err != sql.ErrNoRows {
		applog.Error(c, "availability.check", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not check availability")
	}
	return c.JSON(avail)
}
