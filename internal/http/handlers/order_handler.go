package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

type placeOrderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	repos.OrderRow
	Items []repos.OrderItemRow `json:"items,omitempty"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}

	contact := services.Contact{}
	if req.Email != "" {
		email, ok := validate.Email(req.Email)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
		contact.Email = email
	}
	if req.Name != "" {
		name, ok := validate.Name(req.Name)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "name"})
			return jsonError(c, fiber.StatusBadRequest, "name must be 1-50 characters")
		}
		contact.Name = name
	}

	// Logged-in users get the order tied to their account; contact
	// defaults come from the profile.
	userID := ""
	if u := currentUser(c); u != nil {
		userID = u.ID
		if contact.Name == "" {
			contact.Name = u.Name
		}
		if contact.Email == "" {
			contact.Email = u.Email
		}
	}

	order, err := h.Order.Place(sid, userID, contact)
	if err != nil {
		if errors.Is(err, services.ErrCartEmpty) {
			return jsonError(c, fiber.StatusBadRequest, "cart empty")
		}
		// Business-rule failures (missing product, insufficient stock,
		// declined payment) surface as 400, never 500.
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	applog.Audit(c, "order.place", map[string]any{"order_id": order.ID, "total": order.Total})
	_, items, _ := h.Repo.Get(order.ID)
	return c.Status(fiber.StatusCreated).JSON(orderResponse{OrderRow: order, Items: items})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := strings.TrimSpace(c.Params("id"))
	if oid == "" {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	// Ownership: the placing session, the owning user, or an admin.
	sid := c.Cookies("sid")
	u := currentUser(c)
	owner := (sid != "" && sid == o.SessionID) || (u != nil && u.ID == o.UserID)
	admin := u != nil && u.IsAdmin()
	if !owner && !admin {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	return c.JSON(orderResponse{OrderRow: o, Items: items})
}

// History lists the logged-in user's orders, falling back to the session's
// orders when none are linked to the account yet.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authorization required")
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return c.JSON(fiber.Map{"orders": orders})
}
