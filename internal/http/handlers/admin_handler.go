package handlers

import (
	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/validate"
)

type AdminHandler struct {
	Prods  *repos.ProductRepo
	OrdersRepo *repos.OrderRepo
	Users  *repos.UserRepo
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
}

func (r productRequest) validate() (string, bool) {
	if _, ok := validate.Name(r.Name); !ok {
		return "name must be 1-50 characters", false
	}
	if r.Price < 0 {
		return "price must be non-negative", false
	}
	if r.Stock < 0 {
		return "stock must be non-negative", false
	}
	return "", true
}

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if msg, ok := req.validate(); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	id, err := h.Prods.Create(domain.Product{
		Name: req.Name, Description: req.Description, Price: req.Price,
		Stock: req.Stock, ImageURL: req.ImageURL, Category: req.Category,
	})
	if err != nil {
		applog.Error(c, "admin.product.create", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not create product")
	}

	applog.Audit(c, "admin.product.create", map[string]any{"product_id": id})
	p, err := h.Prods.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "could not load product")
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if _, err := h.Prods.Get(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if msg, ok := req.validate(); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	err := h.Prods.Update(domain.Product{
		ID: id, Name: req.Name, Description: req.Description, Price: req.Price,
		Stock: req.Stock, ImageURL: req.ImageURL, Category: req.Category,
	})
	if err != nil {
		applog.Error(c, "admin.product.update", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not update product")
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	p, _ := h.Prods.Get(id)
	return c.JSON(p)
}

// DeleteProduct soft-deletes: the row stays for order history.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err := h.Prods.Deactivate(id); err != nil {
		applog.Error(c, "admin.product.delete", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not delete product")
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

type stockRequest struct {
	Stock int `json:"stock"`
}

func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	id, ok := validate.ProductID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	var req stockRequest
	if err := c.BodyParser(&req); err != nil || req.Stock < 0 {
		return jsonError(c, fiber.StatusBadRequest, "stock must be non-negative")
	}
	if err := h.Prods.SetStock(id, req.Stock); err != nil {
		applog.Error(c, "admin.stock.update", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not update stock")
	}
	applog.Audit(c, "admin.stock.update", map[string]any{"product_id": id, "stock": req.Stock})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	orders, err := h.OrdersRepo.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "admin.orders.list", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	oid := c.Params("id")
	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	status, ok := validate.OrderStatus(req.Status)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}
	if _, _, err := h.OrdersRepo.Get(oid); err != nil {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}
	if err := h.OrdersRepo.UpdateStatus(oid, status); err != nil {
		applog.Error(c, "admin.order.status", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not update order")
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": oid, "status": status})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AdminHandler) UsersList(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load users")
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	uid := c.Params("id")
	if uid == "" {
		return jsonError(c, fiber.StatusNotFound, "user not found")
	}
	if u := currentUser(c); u != nil && u.ID == uid {
		return jsonError(c, fiber.StatusBadRequest, "cannot delete your own account")
	}
	if err := h.Users.DeleteUserCascade(uid); err != nil {
		applog.Error(c, "admin.user.delete", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not delete user")
	}
	applog.Audit(c, "admin.user.delete", map[string]any{"user_id": uid})
	return c.SendStatus(fiber.StatusNoContent)
}
