package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "shopfront/internal/log"
	"shopfront/internal/services"
	"shopfront/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type updateProfileRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name must be 1-50 characters")
	}
	if !validate.Password(req.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 characters with upper, lower and digit")
	}

	u, err := h.Auth.Register(email, name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.register", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not register")
	}

	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if _, ok := validate.Email(req.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	token, u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": req.Email})
	return c.JSON(fiber.Map{"access_token": token, "token_type": "bearer", "user": u})
}

// Logout exists so clients have an explicit endpoint to hit; bearer tokens
// are discarded client-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"message": "logged out"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	u := currentUser(c)
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if !validate.Password(req.NewPassword) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 characters with upper, lower and digit")
	}
	if err := h.Auth.ChangePassword(u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			return jsonError(c, fiber.StatusBadRequest, "incorrect current password")
		}
		applog.Error(c, "auth.change_password", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not change password")
	}
	applog.Audit(c, "auth.change_password", nil)
	return c.JSON(fiber.Map{"message": "password changed"})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	u := currentUser(c)
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed body")
	}
	if req.Email != "" {
		if _, ok := validate.Email(req.Email); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid email")
		}
	}
	if req.Name != "" {
		if _, ok := validate.Name(req.Name); !ok {
			return jsonError(c, fiber.StatusBadRequest, "name must be 1-50 characters")
		}
	}

	updated, err := h.Auth.UpdateProfile(u.ID, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.update_profile", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not update profile")
	}
	applog.Audit(c, "auth.update_profile", nil)
	return c.JSON(updated)
}
