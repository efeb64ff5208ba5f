package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopfront/internal/config"
	"shopfront/internal/http/handlers"
	applog "shopfront/internal/log"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/metrics") || strings.HasPrefix(p, "/healthz")
		},
	}))
	// Attach user to context if a valid bearer token came along
	app.Use(handlers.AttachUser(authSvc))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db)

	api := app.Group("/api")

	// Catalog
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/products/:id/availability", availLimiter, deps.ProductHandler.Availability)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Put("/cart/items/:productId", deps.CartHandler.SetQuantity)
	api.Delete("/cart/items/:productId", deps.CartHandler.Remove)
	api.Delete("/cart", deps.CartHandler.Clear)

	// Orders & payments
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/history", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	api.Get("/orders/:id", deps.OrderHandler.View)
	api.Post("/payments/checkout", deps.PaymentHandler.Checkout)

	// Saved items
	api.Get("/saved-items", deps.SavedItemsHandler.List)
	api.Post("/saved-items", deps.SavedItemsHandler.Save)
	api.Delete("/saved-items/:productId", deps.SavedItemsHandler.Unsave)

	// Auth (login throttled)
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, please try again later"})
		},
	}), authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/me", handlers.RequireUser(authSvc), authH.Me)
	api.Post("/auth/change-password", handlers.RequireUser(authSvc), authH.ChangePassword)
	api.Put("/auth/profile", handlers.RequireUser(authSvc), authH.UpdateProfile)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Put("/products/:id/stock", deps.AdminHandler.UpdateStock)
	admin.Get("/orders", deps.AdminHandler.Orders)
	admin.Put("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/users", deps.AdminHandler.UsersList)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
