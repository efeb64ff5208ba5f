package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"shopfront/internal/http/handlers"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

// newTestApp wires the JSON API the way cmd/shopfront does, minus the
// network-facing middleware that tests don't exercise.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo, "test-secret", 30*time.Minute)
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())
	app.Use(handlers.AttachUser(authSvc))

	deps := handlers.NewDeps(db)

	api := app.Group("/api")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/products/:id/availability", deps.ProductHandler.Availability)

	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart/items", deps.CartHandler.Add)
	api.Put("/cart/items/:productId", deps.CartHandler.SetQuantity)
	api.Delete("/cart/items/:productId", deps.CartHandler.Remove)
	api.Delete("/cart", deps.CartHandler.Clear)

	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/history", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	api.Get("/orders/:id", deps.OrderHandler.View)
	api.Post("/payments/checkout", deps.PaymentHandler.Checkout)

	api.Get("/saved-items", deps.SavedItemsHandler.List)
	api.Post("/saved-items", deps.SavedItemsHandler.Save)
	api.Delete("/saved-items/:productId", deps.SavedItemsHandler.Unsave)

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{Max: 5, Expiration: time.Minute}), authH.Login)
	api.Get("/auth/me", handlers.RequireUser(authSvc), authH.Me)
	api.Post("/auth/change-password", handlers.RequireUser(authSvc), authH.ChangePassword)
	api.Put("/auth/profile", handlers.RequireUser(authSvc), authH.UpdateProfile)

	admin := api.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Put("/products/:id/stock", deps.AdminHandler.UpdateStock)
	admin.Get("/orders", deps.AdminHandler.Orders)
	admin.Put("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/users", deps.AdminHandler.UsersList)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, mod func(*http.Request)) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mod != nil {
		mod(req)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func withSID(sid string) func(*http.Request) {
	return func(r *http.Request) {
		if sid != "" {
			r.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		}
	}
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func loginAs(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/login", map[string]string{"email": email, "password": password}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s: status %d", email, resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	tok, _ := body["access_token"].(string)
	if tok == "" {
		t.Fatal("no access_token in login response")
	}
	return tok
}
