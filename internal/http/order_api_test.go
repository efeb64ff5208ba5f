package handlers_test

import (
	"net/http"
	"testing"

	"shopfront/internal/cart"
	"shopfront/internal/repos"
)

type orderBody struct {
	repos.OrderRow
	Items []repos.OrderItemRow `json:"items"`
}

func TestPlaceOrderFromSessionCart(t *testing.T) {
	app, db := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/cart/items", map[string]any{"product_id": 1, "quantity": 2}, nil)
	sid := extractCookie(resp, "sid")
	added := decode[cart.Cart](t, resp)

	resp = doJSON(t, app, "POST", "/api/orders", map[string]string{"name": "Tester", "email": "t@e.com"}, withSID(sid))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	order := decode[orderBody](t, resp)
	if order.ID == "" || order.Status != "PAID" {
		t.Fatalf("bad order: %+v", order.OrderRow)
	}
	if order.Total != added.TotalAmount {
		t.Fatalf("order total %d != cart total %d", order.Total, added.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Qty != 2 {
		t.Fatalf("bad items: %+v", order.Items)
	}

	// cart is empty afterwards
	resp = doJSON(t, app, "GET", "/api/cart", nil, withSID(sid))
	view := decode[cart.Cart](t, resp)
	if view.ItemCount != 0 {
		t.Fatalf("cart not cleared: %+v", view)
	}

	// stock went down
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id=1`); err != nil {
		t.Fatal(err)
	}
	if stock != 10 {
		t.Fatalf("want stock 10 after order, got %d", stock)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/orders", map[string]string{"name": "Tester", "email": "t@e.com"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestOrderViewOwnership(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/cart/items", map[string]any{"product_id": 2, "quantity": 1}, nil)
	sid := extractCookie(resp, "sid")
	resp = doJSON(t, app, "POST", "/api/orders", nil, withSID(sid))
	order := decode[orderBody](t, resp)

	// owner session sees it
	resp = doJSON(t, app, "GET", "/api/orders/"+order.ID, nil, withSID(sid))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner view: status %d", resp.StatusCode)
	}

	// a stranger session gets 404, not 403, to avoid confirming existence
	resp = doJSON(t, app, "GET", "/api/orders/"+order.ID, nil, withSID("other-session"))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("stranger view: status %d", resp.StatusCode)
	}

	// an admin token sees it
	adminTok := loginAs(t, app, "admin@shopfront.test", "Passw0rd!")
	resp = doJSON(t, app, "GET", "/api/orders/"+order.ID, nil, withBearer(adminTok))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin view: status %d", resp.StatusCode)
	}
}

func TestOrderHistoryRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/orders/history", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestOrderHistoryListsUserOrders(t *testing.T) {
	app, _ := newTestApp(t)

	tok := loginAs(t, app, "alice@shopfront.test", "Passw0rd!")

	resp := doJSON(t, app, "POST", "/api/cart/items", map[string]any{"product_id": 1, "quantity": 1}, nil)
	sid := extractCookie(resp, "sid")

	// placing with a bearer token links the order to the account
	resp = doJSON(t, app, "POST", "/api/orders", nil, func(r *http.Request) {
		withSID(sid)(r)
		withBearer(tok)(r)
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place: status %d", resp.StatusCode)
	}
	placed := decode[orderBody](t, resp)
	if placed.CustomerEmail != "alice@shopfront.test" {
		t.Fatalf("contact should default to the profile: %+v", placed.OrderRow)
	}

	resp = doJSON(t, app, "GET", "/api/orders/history", nil, withBearer(tok))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: status %d", resp.StatusCode)
	}
	body := decode[map[string][]repos.OrderRow](t, resp)
	if len(body["orders"]) != 1 || body["orders"][0].ID != placed.ID {
		t.Fatalf("bad history: %+v", body)
	}
}

func TestPaymentCheckout(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/payments/checkout", map[string]any{"amount": 5000}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["status"] != "authorized" || body["transaction_id"] == "" {
		t.Fatalf("bad authorization: %+v", body)
	}

	resp = doJSON(t, app, "POST", "/api/payments/checkout", map[string]any{"amount": 0}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("zero amount: status %d", resp.StatusCode)
	}
}
