package handlers_test

import (
	"net/http"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

func TestProductListAndSearch(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/products", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	page := decode[services.ProductPage](t, resp)
	if page.Total != 5 || len(page.Items) != 5 {
		t.Fatalf("seeded catalog: %+v", page)
	}

	resp = doJSON(t, app, "GET", "/api/products?q=keyboard", nil, nil)
	page = decode[services.ProductPage](t, resp)
	if page.Total != 1 || page.Items[0].ID != 1 {
		t.Fatalf("search: %+v", page)
	}

	resp = doJSON(t, app, "GET", "/api/products?page=1&page_size=2", nil, nil)
	page = decode[services.ProductPage](t, resp)
	if len(page.Items) != 2 || page.Total != 5 || page.PageSize != 2 {
		t.Fatalf("pagination: %+v", page)
	}

	// SQL metacharacters in q are rejected, not passed through
	resp = doJSON(t, app, "GET", "/api/products?q=%27%3BDROP+TABLE", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("hostile query: status %d", resp.StatusCode)
	}
}

func TestProductDetail(t *testing.T) {
	app, db := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/products/1", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	p := decode[domain.Product](t, resp)
	if p.Name != "Mechanical Keyboard" || p.Price != 8900 {
		t.Fatalf("product payload: %+v", p)
	}

	resp = doJSON(t, app, "GET", "/api/products/99999", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing product: status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/products/abc", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("non-numeric id: status %d", resp.StatusCode)
	}

	// deactivated products disappear from the public surface
	if err := repos.NewProductRepo(db).Deactivate(1); err != nil {
		t.Fatal(err)
	}
	resp = doJSON(t, app, "GET", "/api/products/1", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("inactive product: status %d", resp.StatusCode)
	}
}

func TestProductAvailability(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		id   string
		want string
	}{
		{"1", "IN_STOCK"},     // stock 12
		{"4", "IN_STOCK"},     // stock 5, boundary
		{"5", "OUT_OF_STOCK"}, // stock 0
		{"99999", "OUT_OF_STOCK"},
	}

	for _, tc := range cases {
		resp := doJSON(t, app, "GET", "/api/products/"+tc.id+"/availability", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("product %s: status %d", tc.id, resp.StatusCode)
		}
		got := decode[domain.Availability](t, resp)
		if got.Status != tc.want {
			t.Fatalf("product %s: want %s, got %s", tc.id, tc.want, got.Status)
		}
	}
}

func TestAvailabilityLowStockBoundary(t *testing.T) {
	app, db := newTestApp(t)

	if err := repos.NewProductRepo(db).SetStock(2, 4); err != nil {
		t.Fatal(err)
	}
	resp := doJSON(t, app, "GET", "/api/products/2/availability", nil, nil)
	got := decode[domain.Availability](t, resp)
	if got.Status != "LOW_STOCK" || got.Qty != 4 {
		t.Fatalf("want LOW_STOCK qty 4, got %+v", got)
	}
}

func TestSavedItemsFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/saved-items", map[string]any{"product_id": 1}, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("save: status %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")

	// saving twice is a no-op
	resp = doJSON(t, app, "POST", "/api/saved-items", map[string]any{"product_id": 1}, withSID(sid))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("re-save: status %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/saved-items", map[string]any{"product_id": 99999}, withSID(sid))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown product: status %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/api/saved-items", nil, withSID(sid))
	body := decode[map[string][]repos.SavedItemRow](t, resp)
	if len(body["items"]) != 1 || body["items"][0].ProductID != 1 {
		t.Fatalf("list: %+v", body)
	}

	resp = doJSON(t, app, "DELETE", "/api/saved-items/1", nil, withSID(sid))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unsave: status %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/saved-items", nil, withSID(sid))
	body = decode[map[string][]repos.SavedItemRow](t, resp)
	if len(body["items"]) != 0 {
		t.Fatalf("list after unsave: %+v", body)
	}
}
