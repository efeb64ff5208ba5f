package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"shopfront/internal/cart"
	"shopfront/internal/repos"
	"shopfront/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestCartServiceAddIsImmediatelyVisible(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	// The snapshot returned by the mutating call must already carry the
	// new totals; no follow-up command or read is needed.
	got, err := svc.Add("sid-1", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.ItemCount != 1 {
		t.Fatalf("item count not visible on the returning snapshot: %d", got.ItemCount)
	}
	if view := svc.Snapshot("sid-1"); view.ItemCount != 1 {
		t.Fatalf("next read disagrees with the command result: %d", view.ItemCount)
	}
}

func TestCartServiceCapturesPriceAtAdd(t *testing.T) {
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	svc := services.NewCartService(prodRepo)

	p, err := prodRepo.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("sid-1", p.ID, 2); err != nil {
		t.Fatal(err)
	}

	// Reprice the catalog; the existing line must keep the old price.
	p.Price += 1000
	if err := prodRepo.Update(p); err != nil {
		t.Fatal(err)
	}

	view := svc.Snapshot("sid-1")
	if view.Lines[0].Price != p.Price-1000 {
		t.Fatalf("line price followed the catalog: %d", view.Lines[0].Price)
	}
	if view.TotalAmount != 2*(p.Price-1000) {
		t.Fatalf("total should use the captured price, got %d", view.TotalAmount)
	}
}

func TestCartServiceSessionsAreIsolated(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	if _, err := svc.Add("sid-a", 1, 2); err != nil {
		t.Fatal(err)
	}
	if got := svc.Snapshot("sid-b"); !got.IsEmpty() {
		t.Fatalf("session b sees session a's cart: %+v", got)
	}
}

func TestCartServiceSnapshotIsDetached(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	if _, err := svc.Add("sid-1", 1, 2); err != nil {
		t.Fatal(err)
	}
	snap := svc.Snapshot("sid-1")
	snap.Lines[0].Quantity = 99

	if again := svc.Snapshot("sid-1"); again.Lines[0].Quantity != 2 {
		t.Fatalf("external mutation reached owned state: %d", again.Lines[0].Quantity)
	}
}

func TestCartServiceRejectsBadQuantityWithoutStateChange(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	if _, err := svc.Add("sid-1", 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add("sid-1", 2, -4); err != cart.ErrInvalidQuantity {
		t.Fatalf("want ErrInvalidQuantity, got %v", err)
	}
	if view := svc.Snapshot("sid-1"); view.ItemCount != 1 || len(view.Lines) != 1 {
		t.Fatalf("state changed on rejected command: %+v", view)
	}
}

func TestCartServiceUpdateToZeroRemoves(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	if _, err := svc.Add("sid-1", 1, 3); err != nil {
		t.Fatal(err)
	}
	got, err := svc.SetQuantity("sid-1", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsEmpty() {
		t.Fatalf("zero quantity should remove the line: %+v", got)
	}
}

func TestCartServiceUnknownProduct(t *testing.T) {
	db := memdb(t)
	svc := services.NewCartService(repos.NewProductRepo(db))

	if _, err := svc.Add("sid-1", 99999, 1); err == nil {
		t.Fatal("expected error adding unknown product")
	}
	if view := svc.Snapshot("sid-1"); !view.IsEmpty() {
		t.Fatalf("failed add changed state: %+v", view)
	}
}
