package handlers

import (
	"github.com/jmoiron/sqlx"

	"shopfront/internal/repos"
	"shopfront/internal/services"
)

type Deps struct {
	ProductHandler    *ProductHandler
	CartHandler       *CartHandler
	OrderHandler      *OrderHandler
	PaymentHandler    *PaymentHandler
	SavedItemsHandler *SavedItemsHandler
	AdminHandler      *AdminHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	userRepo := repos.NewUserRepo(db)
	savedRepo := repos.NewSavedItemsRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(prodRepo)
	paymentSvc := services.NewPaymentService()
	orderSvc := services.NewOrderService(cartSvc, orderRepo, prodRepo, paymentSvc)
	savedSvc := services.NewSavedItemsService(savedRepo, prodRepo)

	return &Deps{
		ProductHandler:    &ProductHandler{Catalog: catalogSvc},
		CartHandler:       &CartHandler{Cart: cartSvc},
		OrderHandler:      &OrderHandler{Order: orderSvc, Repo: orderRepo},
		PaymentHandler:    &PaymentHandler{Payment: paymentSvc},
		SavedItemsHandler: &SavedItemsHandler{Saved: savedSvc},
		AdminHandler:      &AdminHandler{Prods: prodRepo, OrdersRepo: orderRepo, Users: userRepo},
	}
}
