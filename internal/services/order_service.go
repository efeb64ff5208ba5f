package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shopfront/internal/domain"
	"shopfront/internal/metrics"
	"shopfront/internal/repos"
)

var ErrCartEmpty = errors.New("cart empty")

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Cart    *CartService
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Payment *PaymentService
}

func NewOrderService(cartSvc *CartService, orders *repos.OrderRepo, prods *repos.ProductRepo, payment *PaymentService) *OrderService {
	return &OrderService{Cart: cartSvc, Orders: orders, Prods: prods, Payment: payment}
}

// Place turns the session's cart into an order: re-validate every line
// against the catalog, pre-check stock, authorize payment, then write the
// order and decrement stock in one transaction. The cart is cleared only
// after the order committed.
func (s *OrderService) Place(sessionID, userID string, contact Contact) (repos.OrderRow, error) {
	snap := s.Cart.Snapshot(sessionID)
	if snap.IsEmpty() {
		return repos.OrderRow{}, ErrCartEmpty
	}

	items := make([]repos.OrderItemInput, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		p, err := s.Prods.Get(l.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return repos.OrderRow{}, fmt.Errorf("product %d not found", l.ProductID)
			}
			return repos.OrderRow{}, err
		}
		if l.Quantity <= 0 {
			return repos.OrderRow{}, fmt.Errorf("invalid quantity for product %d", l.ProductID)
		}
		if p.Stock < l.Quantity {
			return repos.OrderRow{}, fmt.Errorf("insufficient stock for %s (need %d, have %d)", p.Name, l.Quantity, p.Stock)
		}
		// The line's captured price is what the customer saw; charge that,
		// not the current catalog price.
		items = append(items, repos.OrderItemInput{ProductID: l.ProductID, Qty: l.Quantity, Price: l.Price})
	}

	auth, err := s.Payment.Authorize(snap.TotalAmount)
	if err != nil {
		return repos.OrderRow{}, fmt.Errorf("payment: %w", err)
	}
	if auth.Status != "authorized" {
		return repos.OrderRow{}, errors.New("payment declined")
	}

	order := repos.OrderRow{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		UserID:        userID,
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		Total:         snap.TotalAmount,
		Status:        domain.OrderPaid,
		PaymentRef:    auth.TransactionID,
	}
	if err := s.Orders.Create(order, items); err != nil {
		return repos.OrderRow{}, err
	}

	_, _ = s.Cart.Clear(sessionID)
	metrics.OrdersPlaced.Inc()
	return order, nil
}
