package services

import (
	"sync"

	"shopfront/internal/cart"
	"shopfront/internal/metrics"
	"shopfront/internal/repos"
)

// CartService owns the lifetime of every session cart. Carts live in
// memory only; the mutex serializes command application so commands from
// rapid UI events land strictly in arrival order, and every mutating call
// returns the post-command snapshot so callers never read stale totals.
type CartService struct {
	Prods *repos.ProductRepo

	mu    sync.Mutex
	carts map[string]cart.Cart
}

func NewCartService(prods *repos.ProductRepo) *CartService {
	return &CartService{Prods: prods, carts: make(map[string]cart.Cart)}
}

// Add captures the product's current name/price/image as a line snapshot
// and merges quantity if the line already exists.
func (s *CartService) Add(sessionID string, productID int64, qty int) (cart.Cart, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return cart.Cart{}, err
	}
	snap := cart.Product{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
	return s.apply(sessionID, cart.AddItem{Product: snap, Quantity: qty}, "add")
}

func (s *CartService) SetQuantity(sessionID string, productID int64, qty int) (cart.Cart, error) {
	return s.apply(sessionID, cart.UpdateQuantity{ProductID: productID, Quantity: qty}, "update")
}

func (s *CartService) Remove(sessionID string, productID int64) (cart.Cart, error) {
	return s.apply(sessionID, cart.RemoveItem{ProductID: productID}, "remove")
}

func (s *CartService) Clear(sessionID string) (cart.Cart, error) {
	return s.apply(sessionID, cart.Clear{}, "clear")
}

// Snapshot returns a copy of the session's cart; absent sessions get the
// empty cart.
func (s *CartService) Snapshot(sessionID string) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(sessionID).Clone()
}

func (s *CartService) apply(sessionID string, cmd cart.Command, name string) (cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cart.Apply(s.get(sessionID), cmd)
	if err != nil {
		return cart.Cart{}, err
	}
	if next.IsEmpty() {
		// No point keeping empty carts around for abandoned sessions.
		delete(s.carts, sessionID)
	} else {
		s.carts[sessionID] = next
	}
	metrics.CartCommands.WithLabelValues(name).Inc()
	return next.Clone(), nil
}

func (s *CartService) get(sessionID string) cart.Cart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	return cart.Empty()
}
