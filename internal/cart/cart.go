// Package cart implements the shopping cart as a pure state machine.
// Commands go in, a new cart value comes out; the engine performs no I/O
// and never mutates its input, so callers can hand out snapshots freely.
package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidProduct  = errors.New("product reference missing id")
)

// Product is the catalog snapshot the engine consumes when adding a line.
// Price is in minor currency units.
type Product struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image_url"`
}

// Line is one product's entry in the cart. Name, price and image are
// captured at add time and do not track later catalog changes.
type Line struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url"`
}

// Cart holds the ordered line collection plus derived aggregates.
// ItemCount and TotalAmount are recomputed from Lines after every
// transition, never patched incrementally.
type Cart struct {
	Lines       []Line `json:"items"`
	ItemCount   int    `json:"item_count"`
	TotalAmount int64  `json:"total_amount"`
}

type Totals struct {
	ItemCount   int   `json:"item_count"`
	TotalAmount int64 `json:"total_amount"`
}

// Empty returns the canonical empty cart.
func Empty() Cart { return Cart{Lines: []Line{}} }

// Command is one of the four cart transitions.
type Command interface{ isCommand() }

type AddItem struct {
	Product  Product
	Quantity int
}

type RemoveItem struct {
	ProductID int64
}

type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

type Clear struct{}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}

// DeriveTotals recomputes the aggregates from scratch.
func DeriveTotals(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.TotalAmount += l.Price * int64(l.Quantity)
	}
	return t
}

// Apply runs one command against the cart and returns the next state.
// Validation failures leave the input state untouched and are the only
// error cases; removing or updating an absent product id is a no-op.
func Apply(state Cart, cmd Command) (Cart, error) {
	switch c := cmd.(type) {
	case AddItem:
		return applyAdd(state, c)
	case RemoveItem:
		return applyRemove(state, c.ProductID)
	case UpdateQuantity:
		return applyUpdate(state, c.ProductID, c.Quantity)
	case Clear:
		return Empty(), nil
	default:
		// Unknown commands change nothing.
		return state, nil
	}
}

func applyAdd(state Cart, c AddItem) (Cart, error) {
	if c.Product.ID <= 0 {
		return state, ErrInvalidProduct
	}
	if c.Quantity <= 0 {
		return state, ErrInvalidQuantity
	}

	lines := make([]Line, len(state.Lines))
	copy(lines, state.Lines)

	merged := false
	for i := range lines {
		if lines[i].ProductID == c.Product.ID {
			// Repeated adds accumulate; the line keeps its original snapshot.
			lines[i].Quantity += c.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{
			ProductID: c.Product.ID,
			Name:      c.Product.Name,
			Price:     c.Product.Price,
			Quantity:  c.Quantity,
			ImageURL:  c.Product.ImageURL,
		})
	}
	return withTotals(lines), nil
}

func applyRemove(state Cart, productID int64) (Cart, error) {
	lines := make([]Line, 0, len(state.Lines))
	for _, l := range state.Lines {
		if l.ProductID != productID {
			lines = append(lines, l)
		}
	}
	if len(lines) == len(state.Lines) {
		return state, nil
	}
	return withTotals(lines), nil
}

func applyUpdate(state Cart, productID int64, qty int) (Cart, error) {
	// Zero or negative quantity means the line goes away entirely; a
	// non-positive quantity must never be admitted into stored state.
	if qty <= 0 {
		return applyRemove(state, productID)
	}
	found := false
	lines := make([]Line, len(state.Lines))
	copy(lines, state.Lines)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		return state, nil
	}
	return withTotals(lines), nil
}

func withTotals(lines []Line) Cart {
	t := DeriveTotals(lines)
	return Cart{Lines: lines, ItemCount: t.ItemCount, TotalAmount: t.TotalAmount}
}

// Clone returns a deep copy so external readers never share line storage
// with the owner's state.
func (c Cart) Clone() Cart {
	out := c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool { return c.ItemCount == 0 }

// Find returns the line for a product id, if present.
func (c Cart) Find(productID int64) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}
