package domain

type Product struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"` // minor currency units
	Stock       int    `db:"stock" json:"stock"`
	ImageURL    string `db:"image_url" json:"image_url"`
	Category    string `db:"category" json:"category,omitempty"`
	Active      bool   `db:"active" json:"-"`
	CreatedAt   string `db:"created_at" json:"created_at"`
	UpdatedAt   string `db:"updated_at" json:"updated_at,omitempty"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// Order statuses. Orders are created PAID because the payment collaborator
// is a dummy authorizer; admins move them along from there.
const (
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCanceled  = "CANCELED"
)
