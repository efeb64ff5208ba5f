package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderRow struct {
	ID            string `db:"id" json:"id"`
	SessionID     string `db:"session_id" json:"-"`
	UserID        string `db:"user_id" json:"user_id,omitempty"`
	CustomerName  string `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail string `db:"customer_email" json:"customer_email,omitempty"`
	Total         int64  `db:"total" json:"total_amount"`
	Status        string `db:"status" json:"status"`
	PaymentRef    string `db:"payment_ref" json:"payment_ref,omitempty"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

type OrderItemRow struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Qty       int    `db:"qty" json:"quantity"`
	Price     int64  `db:"price" json:"unit_price"`
	Subtotal  int64  `db:"subtotal" json:"subtotal"`
}

type OrderItemInput struct {
	ProductID int64
	Qty       int
	Price     int64
}

// Create inserts the order header and its items and decrements stock, all
// in one transaction. The stock guard makes oversell impossible even if a
// concurrent order slipped in between the service's pre-check and here.
func (r *OrderRepo) Create(o OrderRow, items []OrderItemInput) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, session_id, user_id, customer_name, customer_email, total, status, payment_ref, created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, o.UserID, o.CustomerName, o.CustomerEmail, o.Total, o.Status, o.PaymentRef); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, qty, price)
		  VALUES(?,?,?,?)
		`, o.ID, it.ProductID, it.Qty, it.Price); err != nil {
			return err
		}
		res, err := tx.Exec(`
		  UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock >= ?
		`, it.Qty, it.ProductID, it.Qty)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("insufficient stock for product %d", it.ProductID)
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (OrderRow, []OrderItemRow, error) {
	var o OrderRow
	if err := r.db.Get(&o, `
		SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
		       COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
		       total, status, COALESCE(payment_ref,'') AS payment_ref, created_at
		FROM orders WHERE id = ?
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	items := []OrderItemRow{}
	if err := r.db.Select(&items, `
		SELECT oi.product_id, p.name, oi.qty, oi.price, (oi.qty * oi.price) AS subtotal
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY p.name
	`, orderID); err != nil {
		return OrderRow{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]OrderRow, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
		       COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
		       total, status, COALESCE(payment_ref,'') AS payment_ref, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) ListByUser(userID string) ([]OrderRow, error) {
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
		       COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
		       total, status, COALESCE(payment_ref,'') AS payment_ref, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

// ListBySession shows orders placed before the user logged in.
func (r *OrderRepo) ListBySession(sessionID string) ([]OrderRow, error) {
	out := []OrderRow{}
	err := r.db.Select(&out, `
		SELECT id, COALESCE(session_id,'') AS session_id, COALESCE(user_id,'') AS user_id,
		       COALESCE(customer_name,'') AS customer_name, COALESCE(customer_email,'') AS customer_email,
		       total, status, COALESCE(payment_ref,'') AS payment_ref, created_at
		FROM orders
		WHERE session_id = ?
		ORDER BY datetime(created_at) DESC
	`, sessionID)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
