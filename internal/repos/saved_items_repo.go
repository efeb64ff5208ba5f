package repos

import (
	"github.com/jmoiron/sqlx"
)

type SavedItemsRepo struct{ db *sqlx.DB }

func NewSavedItemsRepo(db *sqlx.DB) *SavedItemsRepo { return &SavedItemsRepo{db: db} }

type SavedItemRow struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	Name      string `db:"name" json:"name"`
	Price     int64  `db:"price" json:"price"`
	ImageURL  string `db:"image_url" json:"image_url"`
	SavedAt   string `db:"created_at" json:"saved_at"`
}

func (r *SavedItemsRepo) List(sessionID string) ([]SavedItemRow, error) {
	out := []SavedItemRow{}
	err := r.db.Select(&out, `
		SELECT si.product_id, p.name, p.price, COALESCE(p.image_url,'') AS image_url, si.created_at
		FROM saved_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.session_id = ? AND p.active = 1
		ORDER BY si.created_at DESC
	`, sessionID)
	return out, err
}

// Save is idempotent: saving an already-saved product is a no-op.
func (r *SavedItemsRepo) Save(sessionID string, productID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO saved_items(session_id, product_id, created_at)
		VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(session_id, product_id) DO NOTHING
	`, sessionID, productID)
	return err
}

func (r *SavedItemsRepo) Unsave(sessionID string, productID int64) error {
	_, err := r.db.Exec(`DELETE FROM saved_items WHERE session_id=? AND product_id=?`, sessionID, productID)
	return err
}
