package repos

import (
	"shopfront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, price, stock,
  COALESCE(image_url,'') AS image_url, COALESCE(category,'') AS category,
  active, created_at, COALESCE(updated_at,'') AS updated_at`

// List returns one page of active products plus the total match count.
func (r *ProductRepo) List(q, category string, limit, offset int) ([]domain.Product, int, error) {
	where := `active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM products WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	out := []domain.Product{}
	query := `SELECT ` + productCols + ` FROM products WHERE ` + where + `
	  ORDER BY created_at DESC, id DESC
	  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	if err := r.db.Select(&out, query, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Create(p domain.Product) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO products(name,description,price,stock,image_url,category,active,created_at)
	  VALUES(?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.Category)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, description=?, price=?, stock=?, image_url=?, category=?, updated_at=CURRENT_TIMESTAMP
	  WHERE id=?
	`, p.Name, p.Description, p.Price, p.Stock, p.ImageURL, p.Category, p.ID)
	return err
}

// Deactivate soft-deletes a product; existing order rows keep referencing it.
func (r *ProductRepo) Deactivate(id int64) error {
	_, err := r.db.Exec(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *ProductRepo) SetStock(id int64, stock int) error {
	_, err := r.db.Exec(`UPDATE products SET stock=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, stock, id)
	return err
}

func (r *ProductRepo) Stock(id int64) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM products WHERE id = ? AND active = 1`, id)
	return qty, err
}
