package repos

import (
	"shopfront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES(?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role)
	return err
}

func (r *UserRepo) UpdateProfile(id, email, name string) error {
	_, err := r.DB.Exec(`UPDATE users SET email=?, name=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, email, name, id)
	return err
}

func (r *UserRepo) UpdatePassword(id, hash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, hash, id)
	return err
}

func (r *UserRepo) List() ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT id,email,name,password_hash,role FROM users ORDER BY email`)
	return out, err
}

// DeleteUserCascade cancels the user's orders and drops their saved items,
// keeping order rows for audit.
func (r *UserRepo) DeleteUserCascade(userID string) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE orders SET status='CANCELED' WHERE user_id=? AND status NOT IN ('DELIVERED','CANCELED')`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM saved_items WHERE session_id IN (SELECT session_id FROM orders WHERE user_id=?)`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM users WHERE id=?`, userID); err != nil {
		return err
	}

	return tx.Commit()
}
