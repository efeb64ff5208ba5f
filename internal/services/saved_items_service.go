package services

import (
	"database/sql"
	"errors"

	"shopfront/internal/repos"
)

var ErrUnknownProduct = errors.New("unknown product")

type SavedItemsService struct {
	Saved *repos.SavedItemsRepo
	Prods *repos.ProductRepo
}

func NewSavedItemsService(saved *repos.SavedItemsRepo, prods *repos.ProductRepo) *SavedItemsService {
	return &SavedItemsService{Saved: saved, Prods: prods}
}

func (s *SavedItemsService) List(sessionID string) ([]repos.SavedItemRow, error) {
	return s.Saved.List(sessionID)
}

func (s *SavedItemsService) Save(sessionID string, productID int64) error {
	if _, err := s.Prods.Get(productID); err != nil {
		if err == sql.ErrNoRows {
			return ErrUnknownProduct
		}
		return err
	}
	return s.Saved.Save(sessionID, productID)
}

func (s *SavedItemsService) Unsave(sessionID string, productID int64) error {
	return s.Saved.Unsave(sessionID, productID)
}
