package services

import (
	"database/sql"

	"shopfront/internal/domain"
	"shopfront/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

type ProductPage struct {
	Items    []domain.Product `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (s *CatalogService) List(q, category string, page, pageSize int) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	items, total, err := s.Prods.List(q, category, pageSize, offset)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *CatalogService) Get(id int64) (domain.Product, error) {
	return s.Prods.Get(id)
}

// CheckAvailability maps the product's stock level onto the coarse status
// the frontend renders.
func (s *CatalogService) CheckAvailability(id int64) (domain.Availability, error) {
	qty, err := s.Prods.Stock(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}
