package shop

import (
	"context"
	"fmt"
	"strings"
)

// CatalogService creates and lists products.
type CatalogService struct {
	Store ProductStore
}

func NewCatalogService(s ProductStore) *CatalogService {
	return &CatalogService{Store: s}
}

// Create stores p verbatim and returns the id assigned by the store.
func (s *CatalogService) Create(ctx context.Context, p Product) (string, error) {
	if err := validateProduct(p); err != nil {
		return "", err
	}
	if p.Sizes == nil {
		p.Sizes = []Size{}
	}
	p.ID = ""
	id, err := s.Store.InsertProduct(ctx, p)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

func (s *CatalogService) List(ctx context.Context, f ProductFilter, limit, offset int) (ProductPage, error) {
	if err := validateWindow(limit, offset); err != nil {
		return ProductPage{}, err
	}
	ps, err := s.Store.FindProducts(ctx, f, limit, offset)
	if err != nil {
		return ProductPage{}, fmt.Errorf("find products: %w", err)
	}
	if ps == nil {
		ps = []Product{}
	}
	return ProductPage{Data: ps, Page: NewPage(limit, offset, len(ps))}, nil
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	for _, sz := range p.Sizes {
		if sz.Quantity < 0 {
			return fmt.Errorf("%w: quantity for size %q must not be negative", ErrValidation, sz.Size)
		}
	}
	return nil
}

func validateWindow(limit, offset int) error {
	if limit < 1 || limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxLimit)
	}
	if offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrValidation)
	}
	return nil
}
