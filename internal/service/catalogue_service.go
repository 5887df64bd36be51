package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/samber/lo"
)

type CatalogueService struct {
	products port.ProductRepository
	now      func() time.Time
}

func NewCatalogueService(products port.ProductRepository) (*CatalogueService, error) {
	if products == nil {
		return nil, errors.New("products repository is nil")
	}

	return &CatalogueService{products: products, now: time.Now}, nil
}

// UpsertProduct creates the product when product.ID is empty, otherwise updates it.
// Only the owning seller may update, anyone else gets domain.ErrProductNotFound.
// An update carries the version it was based on, so it never overwrites a concurrent stock decrement.
func (s *CatalogueService) UpsertProduct(ctx context.Context, sellerID string, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if sellerID == "" {
		return p, fmt.Errorf("sellerID is empty: %w", domain.ErrValidation)
	}
	product.SellerID = sellerID

	if product.ID == uuid.Nil {
		if product.IsExpired(s.now()) {
			return p, fmt.Errorf("expiry is in the past: %w", domain.ErrValidation)
		}

		inserted, err := s.products.InsertProduct(ctx, product)
		if err != nil {
			return p, fmt.Errorf("products.InsertProduct: %w", err)
		}
		return inserted, nil
	}

	updated, err := s.products.UpdateProduct(ctx, product)
	if err != nil {
		return p, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	return updated, nil
}

// ListAvailable returns what a client can buy today, sorted by name.
func (s *CatalogueService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.SearchProducts(ctx, domain.ProductFilter{
		Statuses:     []domain.ProductStatus{domain.ProductStatusAvailable},
		InStock:      true,
		NotExpiredAt: lo.ToPtr(s.now().UTC()),
	})
	if err != nil {
		return nil, fmt.Errorf("products.SearchProducts: %w", err)
	}

	return products, nil
}

func (s *CatalogueService) ListForSeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("sellerID is empty: %w", domain.ErrValidation)
	}

	products, err := s.products.SearchProducts(ctx, domain.ProductFilter{
		SellerIDs: []string{sellerID},
	})
	if err != nil {
		return nil, fmt.Errorf("products.SearchProducts: %w", err)
	}

	return products, nil
}

func (s *CatalogueService) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return product, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}
