package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	GetProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error)

	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	// UpdateProduct only touches a product owned by product.SellerID whose version still equals product.Version,
	// a stale version fails with domain.ErrStaleVersion.
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)

	// DecrementStock atomically subtracts amount, never going below zero.
	DecrementStock(ctx context.Context, productID uuid.UUID, amount int) (domain.Product, error)
}
