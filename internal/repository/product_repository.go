package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/surplus/internal/db"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type productRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:    db.New(tx),
		dbtx: tx, // use provided transaction instead
	}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("q.GetProduct: %w", domain.ErrProductNotFound)
		}
		return p, fmt.Errorf("q.GetProduct: %w", err)
	}

	p, err = mapDBProductToDomain(dbProduct)
	if err != nil {
		return p, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, nil
}

func (r *productRepository) GetProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	result := make(map[uuid.UUID]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	dbProducts, err := r.q.GetProducts(ctx, lo.Uniq(productIDs))
	if err != nil {
		return nil, fmt.Errorf("q.GetProducts: %w", err)
	}

	for _, dbProduct := range dbProducts {
		p, err := mapDBProductToDomain(dbProduct)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		result[p.ID] = p
	}

	return result, nil
}

func (r *productRepository) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	statuses := lo.Map(filter.Statuses, func(s domain.ProductStatus, _ int) string {
		return string(s)
	})

	dbProducts, err := r.q.SearchProducts(ctx, db.SearchProductsParams{
		Ids:          nilSliceIfEmpty(filter.IDs),
		SellerIds:    nilSliceIfEmpty(filter.SellerIDs),
		Statuses:     nilSliceIfEmpty(statuses),
		InStock:      filter.InStock,
		NotExpiredAt: filter.NotExpiredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("q.SearchProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(dbProducts))
	for _, dbProduct := range dbProducts {
		p, err := mapDBProductToDomain(dbProduct)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	product = product.Normalize()
	if err := product.Validate(); err != nil {
		return p, fmt.Errorf("product.Validate: %w", err)
	}

	dbProduct, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		SellerID:      product.SellerID,
		Name:          product.Name,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Quantity:      int32(product.Quantity),
		Status:        string(product.Status),
		Expiry:        product.Expiry,
	})
	if err != nil {
		return p, fmt.Errorf("q.InsertProduct: %w", err)
	}

	p, err = mapDBProductToDomain(dbProduct)
	if err != nil {
		return p, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	var p domain.Product

	if product.ID == uuid.Nil {
		return p, fmt.Errorf("productID is empty")
	}
	if product.Version < 1 {
		return p, fmt.Errorf("version is empty: %w", domain.ErrValidation)
	}

	product = product.Normalize()
	if err := product.Validate(); err != nil {
		return p, fmt.Errorf("product.Validate: %w", err)
	}

	p, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Product, error) {
		dbProduct, err := q.UpdateProduct(ctx, db.UpdateProductParams{
			ID:            product.ID,
			SellerID:      product.SellerID,
			Name:          product.Name,
			PriceAmount:   product.Price.Amount,
			PriceCurrency: product.Price.Currency.String(),
			Quantity:      int32(product.Quantity),
			Status:        string(product.Status),
			Expiry:        product.Expiry,
			Version:       product.Version,
		})
		if err == nil {
			return mapDBProductToDomain(dbProduct)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("q.UpdateProduct: %w", err)
		}

		current, err := q.GetProduct(ctx, product.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return p, fmt.Errorf("q.UpdateProduct: %w", domain.ErrProductNotFound)
			}
			return p, fmt.Errorf("q.GetProduct: %w", err)
		}
		if current.SellerID != product.SellerID {
			return p, fmt.Errorf("q.UpdateProduct: %w", domain.ErrProductNotFound)
		}

		return p, fmt.Errorf("q.UpdateProduct: version %d, current %d: %w",
			product.Version, current.Version, domain.ErrStaleVersion)
	})
	if err != nil {
		return p, fmt.Errorf("withTx: %w", err)
	}

	return p, nil
}

// DecrementStock relies on the row lock taken by UPDATE: a concurrent caller blocks and then
// re-evaluates quantity >= amount against the committed value.
func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, amount int) (domain.Product, error) {
	var p domain.Product

	if err := domain.ValidateQuantity(amount); err != nil {
		return p, err
	}

	p, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Product, error) {
		dbProduct, err := q.DecrementStock(ctx, db.DecrementStockParams{
			Amount: int32(amount),
			ID:     productID,
		})
		if err == nil {
			return mapDBProductToDomain(dbProduct)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("q.DecrementStock: %w", err)
		}

		available, err := q.GetProductQuantity(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return p, fmt.Errorf("q.GetProductQuantity: %w", domain.ErrProductNotFound)
			}
			return p, fmt.Errorf("q.GetProductQuantity: %w", err)
		}

		return p, &domain.StockError{
			ProductID: productID,
			Requested: amount,
			Available: int(available),
		}
	})
	if err != nil {
		return p, fmt.Errorf("withTx: %w", err)
	}

	return p, nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	status, err := domain.ToProductStatus(row.Status)
	if err != nil {
		return domain.Product{}, fmt.Errorf("domain.ToProductStatus[%s]: %w", row.Status, err)
	}

	return domain.Product{
		ID:        row.ID,
		SellerID:  row.SellerID,
		Name:      row.Name,
		Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Quantity:  int(row.Quantity),
		Status:    status,
		Expiry:    row.Expiry,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
