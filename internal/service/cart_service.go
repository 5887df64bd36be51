package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
)

// CartService keeps one cart per client. Nothing is reserved while items sit in a cart.
type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
	now      func() time.Time
}

func NewCartService(carts port.CartRepository, products port.ProductRepository) (*CartService, error) {
	if carts == nil {
		return nil, errors.New("carts repository is nil")
	}
	if products == nil {
		return nil, errors.New("products repository is nil")
	}

	return &CartService{
		carts:    carts,
		products: products,
		now:      time.Now,
	}, nil
}

// AddLine puts the product into the cart, replacing the quantity if the product is already there.
func (s *CartService) AddLine(ctx context.Context, clientID string, productID uuid.UUID, quantity int) (domain.Cart, error) {
	var c domain.Cart

	if clientID == "" {
		return c, fmt.Errorf("clientID is empty: %w", domain.ErrValidation)
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return c, err
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return c, fmt.Errorf("products.GetProduct: %w", err)
	}

	if !product.IsPurchasable(s.now()) {
		return c, fmt.Errorf("product[%s] is not available: %w", productID, domain.ErrValidation)
	}

	cart, err := s.carts.GetCart(ctx, clientID)
	if err != nil {
		return c, fmt.Errorf("carts.GetCart: %w", err)
	}

	cart = cart.WithLine(domain.CartLine{
		ProductID: product.ID,
		Quantity:  quantity,
		SellerID:  product.SellerID,
	})

	saved, err := s.carts.SaveCart(ctx, cart)
	if err != nil {
		return c, fmt.Errorf("carts.SaveCart: %w", err)
	}

	return saved, nil
}

// RemoveLine drops the product from the cart, an absent product is a no-op.
func (s *CartService) RemoveLine(ctx context.Context, clientID string, productID uuid.UUID) (domain.Cart, error) {
	var c domain.Cart

	cart, err := s.carts.GetCart(ctx, clientID)
	if err != nil {
		return c, fmt.Errorf("carts.GetCart: %w", err)
	}

	cart, found := cart.WithoutLine(productID)
	if !found {
		return cart, nil
	}

	saved, err := s.carts.SaveCart(ctx, cart)
	if err != nil {
		return c, fmt.Errorf("carts.SaveCart: %w", err)
	}

	return saved, nil
}

func (s *CartService) Clear(ctx context.Context, clientID string) error {
	if _, err := s.carts.SaveCart(ctx, domain.Cart{ClientID: clientID}); err != nil {
		return fmt.Errorf("carts.SaveCart: %w", err)
	}

	return nil
}

func (s *CartService) Get(ctx context.Context, clientID string) (domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, clientID)
	if err != nil {
		return cart, fmt.Errorf("carts.GetCart: %w", err)
	}

	return cart, nil
}
