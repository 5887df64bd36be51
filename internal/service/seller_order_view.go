package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
)

// stateRank orders the "state" sort: what needs attention comes first.
var stateRank = map[domain.OrderState]int{
	domain.OrderStatePending:    0,
	domain.OrderStateInProgress: 1,
	domain.OrderStateCompleted:  2,
	domain.OrderStateCancelled:  3,
}

// SellerOrderView is read-only.
type SellerOrderView struct {
	orders   port.OrderRepository
	products port.ProductRepository
}

func NewSellerOrderView(orders port.OrderRepository, products port.ProductRepository) (*SellerOrderView, error) {
	if orders == nil {
		return nil, errors.New("orders repository is nil")
	}
	if products == nil {
		return nil, errors.New("products repository is nil")
	}

	return &SellerOrderView{orders: orders, products: products}, nil
}

// ListForSeller returns the seller's slice of every order it takes part in.
// Product data on the lines is read live and is informational only.
func (v *SellerOrderView) ListForSeller(ctx context.Context, sellerID string, query domain.SellerOrderQuery) ([]domain.SellerOrder, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("sellerID is empty: %w", domain.ErrValidation)
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query.Validate: %w", err)
	}

	orders, err := v.orders.SearchOrders(ctx, domain.OrderFilter{
		SellerIDs: []string{sellerID},
		States:    query.States,
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	var productIDs []uuid.UUID
	for _, order := range orders {
		for _, line := range order.LinesForSeller(sellerID) {
			productIDs = append(productIDs, line.ProductID)
		}
	}

	// one batched read for all lines
	products, err := v.products.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("products.GetProducts: %w", err)
	}

	result := make([]domain.SellerOrder, 0, len(orders))
	for _, order := range orders {
		lines := order.LinesForSeller(sellerID)
		if len(lines) == 0 {
			continue
		}

		sellerLines := make([]domain.SellerOrderLine, 0, len(lines))
		for _, line := range lines {
			// a deleted product leaves the live fields empty
			product := products[line.ProductID]

			sellerLines = append(sellerLines, domain.SellerOrderLine{
				ProductID:         line.ProductID,
				Quantity:          line.Quantity,
				ProductName:       product.Name,
				QuantityAvailable: product.Quantity,
				ProductStatus:     product.Status,
			})
		}

		result = append(result, domain.SellerOrder{
			OrderID:   order.ID,
			ClientID:  order.ClientID,
			State:     order.State,
			Lines:     sellerLines,
			CreatedAt: order.CreatedAt,
		})
	}

	sortSellerOrders(result, query.Sort)

	return result, nil
}

// sortSellerOrders expects orders newest first, as they come from the repository.
func sortSellerOrders(orders []domain.SellerOrder, sort domain.SellerOrderSort) {
	switch sort {
	case domain.SellerOrderSortOldest:
		slices.Reverse(orders)
	case domain.SellerOrderSortState:
		slices.SortStableFunc(orders, func(a, b domain.SellerOrder) int {
			return stateRank[a.State] - stateRank[b.State]
		})
	}
}
