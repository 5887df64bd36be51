package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
)

type ClientOrderView struct {
	orders   port.OrderRepository
	products port.ProductRepository
	cache    port.OrderStateCache
}

func NewClientOrderView(orders port.OrderRepository, products port.ProductRepository, cache port.OrderStateCache) (*ClientOrderView, error) {
	if orders == nil {
		return nil, errors.New("orders repository is nil")
	}
	if products == nil {
		return nil, errors.New("products repository is nil")
	}
	if cache == nil {
		return nil, errors.New("cache is nil")
	}

	return &ClientOrderView{orders: orders, products: products, cache: cache}, nil
}

// ListForClient returns the client's orders newest first.
func (v *ClientOrderView) ListForClient(ctx context.Context, clientID string) ([]domain.ClientOrder, error) {
	if clientID == "" {
		return nil, fmt.Errorf("clientID is empty: %w", domain.ErrValidation)
	}

	orders, err := v.orders.SearchOrders(ctx, domain.OrderFilter{
		ClientIDs: []string{clientID},
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	var productIDs []uuid.UUID
	for _, order := range orders {
		productIDs = append(productIDs, order.ProductIDs()...)
	}

	products, err := v.products.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("products.GetProducts: %w", err)
	}

	result := make([]domain.ClientOrder, 0, len(orders))
	for _, order := range orders {
		names := make(map[uuid.UUID]string, len(order.Lines))
		for _, id := range order.ProductIDs() {
			if p, ok := products[id]; ok {
				names[id] = p.Name
			}
		}

		result = append(result, domain.ClientOrder{Order: order, ProductNames: names})
	}

	return result, nil
}

// GetState serves from the cache when it can, the cache only holds states written after a commit.
func (v *ClientOrderView) GetState(ctx context.Context, orderID uuid.UUID, clientID string) (domain.OrderState, error) {
	cached, found, err := v.cache.GetOrderState(ctx, orderID)
	if err != nil {
		slog.Warn("Order state cache read failed",
			"method", "ClientOrderView.GetState",
			"order_id", orderID,
			"error", err)
	}
	if found && err == nil {
		if cached.ClientID != clientID {
			return "", fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
		}
		return cached.State, nil
	}

	order, err := v.orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("orders.GetOrder: %w", err)
	}
	if order.ClientID != clientID {
		return "", fmt.Errorf("order[%s]: %w", orderID, domain.ErrOrderNotFound)
	}

	// a transition committed after our read may already have cached a newer state
	if _, err := v.cache.FillOrderState(ctx, orderID, port.CachedOrderState{
		ClientID: order.ClientID,
		State:    order.State,
	}); err != nil {
		slog.Warn("Order state cache write failed",
			"method", "ClientOrderView.GetState",
			"order_id", orderID,
			"error", err)
	}

	return order.State, nil
}
