package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	// GetOrderForUpdate locks the order row until the surrounding transaction ends.
	GetOrderForUpdate(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	// UpdateOrderState changes the state only if it still equals from.
	UpdateOrderState(ctx context.Context, orderID uuid.UUID, from, to domain.OrderState) error
}
