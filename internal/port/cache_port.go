package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
)

type CachedOrderState struct {
	ClientID string
	State    domain.OrderState
}

type OrderStateCache interface {
	// SetOrderState overwrites the entry, only called with a committed state change.
	SetOrderState(ctx context.Context, orderID uuid.UUID, state CachedOrderState) error
	// FillOrderState writes the entry only if none exists, so a read-through fill
	// never replaces a newer state written by a transition.
	FillOrderState(ctx context.Context, orderID uuid.UUID, state CachedOrderState) (bool, error)
	// GetOrderState returns false when the entry is missing or expired.
	GetOrderState(ctx context.Context, orderID uuid.UUID) (CachedOrderState, bool, error)
}

type IdempotencyStore interface {
	// Claim returns false if the key was already claimed.
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
