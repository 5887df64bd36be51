package port

import (
	"context"

	"github.com/nikolayk812/surplus/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, clientID string) (domain.Cart, error)
	// GetCartForUpdate locks the cart row until the surrounding transaction ends.
	GetCartForUpdate(ctx context.Context, clientID string) (domain.Cart, error)
	// SaveCart replaces all lines of the client's cart.
	SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}
