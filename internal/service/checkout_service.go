package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/samber/lo"
)

type CheckoutService struct {
	transactor  port.Transactor
	idempotency port.IdempotencyStore
	cache       port.OrderStateCache
	publisher   port.EventPublisher
	now         func() time.Time
}

func NewCheckoutService(
	transactor port.Transactor,
	idempotency port.IdempotencyStore,
	cache port.OrderStateCache,
	publisher port.EventPublisher,
) (*CheckoutService, error) {
	if transactor == nil {
		return nil, errors.New("transactor is nil")
	}
	if idempotency == nil {
		return nil, errors.New("idempotency store is nil")
	}
	if cache == nil {
		return nil, errors.New("cache is nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher is nil")
	}

	return &CheckoutService{
		transactor:  transactor,
		idempotency: idempotency,
		cache:       cache,
		publisher:   publisher,
		now:         time.Now,
	}, nil
}

// Checkout turns the whole cart into one pending order and empties the cart in the same transaction.
// Stock is not checked here, it is only taken on approval.
// A non-empty idempotencyKey seen before for the same client fails with domain.ErrDuplicateCheckout.
func (s *CheckoutService) Checkout(ctx context.Context, clientID, idempotencyKey string) (_ domain.Order, err error) {
	var o domain.Order

	if clientID == "" {
		return o, fmt.Errorf("clientID is empty: %w", domain.ErrValidation)
	}

	if idempotencyKey != "" {
		key := checkoutIdempotencyKey(clientID, idempotencyKey)

		claimed, claimErr := s.idempotency.Claim(ctx, key)
		if claimErr != nil {
			return o, fmt.Errorf("idempotency.Claim: %w", claimErr)
		}
		if !claimed {
			return o, domain.ErrDuplicateCheckout
		}

		defer func() {
			if err == nil {
				return
			}
			// err is the named result, a failed checkout must not burn the key
			if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
				err = errors.Join(err, fmt.Errorf("idempotency.Release: %w", releaseErr))
			}
		}()
	}

	err = s.transactor.WithinTx(ctx, func(repos port.Repositories) error {
		cart, err := repos.Carts().GetCartForUpdate(ctx, clientID)
		if err != nil {
			return fmt.Errorf("carts.GetCartForUpdate: %w", err)
		}
		if cart.IsEmpty() {
			return domain.ErrEmptyCart
		}

		lines, err := currentOwnerLines(ctx, repos.Products(), cart)
		if err != nil {
			return fmt.Errorf("currentOwnerLines: %w", err)
		}

		order, err := domain.NewOrder(clientID, lines)
		if err != nil {
			return fmt.Errorf("domain.NewOrder: %w", err)
		}

		o, err = repos.Orders().InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("orders.InsertOrder: %w", err)
		}

		if _, err := repos.Carts().SaveCart(ctx, domain.Cart{ClientID: clientID}); err != nil {
			return fmt.Errorf("carts.SaveCart: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("transactor.WithinTx: %w", err)
	}

	afterTransition(ctx, "CheckoutService.Checkout", s.cache, s.publisher,
		domain.NewOrderEvent(domain.OrderEventPlaced, o, clientID, s.now()))

	return o, nil
}

// currentOwnerLines resolves the seller of every cart line from the product as it is now,
// the owner captured in the cart may be stale.
func currentOwnerLines(ctx context.Context, products port.ProductRepository, cart domain.Cart) ([]domain.OrderLine, error) {
	productIDs := lo.Map(cart.Lines, func(l domain.CartLine, _ int) uuid.UUID {
		return l.ProductID
	})

	byID, err := products.GetProducts(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("products.GetProducts: %w", err)
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductNotFound)
		}

		lines = append(lines, domain.OrderLine{
			ProductID: line.ProductID,
			SellerID:  product.SellerID,
			Quantity:  line.Quantity,
		})
	}

	return lines, nil
}

func checkoutIdempotencyKey(clientID, key string) string {
	return "checkout:" + clientID + ":" + key
}

// afterTransition refreshes the cached state and publishes the event once the change is committed.
// Both are best effort: the database is the source of truth.
func afterTransition(ctx context.Context, method string, cache port.OrderStateCache, publisher port.EventPublisher, event domain.OrderEvent) {
	ctx = context.WithoutCancel(ctx)

	if err := cache.SetOrderState(ctx, event.OrderID, port.CachedOrderState{
		ClientID: event.ClientID,
		State:    event.State,
	}); err != nil {
		slog.Warn("Order state cache refresh failed",
			"method", method,
			"order_id", event.OrderID,
			"error", err)
	}

	if err := publisher.Publish(ctx, event); err != nil {
		slog.Warn("Order event publish failed",
			"method", method,
			"order_id", event.OrderID,
			"event_type", event.Type,
			"error", err)
	}
}
