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
)

// OrderStateMachine moves orders through pending -> in_progress -> completed, or pending -> cancelled.
// Every transition runs in one transaction holding the order row lock.
type OrderStateMachine struct {
	transactor  port.Transactor
	cache       port.OrderStateCache
	publisher   port.EventPublisher
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

func NewOrderStateMachine(
	transactor port.Transactor,
	cache port.OrderStateCache,
	publisher port.EventPublisher,
	maxAttempts int,
) (*OrderStateMachine, error) {
	if transactor == nil {
		return nil, errors.New("transactor is nil")
	}
	if cache == nil {
		return nil, errors.New("cache is nil")
	}
	if publisher == nil {
		return nil, errors.New("publisher is nil")
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	return &OrderStateMachine{
		transactor:  transactor,
		cache:       cache,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		backoff:     defaultBackoff,
		now:         time.Now,
	}, nil
}

type transition struct {
	method    string
	to        domain.OrderState
	event     domain.OrderEventType
	authorize func(order domain.Order) error
	// takeStock decrements stock for every line of the order before the state changes
	takeStock bool
}

// Approve takes stock for every line of the order, all sellers included, and moves it to in_progress.
// If any product lacks stock nothing changes and the order stays pending.
func (m *OrderStateMachine) Approve(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error) {
	return m.apply(ctx, orderID, sellerID, transition{
		method:    "OrderStateMachine.Approve",
		to:        domain.OrderStateInProgress,
		event:     domain.OrderEventApproved,
		authorize: sellerOwnsLine(sellerID),
		takeStock: true,
	})
}

func (m *OrderStateMachine) Reject(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error) {
	return m.apply(ctx, orderID, sellerID, transition{
		method:    "OrderStateMachine.Reject",
		to:        domain.OrderStateCancelled,
		event:     domain.OrderEventRejected,
		authorize: sellerOwnsLine(sellerID),
	})
}

// Cancel is the client withdrawing its own pending order.
func (m *OrderStateMachine) Cancel(ctx context.Context, orderID uuid.UUID, clientID string) (domain.Order, error) {
	return m.apply(ctx, orderID, clientID, transition{
		method:    "OrderStateMachine.Cancel",
		to:        domain.OrderStateCancelled,
		event:     domain.OrderEventCancelled,
		authorize: clientOwnsOrder(clientID),
	})
}

func (m *OrderStateMachine) Complete(ctx context.Context, orderID uuid.UUID, sellerID string) (domain.Order, error) {
	return m.apply(ctx, orderID, sellerID, transition{
		method:    "OrderStateMachine.Complete",
		to:        domain.OrderStateCompleted,
		event:     domain.OrderEventCompleted,
		authorize: sellerOwnsLine(sellerID),
	})
}

func (m *OrderStateMachine) apply(ctx context.Context, orderID uuid.UUID, actorID string, t transition) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty: %w", domain.ErrValidation)
	}
	if actorID == "" {
		return o, fmt.Errorf("actorID is empty: %w", domain.ErrValidation)
	}

	err := retryOnConflict(ctx, t.method, m.maxAttempts, m.backoff, func() error {
		var err error
		o, err = m.applyOnce(ctx, orderID, t)
		return err
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("retryOnConflict: %w", err)
	}

	slog.Info("Order state changed",
		"method", t.method,
		"order_id", o.ID,
		"state", o.State,
		"actor_id", actorID)

	afterTransition(ctx, t.method, m.cache, m.publisher, domain.NewOrderEvent(t.event, o, actorID, m.now()))

	return o, nil
}

func (m *OrderStateMachine) applyOnce(ctx context.Context, orderID uuid.UUID, t transition) (domain.Order, error) {
	var o domain.Order

	err := m.transactor.WithinTx(ctx, func(repos port.Repositories) error {
		order, err := repos.Orders().GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("orders.GetOrderForUpdate: %w", err)
		}

		if err := t.authorize(order); err != nil {
			return err
		}

		if err := order.Transition(t.to); err != nil {
			return fmt.Errorf("order.Transition: %w", err)
		}

		if t.takeStock {
			// ascending product id, concurrent approvals lock product rows in the same order
			for _, pq := range order.ProductQuantities() {
				if _, err := repos.Products().DecrementStock(ctx, pq.ProductID, pq.Quantity); err != nil {
					return fmt.Errorf("products.DecrementStock: %w", err)
				}
			}
		}

		if err := repos.Orders().UpdateOrderState(ctx, order.ID, order.State, t.to); err != nil {
			return fmt.Errorf("orders.UpdateOrderState: %w", err)
		}

		order.State = t.to
		o = order

		return nil
	})
	if err != nil {
		return o, fmt.Errorf("transactor.WithinTx: %w", err)
	}

	return o, nil
}

// sellerOwnsLine hides orders from sellers that have nothing in them.
func sellerOwnsLine(sellerID string) func(domain.Order) error {
	return func(order domain.Order) error {
		if !order.HasSeller(sellerID) {
			return fmt.Errorf("order[%s]: %w", order.ID, domain.ErrOrderNotFound)
		}
		return nil
	}
}

func clientOwnsOrder(clientID string) func(domain.Order) error {
	return func(order domain.Order) error {
		if order.ClientID != clientID {
			return fmt.Errorf("order[%s]: %w", order.ID, domain.ErrOrderNotFound)
		}
		return nil
	}
}
