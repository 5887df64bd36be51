package service_test

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Cart [P1 x3 of A, P2 x1 of B] -> one order; A approves, B can no longer reject.
func (suite *serviceSuite) TestApproveThenRejectScenario() {
	ctx := suite.T().Context()

	sellerA, sellerB := fakeSellerID(), fakeSellerID()
	p1 := suite.insertProduct(sellerA, 3)
	p2 := suite.insertProduct(sellerB, 4)

	order := suite.placeOrder(
		cartItem{product: p1, quantity: 3},
		cartItem{product: p2, quantity: 1},
	)
	suite.Equal([]string{sellerA, sellerB}, order.Sellers)
	suite.Len(order.Lines, 2)

	approved, err := suite.stateMachine.Approve(ctx, order.ID, sellerA)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStateInProgress, approved.State)

	quantity, status := suite.productQuantity(p1.ID)
	suite.Equal(0, quantity)
	suite.Equal(domain.ProductStatusInactive, status)

	// the approval takes stock for the other seller's line too
	quantity, status = suite.productQuantity(p2.ID)
	suite.Equal(3, quantity)
	suite.Equal(domain.ProductStatusAvailable, status)

	_, err = suite.stateMachine.Reject(ctx, order.ID, sellerB)
	suite.ErrorIs(err, domain.ErrInvalidStateTransition)

	var transitionErr *domain.TransitionError
	suite.Require().ErrorAs(err, &transitionErr)
	suite.Equal(domain.OrderStateInProgress, transitionErr.From)
	suite.Equal(domain.OrderStateCancelled, transitionErr.To)

	suite.Equal(domain.OrderStateInProgress, suite.orderState(order.ID))
	suite.Equal([]domain.OrderEventType{domain.OrderEventPlaced, domain.OrderEventApproved}, suite.publisher.eventsFor(order.ID))
}

// P3 has 2 units, two orders of 2 units are approved at once: exactly one wins.
func (suite *serviceSuite) TestConcurrentApprovalsScenario() {
	sellerID := fakeSellerID()
	p3 := suite.insertProduct(sellerID, 2)

	order1 := suite.placeOrder(cartItem{product: p3, quantity: 2})
	order2 := suite.placeOrder(cartItem{product: p3, quantity: 2})

	results := suite.approveConcurrently(sellerID, order1.ID, order2.ID)

	suite.Len(results.approved, 1)
	suite.Len(results.insufficient, 1)

	quantity, status := suite.productQuantity(p3.ID)
	suite.Equal(0, quantity)
	suite.Equal(domain.ProductStatusInactive, status)

	suite.Equal(domain.OrderStateInProgress, suite.orderState(results.approved[0]))
	suite.Equal(domain.OrderStatePending, suite.orderState(results.insufficient[0]))
}

func (suite *serviceSuite) TestStockNeverNegative() {
	sellerID := fakeSellerID()

	products := make([]domain.Product, 0, 4)
	for range 4 {
		products = append(products, suite.insertProduct(sellerID, 5))
	}

	// orders touch overlapping products in different line orders
	orderIDs := make([]uuid.UUID, 0, 12)
	for i := range 12 {
		a := products[i%len(products)]
		b := products[(i+1)%len(products)]
		order := suite.placeOrder(
			cartItem{product: b, quantity: 1 + i%2},
			cartItem{product: a, quantity: 2},
		)
		orderIDs = append(orderIDs, order.ID)
	}

	results := suite.approveConcurrently(sellerID, orderIDs...)
	suite.Len(results.approved, len(orderIDs)-len(results.insufficient))
	suite.NotEmpty(results.approved)
	suite.NotEmpty(results.insufficient)

	// every approved order's demand landed exactly once
	taken := make(map[uuid.UUID]int)
	for _, id := range results.approved {
		order, err := suite.orders.GetOrder(suite.T().Context(), id)
		suite.Require().NoError(err)
		for _, pq := range order.ProductQuantities() {
			taken[pq.ProductID] += pq.Quantity
		}
	}

	for _, p := range products {
		quantity, _ := suite.productQuantity(p.ID)
		suite.GreaterOrEqual(quantity, 0)
		suite.Equal(5-taken[p.ID], quantity)
	}

	for _, id := range results.insufficient {
		suite.Equal(domain.OrderStatePending, suite.orderState(id))
	}
}

func (suite *serviceSuite) TestApproveInsufficientStockRollsBack() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()

	plenty := suite.insertProduct(sellerID, 10)
	scarce := suite.insertProduct(sellerID, 1)

	order := suite.placeOrder(
		cartItem{product: plenty, quantity: 4},
		cartItem{product: scarce, quantity: 2},
	)

	_, err := suite.stateMachine.Approve(ctx, order.ID, sellerID)
	suite.Require().ErrorIs(err, domain.ErrInsufficientStock)

	var stockErr *domain.StockError
	suite.Require().ErrorAs(err, &stockErr)
	suite.Equal(scarce.ID, stockErr.ProductID)
	suite.Equal(2, stockErr.Requested)
	suite.Equal(1, stockErr.Available)

	// the decrement of the first product is rolled back as well
	quantity, _ := suite.productQuantity(plenty.ID)
	suite.Equal(10, quantity)
	quantity, _ = suite.productQuantity(scarce.ID)
	suite.Equal(1, quantity)

	suite.Equal(domain.OrderStatePending, suite.orderState(order.ID))
	suite.Equal([]domain.OrderEventType{domain.OrderEventPlaced}, suite.publisher.eventsFor(order.ID))
}

func (suite *serviceSuite) TestApproveAggregatesSameProduct() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()
	p := suite.insertProduct(sellerID, 5)

	order := suite.placeOrder(cartItem{product: p, quantity: 3})

	_, err := suite.stateMachine.Approve(ctx, order.ID, sellerID)
	suite.Require().NoError(err)

	quantity, status := suite.productQuantity(p.ID)
	suite.Equal(2, quantity)
	suite.Equal(domain.ProductStatusAvailable, status)
}

func (suite *serviceSuite) TestTerminalStatesAreFinal() {
	tests := []struct {
		name      string
		reachFunc func(order domain.Order, sellerID string) error // brings the order to the tested state
		wantState domain.OrderState
	}{
		{
			name: "in_progress",
			reachFunc: func(order domain.Order, sellerID string) error {
				_, err := suite.stateMachine.Approve(suite.T().Context(), order.ID, sellerID)
				return err
			},
			wantState: domain.OrderStateInProgress,
		},
		{
			name: "completed",
			reachFunc: func(order domain.Order, sellerID string) error {
				if _, err := suite.stateMachine.Approve(suite.T().Context(), order.ID, sellerID); err != nil {
					return err
				}
				_, err := suite.stateMachine.Complete(suite.T().Context(), order.ID, sellerID)
				return err
			},
			wantState: domain.OrderStateCompleted,
		},
		{
			name: "cancelled by seller",
			reachFunc: func(order domain.Order, sellerID string) error {
				_, err := suite.stateMachine.Reject(suite.T().Context(), order.ID, sellerID)
				return err
			},
			wantState: domain.OrderStateCancelled,
		},
		{
			name: "cancelled by client",
			reachFunc: func(order domain.Order, _ string) error {
				_, err := suite.stateMachine.Cancel(suite.T().Context(), order.ID, order.ClientID)
				return err
			},
			wantState: domain.OrderStateCancelled,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			sellerID := fakeSellerID()
			p := suite.insertProduct(sellerID, 10)
			order := suite.placeOrder(cartItem{product: p, quantity: 2})

			require.NoError(t, tt.reachFunc(order, sellerID))
			require.Equal(t, tt.wantState, suite.orderState(order.ID))

			stockBefore, _ := suite.productQuantity(p.ID)

			_, err := suite.stateMachine.Approve(ctx, order.ID, sellerID)
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

			_, err = suite.stateMachine.Reject(ctx, order.ID, sellerID)
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

			_, err = suite.stateMachine.Cancel(ctx, order.ID, order.ClientID)
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

			stockAfter, _ := suite.productQuantity(p.ID)
			assert.Equal(t, stockBefore, stockAfter)
			assert.Equal(t, tt.wantState, suite.orderState(order.ID))
		})
	}
}

func (suite *serviceSuite) TestTransitionErrors() {
	sellerID := fakeSellerID()
	p := suite.insertProduct(sellerID, 10)
	order := suite.placeOrder(cartItem{product: p, quantity: 1})

	tests := []struct {
		name      string
		callFunc  func() error
		wantError error
	}{
		{
			name: "approve by seller without lines: not found",
			callFunc: func() error {
				_, err := suite.stateMachine.Approve(suite.T().Context(), order.ID, fakeSellerID())
				return err
			},
			wantError: domain.ErrOrderNotFound,
		},
		{
			name: "reject by seller without lines: not found",
			callFunc: func() error {
				_, err := suite.stateMachine.Reject(suite.T().Context(), order.ID, fakeSellerID())
				return err
			},
			wantError: domain.ErrOrderNotFound,
		},
		{
			name: "cancel by another client: not found",
			callFunc: func() error {
				_, err := suite.stateMachine.Cancel(suite.T().Context(), order.ID, fakeClientID())
				return err
			},
			wantError: domain.ErrOrderNotFound,
		},
		{
			name: "approve unknown order: not found",
			callFunc: func() error {
				_, err := suite.stateMachine.Approve(suite.T().Context(), uuid.New(), sellerID)
				return err
			},
			wantError: domain.ErrNotFound,
		},
		{
			name: "complete pending order: invalid transition",
			callFunc: func() error {
				_, err := suite.stateMachine.Complete(suite.T().Context(), order.ID, sellerID)
				return err
			},
			wantError: domain.ErrInvalidStateTransition,
		},
		{
			name: "empty order id: validation error",
			callFunc: func() error {
				_, err := suite.stateMachine.Approve(suite.T().Context(), uuid.Nil, sellerID)
				return err
			},
			wantError: domain.ErrValidation,
		},
		{
			name: "empty seller: validation error",
			callFunc: func() error {
				_, err := suite.stateMachine.Reject(suite.T().Context(), order.ID, "")
				return err
			},
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			err := tt.callFunc()
			require.ErrorIs(t, err, tt.wantError)

			assert.Equal(t, domain.OrderStatePending, suite.orderState(order.ID))
			quantity, _ := suite.productQuantity(p.ID)
			assert.Equal(t, 10, quantity)
		})
	}
}

func (suite *serviceSuite) TestConcurrentApproveAndReject() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()
	p := suite.insertProduct(sellerID, 10)
	order := suite.placeOrder(cartItem{product: p, quantity: 3})

	var (
		wins   atomic.Int32
		losses atomic.Int32
	)

	count := func(err error) error {
		switch {
		case err == nil:
			wins.Add(1)
		case errors.Is(err, domain.ErrInvalidStateTransition):
			losses.Add(1)
		default:
			return err
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := suite.stateMachine.Approve(gctx, order.ID, sellerID)
		return count(err)
	})
	g.Go(func() error {
		_, err := suite.stateMachine.Reject(gctx, order.ID, sellerID)
		return count(err)
	})
	suite.Require().NoError(g.Wait())

	suite.EqualValues(1, wins.Load())
	suite.EqualValues(1, losses.Load())

	quantity, _ := suite.productQuantity(p.ID)
	switch suite.orderState(order.ID) {
	case domain.OrderStateInProgress:
		suite.Equal(7, quantity)
	case domain.OrderStateCancelled:
		suite.Equal(10, quantity)
	default:
		suite.Fail("order must be approved or rejected")
	}
}

func (suite *serviceSuite) TestCompleteAndCancel() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()
	p := suite.insertProduct(sellerID, 10)

	toComplete := suite.placeOrder(cartItem{product: p, quantity: 1})
	_, err := suite.stateMachine.Approve(ctx, toComplete.ID, sellerID)
	suite.Require().NoError(err)

	completed, err := suite.stateMachine.Complete(ctx, toComplete.ID, sellerID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStateCompleted, completed.State)
	suite.Equal([]domain.OrderEventType{
		domain.OrderEventPlaced,
		domain.OrderEventApproved,
		domain.OrderEventCompleted,
	}, suite.publisher.eventsFor(toComplete.ID))

	toCancel := suite.placeOrder(cartItem{product: p, quantity: 1})
	cancelled, err := suite.stateMachine.Cancel(ctx, toCancel.ID, toCancel.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStateCancelled, cancelled.State)

	cached, found, err := suite.cache.GetOrderState(ctx, toCancel.ID)
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal(domain.OrderStateCancelled, cached.State)
}

type approvalResults struct {
	approved     []uuid.UUID
	insufficient []uuid.UUID
}

// approveConcurrently approves all orders at once and sorts them by outcome, any other error fails the test.
func (suite *serviceSuite) approveConcurrently(sellerID string, orderIDs ...uuid.UUID) approvalResults {
	outcomes := make([]error, len(orderIDs))

	g, ctx := errgroup.WithContext(suite.T().Context())
	start := make(chan struct{})
	for i, orderID := range orderIDs {
		g.Go(func() error {
			<-start
			_, err := suite.stateMachine.Approve(ctx, orderID, sellerID)
			outcomes[i] = err
			if err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
				return err
			}
			return nil
		})
	}
	close(start)
	suite.Require().NoError(g.Wait())

	var results approvalResults
	for i, err := range outcomes {
		if err == nil {
			results.approved = append(results.approved, orderIDs[i])
		} else {
			results.insufficient = append(results.insufficient, orderIDs[i])
		}
	}

	return results
}
