package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/nikolayk812/surplus/internal/service"
)

func (suite *serviceSuite) TestListForClient() {
	ctx := suite.T().Context()
	clientID := fakeClientID()

	p1 := suite.insertProduct(fakeSellerID(), 10)
	p2 := suite.insertProduct(fakeSellerID(), 10)

	_, err := suite.cartService.AddLine(ctx, clientID, p1.ID, 1)
	suite.Require().NoError(err)
	first, err := suite.checkout.Checkout(ctx, clientID, "")
	suite.Require().NoError(err)

	_, err = suite.cartService.AddLine(ctx, clientID, p1.ID, 2)
	suite.Require().NoError(err)
	_, err = suite.cartService.AddLine(ctx, clientID, p2.ID, 1)
	suite.Require().NoError(err)
	second, err := suite.checkout.Checkout(ctx, clientID, "")
	suite.Require().NoError(err)

	orders, err := suite.clientView.ListForClient(ctx, clientID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 2)

	suite.Equal(second.ID, orders[0].ID, "newest first")
	suite.Equal(first.ID, orders[1].ID)
	suite.Equal(map[uuid.UUID]string{p1.ID: p1.Name, p2.ID: p2.Name}, orders[0].ProductNames)
	suite.Equal(map[uuid.UUID]string{p1.ID: p1.Name}, orders[1].ProductNames)

	none, err := suite.clientView.ListForClient(ctx, fakeClientID())
	suite.Require().NoError(err)
	suite.Empty(none)

	_, err = suite.clientView.ListForClient(ctx, "")
	suite.ErrorIs(err, domain.ErrValidation)
}

func (suite *serviceSuite) TestGetState() {
	ctx := suite.T().Context()
	p := suite.insertProduct(fakeSellerID(), 10)
	order := suite.placeOrder(cartItem{product: p, quantity: 1})

	state, err := suite.clientView.GetState(ctx, order.ID, order.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatePending, state)

	_, err = suite.clientView.GetState(ctx, order.ID, fakeClientID())
	suite.ErrorIs(err, domain.ErrOrderNotFound)

	// a cache miss falls back to the database and fills the cache
	suite.cache.mu.Lock()
	delete(suite.cache.states, order.ID)
	suite.cache.mu.Unlock()

	state, err = suite.clientView.GetState(ctx, order.ID, order.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatePending, state)

	cached, found, err := suite.cache.GetOrderState(ctx, order.ID)
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal(port.CachedOrderState{ClientID: order.ClientID, State: domain.OrderStatePending}, cached)

	_, err = suite.clientView.GetState(ctx, uuid.New(), order.ClientID)
	suite.ErrorIs(err, domain.ErrNotFound)
}

// racingCache runs beforeFill between the database read and the cache fill.
type racingCache struct {
	*fakeCache
	beforeFill func()
}

func (c *racingCache) FillOrderState(ctx context.Context, orderID uuid.UUID, state port.CachedOrderState) (bool, error) {
	c.beforeFill()
	return c.fakeCache.FillOrderState(ctx, orderID, state)
}

func (suite *serviceSuite) TestGetStateFillDoesNotOverwriteTransition() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()
	p := suite.insertProduct(sellerID, 10)
	order := suite.placeOrder(cartItem{product: p, quantity: 1})

	suite.cache.mu.Lock()
	delete(suite.cache.states, order.ID)
	suite.cache.mu.Unlock()

	cache := &racingCache{
		fakeCache: suite.cache,
		beforeFill: func() {
			_, err := suite.stateMachine.Approve(ctx, order.ID, sellerID)
			suite.Require().NoError(err)
		},
	}

	view, err := service.NewClientOrderView(suite.orders, suite.products, cache)
	suite.Require().NoError(err)

	// the read happened before the approval, so the caller still sees pending
	state, err := view.GetState(ctx, order.ID, order.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatePending, state)

	cached, found, err := suite.cache.GetOrderState(ctx, order.ID)
	suite.Require().NoError(err)
	suite.True(found)
	suite.Equal(port.CachedOrderState{ClientID: order.ClientID, State: domain.OrderStateInProgress}, cached)

	state, err = suite.clientView.GetState(ctx, order.ID, order.ClientID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStateInProgress, state)
}
