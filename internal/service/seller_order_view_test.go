package service_test

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *serviceSuite) TestListForSeller() {
	ctx := suite.T().Context()

	sellerA, sellerB, sellerC := fakeSellerID(), fakeSellerID(), fakeSellerID()
	pa := suite.insertProduct(sellerA, 10)
	pb := suite.insertProduct(sellerB, 10)
	pb2 := suite.insertProduct(sellerB, 10)

	mixed := suite.placeOrder(cartItem{product: pa, quantity: 2}, cartItem{product: pb, quantity: 1})
	onlyB := suite.placeOrder(cartItem{product: pb2, quantity: 3})
	onlyA := suite.placeOrder(cartItem{product: pa, quantity: 1})

	_, err := suite.stateMachine.Reject(ctx, onlyA.ID, sellerA)
	suite.Require().NoError(err)

	tests := []struct {
		name         string
		sellerID     string
		query        domain.SellerOrderQuery
		wantOrderIDs []uuid.UUID
		wantError    error
	}{
		{
			name:         "seller A, newest first",
			sellerID:     sellerA,
			wantOrderIDs: []uuid.UUID{onlyA.ID, mixed.ID},
		},
		{
			name:         "seller A, oldest first",
			sellerID:     sellerA,
			query:        domain.SellerOrderQuery{Sort: domain.SellerOrderSortOldest},
			wantOrderIDs: []uuid.UUID{mixed.ID, onlyA.ID},
		},
		{
			name:         "seller A, pending first",
			sellerID:     sellerA,
			query:        domain.SellerOrderQuery{Sort: domain.SellerOrderSortState},
			wantOrderIDs: []uuid.UUID{mixed.ID, onlyA.ID},
		},
		{
			name:         "seller A, cancelled only",
			sellerID:     sellerA,
			query:        domain.SellerOrderQuery{States: []domain.OrderState{domain.OrderStateCancelled}},
			wantOrderIDs: []uuid.UUID{onlyA.ID},
		},
		{
			name:         "seller B, newest first",
			sellerID:     sellerB,
			wantOrderIDs: []uuid.UUID{onlyB.ID, mixed.ID},
		},
		{
			name:     "seller without orders: empty",
			sellerID: sellerC,
		},
		{
			name:      "empty seller: validation error",
			sellerID:  "",
			wantError: domain.ErrValidation,
		},
		{
			name:      "unknown sort: validation error",
			sellerID:  sellerA,
			query:     domain.SellerOrderQuery{Sort: "price"},
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			orders, err := suite.sellerView.ListForSeller(t.Context(), tt.sellerID, tt.query)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actualIDs := lo.Map(orders, func(o domain.SellerOrder, _ int) uuid.UUID {
				return o.OrderID
			})
			if len(tt.wantOrderIDs) == 0 {
				assert.Empty(t, actualIDs)
			} else {
				assert.Equal(t, tt.wantOrderIDs, actualIDs)
			}

			// never a foreign line, never an order without own lines
			for _, o := range orders {
				assert.NotEmpty(t, o.Lines)
				for _, line := range o.Lines {
					p, err := suite.products.GetProduct(t.Context(), line.ProductID)
					require.NoError(t, err)
					assert.Equal(t, tt.sellerID, p.SellerID)
				}
			}
		})
	}
}

func (suite *serviceSuite) TestListForSellerEnrichesLines() {
	ctx := suite.T().Context()

	sellerA, sellerB := fakeSellerID(), fakeSellerID()
	pa := suite.insertProduct(sellerA, 4)
	pb := suite.insertProduct(sellerB, 4)

	order := suite.placeOrder(cartItem{product: pa, quantity: 4}, cartItem{product: pb, quantity: 1})

	_, err := suite.stateMachine.Approve(ctx, order.ID, sellerA)
	suite.Require().NoError(err)

	orders, err := suite.sellerView.ListForSeller(ctx, sellerA, domain.SellerOrderQuery{})
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)

	suite.Equal(domain.SellerOrder{
		OrderID:  order.ID,
		ClientID: order.ClientID,
		State:    domain.OrderStateInProgress,
		Lines: []domain.SellerOrderLine{{
			ProductID:         pa.ID,
			Quantity:          4,
			ProductName:       pa.Name,
			QuantityAvailable: 0,
			ProductStatus:     domain.ProductStatusInactive,
		}},
		CreatedAt: orders[0].CreatedAt,
	}, orders[0])
}
