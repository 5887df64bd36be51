package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *serviceSuite) TestUpsertProduct() {
	ownerID := fakeSellerID()
	existing := suite.insertProduct(ownerID, 5)

	tests := []struct {
		name        string
		sellerID    string
		productFunc func() domain.Product
		wantStatus  domain.ProductStatus
		wantError   error
	}{
		{
			name:     "create: ok",
			sellerID: ownerID,
			productFunc: func() domain.Product {
				return fakeProduct("ignored", 3)
			},
			wantStatus: domain.ProductStatusAvailable,
		},
		{
			name:     "create with expiry in the past: validation error",
			sellerID: ownerID,
			productFunc: func() domain.Product {
				p := fakeProduct(ownerID, 3)
				p.Expiry = time.Now().UTC().AddDate(0, 0, -1)
				return p
			},
			wantError: domain.ErrValidation,
		},
		{
			name:     "restock by owner: ok",
			sellerID: ownerID,
			productFunc: func() domain.Product {
				p := existing
				p.Quantity = 12
				return p
			},
			wantStatus: domain.ProductStatusAvailable,
		},
		{
			name:     "update by another seller: not found",
			sellerID: fakeSellerID(),
			productFunc: func() domain.Product {
				return existing
			},
			wantError: domain.ErrNotFound,
		},
		{
			name:     "empty seller: validation error",
			sellerID: "",
			productFunc: func() domain.Product {
				return fakeProduct(ownerID, 1)
			},
			wantError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			product, err := suite.catalogue.UpsertProduct(t.Context(), tt.sellerID, tt.productFunc())
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.NotEqual(t, uuid.Nil, product.ID)
			assert.Equal(t, tt.sellerID, product.SellerID)
			assert.Equal(t, tt.wantStatus, product.Status)
		})
	}
}

func (suite *serviceSuite) TestUpsertProductDoesNotUndoApproval() {
	t := suite.T()
	ctx := t.Context()
	sellerID := fakeSellerID()

	product := suite.insertProduct(sellerID, 10)
	seen, err := suite.catalogue.GetProduct(ctx, product.ID)
	require.NoError(t, err)

	order := suite.placeOrder(cartItem{product: product, quantity: 3})
	_, err = suite.stateMachine.Approve(ctx, order.ID, sellerID)
	require.NoError(t, err)

	seen.Quantity = 12
	_, err = suite.catalogue.UpsertProduct(ctx, sellerID, seen)
	require.ErrorIs(t, err, domain.ErrStaleVersion)

	quantity, _ := suite.productQuantity(product.ID)
	assert.Equal(t, 7, quantity)
}

func (suite *serviceSuite) TestListAvailable() {
	ctx := suite.T().Context()
	sellerID := fakeSellerID()

	available := suite.insertProduct(sellerID, 3)
	soldOut := suite.insertProduct(sellerID, 0)

	expiredProduct := fakeProduct(sellerID, 3)
	expiredProduct.Expiry = time.Now().UTC().AddDate(0, 0, -1)
	expired, err := suite.products.InsertProduct(ctx, expiredProduct)
	suite.Require().NoError(err)

	products, err := suite.catalogue.ListAvailable(ctx)
	suite.Require().NoError(err)

	ids := lo.Map(products, func(p domain.Product, _ int) uuid.UUID {
		return p.ID
	})
	suite.Contains(ids, available.ID)
	suite.NotContains(ids, soldOut.ID)
	suite.NotContains(ids, expired.ID)

	own, err := suite.catalogue.ListForSeller(ctx, sellerID)
	suite.Require().NoError(err)
	suite.Len(own, 3)

	got, err := suite.catalogue.GetProduct(ctx, available.ID)
	suite.Require().NoError(err)
	suite.Equal(available.Name, got.Name)
}
