package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SellerOrder is the part of an order visible to one seller.
type SellerOrder struct {
	OrderID   uuid.UUID
	ClientID  string
	State     OrderState
	Lines     []SellerOrderLine
	CreatedAt time.Time
}

// SellerOrderLine carries live product data, informational only.
type SellerOrderLine struct {
	ProductID         uuid.UUID
	Quantity          int
	ProductName       string
	QuantityAvailable int
	ProductStatus     ProductStatus
}

type SellerOrderSort string

const (
	SellerOrderSortNewest SellerOrderSort = "newest"
	SellerOrderSortOldest SellerOrderSort = "oldest"
	SellerOrderSortState  SellerOrderSort = "state"
)

type SellerOrderQuery struct {
	States []OrderState
	Sort   SellerOrderSort
}

func (q SellerOrderQuery) Validate() error {
	for _, state := range q.States {
		if _, ok := validOrderStates[state]; !ok {
			return validationErrorf("state[%s] is not valid", state)
		}
	}

	switch q.Sort {
	case "", SellerOrderSortNewest, SellerOrderSortOldest, SellerOrderSortState:
		return nil
	default:
		return fmt.Errorf("sort[%s] is not valid: %w", q.Sort, ErrValidation)
	}
}

// ClientOrder is an order as shown to the client who placed it.
type ClientOrder struct {
	Order
	ProductNames map[uuid.UUID]string
}
