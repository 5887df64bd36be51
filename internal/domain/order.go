package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Order is immutable once placed, except for its State.
type Order struct {
	ID       uuid.UUID
	ClientID string
	// Sellers is derived from Lines, every seller appears once in first-seen order.
	Sellers []string
	State   OrderState
	Lines   []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderLine struct {
	ProductID uuid.UUID
	SellerID  string
	Quantity  int
}

type ProductQuantity struct {
	ProductID uuid.UUID
	Quantity  int
}

// NewOrder builds a pending order, lines are grouped by seller keeping the input order within a seller.
func NewOrder(clientID string, lines []OrderLine) (Order, error) {
	var o Order

	if clientID == "" {
		return o, validationErrorf("clientID is empty")
	}
	if len(lines) == 0 {
		return o, errors.New("no lines in order")
	}

	for _, line := range lines {
		if line.ProductID == uuid.Nil || line.SellerID == "" {
			return o, validationErrorf("order line is incomplete")
		}
		if err := ValidateQuantity(line.Quantity); err != nil {
			return o, err
		}
	}

	sellers := lo.Uniq(lo.Map(lines, func(l OrderLine, _ int) string {
		return l.SellerID
	}))

	bySeller := lo.GroupBy(lines, func(l OrderLine) string {
		return l.SellerID
	})

	grouped := make([]OrderLine, 0, len(lines))
	for _, seller := range sellers {
		grouped = append(grouped, bySeller[seller]...)
	}

	return Order{
		ClientID: clientID,
		Sellers:  sellers,
		State:    OrderStatePending,
		Lines:    grouped,
	}, nil
}

func (o Order) HasSeller(sellerID string) bool {
	return slices.Contains(o.Sellers, sellerID)
}

func (o Order) LinesForSeller(sellerID string) []OrderLine {
	return lo.Filter(o.Lines, func(l OrderLine, _ int) bool {
		return l.SellerID == sellerID
	})
}

// ProductQuantities sums the requested quantity per product, sorted by product ID
// so that concurrent approvals touch product rows in the same order.
func (o Order) ProductQuantities() []ProductQuantity {
	sums := make(map[uuid.UUID]int, len(o.Lines))
	for _, l := range o.Lines {
		sums[l.ProductID] += l.Quantity
	}

	result := make([]ProductQuantity, 0, len(sums))
	for id, qty := range sums {
		result = append(result, ProductQuantity{ProductID: id, Quantity: qty})
	}

	slices.SortFunc(result, func(a, b ProductQuantity) int {
		return strings.Compare(a.ProductID.String(), b.ProductID.String())
	})

	return result
}

func (o Order) ProductIDs() []uuid.UUID {
	return lo.Uniq(lo.Map(o.Lines, func(l OrderLine, _ int) uuid.UUID {
		return l.ProductID
	}))
}
