package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID       uuid.UUID
	SellerID string
	Name     string
	Price    Money
	Quantity int
	Status   ProductStatus
	Expiry   time.Time

	// Version is bumped by every write, including stock decrements.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProductStatus string

// remember to add new statuses to the validProductStatuses map
const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusInactive  ProductStatus = "inactive"
)

var validProductStatuses = map[ProductStatus]struct{}{
	ProductStatusAvailable: {},
	ProductStatusInactive:  {},
}

func ToProductStatus(s string) (ProductStatus, error) {
	status := ProductStatus(s)
	if _, ok := validProductStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid product status")
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.SellerID) == "" {
		return validationErrorf("sellerID is empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return validationErrorf("name is empty")
	}
	if err := p.Price.Validate(); err != nil {
		return validationErrorf("price: %s", err)
	}
	if p.Quantity < 0 {
		return validationErrorf("quantity is negative")
	}
	if p.Quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if p.Expiry.IsZero() {
		return validationErrorf("expiry is empty")
	}
	if _, ok := validProductStatuses[p.Status]; !ok {
		return validationErrorf("status[%s] is not valid", p.Status)
	}

	return nil
}

// Normalize derives the status from the quantity: a product without stock is never available.
func (p Product) Normalize() Product {
	if p.Status == "" {
		p.Status = ProductStatusAvailable
	}
	if p.Quantity <= 0 {
		p.Status = ProductStatusInactive
	}
	return p
}

// IsExpired compares calendar days, a product expiring today is still sellable.
func (p Product) IsExpired(now time.Time) bool {
	return truncateDay(p.Expiry).Before(truncateDay(now))
}

func (p Product) IsPurchasable(now time.Time) bool {
	return p.Status == ProductStatusAvailable && p.Quantity > 0 && !p.IsExpired(now)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductFilter has AND semantics across fields, OR semantics within each field slice
type ProductFilter struct {
	IDs       []uuid.UUID
	SellerIDs []string
	Statuses  []ProductStatus
	// InStock keeps only products with a positive quantity
	InStock bool
	// NotExpiredAt keeps only products whose expiry is on or after that day
	NotExpiredAt *time.Time
}
