package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Error kinds. Concrete errors wrap one of them, callers match with errors.Is.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrConcurrencyConflict    = errors.New("concurrency conflict")
	ErrDuplicateCheckout      = errors.New("duplicate checkout")
)

var (
	ErrEmptyCart        = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("quantity must be positive: %w", ErrValidation)
	ErrQuantityTooLarge = fmt.Errorf("quantity exceeds %d: %w", MaxQuantity, ErrValidation)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
)

// ErrStaleVersion is a write based on an outdated read, retrying the same write cannot succeed.
var ErrStaleVersion = fmt.Errorf("stale version: %w", ErrConcurrencyConflict)

type TransitionError struct {
	OrderID uuid.UUID
	From    OrderState
	To      OrderState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order[%s]: %s -> %s: %s", e.OrderID, e.From, e.To, ErrInvalidStateTransition)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

type StockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("product[%s]: requested %d, available %d: %s", e.ProductID, e.Requested, e.Available, ErrInsufficientStock)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// MaxQuantity is the largest quantity the store can hold.
const MaxQuantity = math.MaxInt32

// ValidateQuantity accepts a line or decrement quantity in [1, MaxQuantity].
func ValidateQuantity(quantity int) error {
	switch {
	case quantity < 1:
		return ErrInvalidQuantity
	case quantity > MaxQuantity:
		return ErrQuantityTooLarge
	default:
		return nil
	}
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
