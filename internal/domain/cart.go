package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ClientID string
	Lines    []CartLine

	UpdatedAt time.Time
}

type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
	// SellerID is captured when the line is added.
	SellerID string
}

func (l CartLine) Validate() error {
	if l.ProductID == uuid.Nil {
		return validationErrorf("productID is empty")
	}
	if l.SellerID == "" {
		return validationErrorf("sellerID is empty")
	}
	return ValidateQuantity(l.Quantity)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// WithLine returns a copy of the cart where the line for the same product is replaced,
// or the line is appended when the product is not in the cart yet.
func (c Cart) WithLine(line CartLine) Cart {
	lines := make([]CartLine, 0, len(c.Lines)+1)

	replaced := false
	for _, l := range c.Lines {
		if l.ProductID == line.ProductID {
			lines = append(lines, line)
			replaced = true
			continue
		}
		lines = append(lines, l)
	}

	if !replaced {
		lines = append(lines, line)
	}

	c.Lines = lines
	return c
}

// WithoutLine returns a copy of the cart without the product, the bool reports whether it was present.
func (c Cart) WithoutLine(productID uuid.UUID) (Cart, bool) {
	lines := make([]CartLine, 0, len(c.Lines))

	found := false
	for _, l := range c.Lines {
		if l.ProductID == productID {
			found = true
			continue
		}
		lines = append(lines, l)
	}

	c.Lines = lines
	return c, found
}
