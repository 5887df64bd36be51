package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// IsFree reports a zero amount; surplus food is often given away.
func (m Money) IsFree() bool {
	return m.Amount.IsZero()
}

func (m Money) Validate() error {
	if m.Amount.IsNegative() {
		return errors.New("amount is negative")
	}

	if m.Currency == (currency.Unit{}) {
		return errors.New("currency is empty")
	}

	return nil
}
