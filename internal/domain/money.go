package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// String renders the amount with two decimals, e.g. "EUR 8.50".
func (m Money) String() string {
	return m.Currency.String() + " " + m.Amount.StringFixed(2)
}
