package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// LineItem is one product-and-quantity entry in a cart. Name, Price, ImageURL
// and Category are captured when the product is added and never refreshed.
type LineItem struct {
	ProductID ProductID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	ImageURL  string
	Category  string
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Totals struct {
	Count    int
	Subtotal Money
	Total    Money
}

// TotalsOf sums quantities and price*quantity over items.
// No tax or shipping is applied, so Total always equals Subtotal.
func TotalsOf(items []LineItem, unit currency.Unit) Totals {
	count := 0
	subtotal := decimal.Zero

	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}

	return Totals{
		Count:    count,
		Subtotal: Money{Amount: subtotal, Currency: unit},
		Total:    Money{Amount: subtotal, Currency: unit},
	}
}
