package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Confirmation is the notice shown after an order is placed.
const Confirmation = "Order placed successfully! Thank you for your purchase."

// Order is a locally placed order. Nothing is sent to the remote service.
type Order struct {
	ID       string
	Items    []OrderItem
	Total    decimal.Decimal
	PlacedAt time.Time
}

// OrderItem represents a single line item in an order.
type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Subtotal returns price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
