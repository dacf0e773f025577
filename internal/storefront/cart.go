package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// CartLine is a product snapshot together with its quantity (always >= 1).
type CartLine struct {
	Product  product.Product
	Quantity int
}

// Subtotal returns price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product ID in insertion order.
// Methods never modify the receiver's backing array.
type Cart []CartLine

// Add returns a cart with p added. An existing line only gains quantity;
// its product snapshot is kept as first added.
func (c Cart) Add(p product.Product) Cart {
	out := make(Cart, len(c), len(c)+1)
	copy(out, c)
	for i := range out {
		if out[i].Product.ID == p.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, CartLine{Product: p, Quantity: 1})
}

// Line returns the line for the given product ID.
func (c Cart) Line(id string) (CartLine, bool) {
	for _, l := range c {
		if l.Product.ID == id {
			return l, true
		}
	}
	return CartLine{}, false
}

// Total returns the exact sum of price times quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Items returns the number of units across all lines.
func (c Cart) Items() int {
	n := 0
	for _, l := range c {
		n += l.Quantity
	}
	return n
}

// OrderItems converts the cart into order line items.
func (c Cart) OrderItems() []order.OrderItem {
	items := make([]order.OrderItem, len(c))
	for i, l := range c {
		items[i] = order.OrderItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		}
	}
	return items
}
