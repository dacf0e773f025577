package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems = fmt.Errorf("cart is empty")
)

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// Placer builds orders from cart contents.
type Placer struct {
	now   func() time.Time
	newID func() string
}

// NewPlacer creates a Placer using the wall clock and random UUIDs.
func NewPlacer() *Placer {
	return &Placer{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Place validates items and returns the resulting order. The total is the
// exact sum of price times quantity; rounding is left to presentation.
func (p *Placer) Place(items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
		total = total.Add(item.Subtotal())
	}

	out := make([]OrderItem, len(items))
	copy(out, items)

	return &Order{
		ID:       p.newID(),
		Items:    out,
		Total:    total,
		PlacedAt: p.now(),
	}, nil
}
