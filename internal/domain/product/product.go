package product

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// Catalog defines the remote operations backing the product list.
type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	// SeedProducts asks the remote service to populate an empty catalog
	// with placeholder products.
	SeedProducts(ctx context.Context) error
}

// Find returns the product with the given ID.
func Find(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Search returns products whose name or description contains query,
// ignoring case. An empty query returns the input unchanged.
func Search(products []Product, query string) []Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return products
	}
	q := strings.ToLower(query)

	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}
