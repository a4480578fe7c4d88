package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// MinHighRating is the lowest rating that counts as "highly rated".
const MinHighRating = 4.5

// Product represents a catalog item the assistant can recommend.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
	Rating      float64
	Reviews     int
}

// Catalog provides read-only access to the global product catalog.
type Catalog interface {
	// Products returns every product in catalog order.
	Products() []Product
	// ProductByID returns a single product by its identifier.
	ProductByID(id string) (Product, error)
}
