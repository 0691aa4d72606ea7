package cart

import (
	"errors"
	"strings"
)

var (
	ErrInvalidItem     = errors.New("cart item id is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Product is the catalog data captured when a product is added. It is not
// re-fetched later, so renamed catalog entries keep their add-time labels.
type Product struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Brand    string `yaml:"brand"`
}

// Item is one line of the cart.
type Item struct {
	ID       string
	Name     string
	Category string
	Brand    string
	Quantity int
}

func (p Product) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidItem
	}
	return nil
}

func newItem(p Product, quantity int) Item {
	return Item{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Brand:    p.Brand,
		Quantity: quantity,
	}
}

// TotalItems sums quantities across a snapshot.
func TotalItems(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
