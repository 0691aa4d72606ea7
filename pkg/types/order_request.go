package types

import (
	"fmt"
	"strings"
)

// OrderItem is the per-line slice of a cart that travels with a quote request.
// Price and category are deliberately absent from the wire payload.
type OrderItem struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Brand    string `json:"brand" yaml:"brand"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Line renders the item the way both emails list it: "2x RED Komodo (RED)".
func (i OrderItem) Line() string {
	if strings.TrimSpace(i.Brand) == "" {
		return fmt.Sprintf("%dx %s", i.Quantity, i.Name)
	}
	return fmt.Sprintf("%dx %s (%s)", i.Quantity, i.Name, i.Brand)
}

// OrderRequest is the JSON body POSTed to /api/send-order.
type OrderRequest struct {
	FirstName    string      `json:"firstName" validate:"required"`
	LastName     string      `json:"lastName" validate:"required"`
	Email        string      `json:"email" validate:"required"`
	Phone        string      `json:"phone" validate:"required"`
	Company      string      `json:"company"`
	ProjectTitle string      `json:"projectTitle"`
	StartDate    string      `json:"startDate" validate:"required"`
	EndDate      string      `json:"endDate" validate:"required"`
	Country      string      `json:"country" validate:"required"`
	Message      string      `json:"message"`
	CartItems    []OrderItem `json:"cartItems"`
}

// FullName joins first and last name the way the emails address the customer.
func (o OrderRequest) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(o.FirstName) + " " + strings.TrimSpace(o.LastName))
}

// TotalQuantity sums the requested units across all lines.
func (o OrderRequest) TotalQuantity() int {
	total := 0
	for _, item := range o.CartItems {
		total += item.Quantity
	}
	return total
}

// Clone returns a deep copy so an in-flight payload cannot be mutated through shared slices.
func (o OrderRequest) Clone() OrderRequest {
	out := o
	if o.CartItems != nil {
		out.CartItems = make([]OrderItem, len(o.CartItems))
		copy(out.CartItems, o.CartItems)
	}
	return out
}
