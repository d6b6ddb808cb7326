package domain

import (
	"fmt"
	"strings"
)

// ResultKind tells the response generator which shape a Result has.
type ResultKind string

const (
	ResultProducts    ResultKind = "products"
	ResultDetails     ResultKind = "details"
	ResultItemAdded   ResultKind = "item_added"
	ResultItemRemoved ResultKind = "item_removed"
	ResultCart        ResultKind = "cart"
	ResultCartCleared ResultKind = "cart_cleared"
	ResultCheckout    ResultKind = "checkout"
	ResultCartEmpty   ResultKind = "cart_empty"
	ResultNotFound    ResultKind = "not_found"
)

// Result is the structured outcome of handling one message.
type Result struct {
	Kind        ResultKind     `json:"kind"`
	Intent      Intent         `json:"intent"`
	Query       string         `json:"query,omitempty"`
	Products    []KnownProduct `json:"products,omitempty"`
	Item        string         `json:"item,omitempty"`
	Quantity    int            `json:"quantity,omitempty"`
	Cart        *CartView      `json:"cart,omitempty"`
	CheckoutURL string         `json:"checkout_url,omitempty"`
	Reason      string         `json:"reason,omitempty"`
}

// Summary renders the result as a short plain-text reply. It is what gets
// stored in history when no prose was generated.
func (r Result) Summary() string {
	switch r.Kind {
	case ResultProducts:
		if len(r.Products) == 0 {
			return "No products found."
		}
		titles := make([]string, 0, len(r.Products))
		for i, p := range r.Products {
			titles = append(titles, fmt.Sprintf("%d. %s ($%s)", i+1, p.Title, p.Price.StringFixed(2)))
		}
		return "Products: " + strings.Join(titles, "; ")
	case ResultDetails:
		if len(r.Products) == 0 {
			return "No product details available."
		}
		p := r.Products[0]
		stock := "in stock"
		if !p.Available {
			stock = "out of stock"
		}
		return fmt.Sprintf("%s ($%s, %s)", p.Title, p.Price.StringFixed(2), stock)
	case ResultItemAdded:
		return fmt.Sprintf("Added %d x %s to the cart.", r.Quantity, r.Item)
	case ResultItemRemoved:
		return fmt.Sprintf("Removed %s from the cart.", r.Item)
	case ResultCart:
		if r.Cart == nil || r.Cart.Empty {
			return "Your cart is empty."
		}
		return fmt.Sprintf("Cart: %s. Total $%s (%d items).", strings.Join(r.Cart.Items, ", "), r.Cart.Total, r.Cart.Count)
	case ResultCartCleared:
		return "Your cart has been cleared."
	case ResultCheckout:
		return "Checkout: " + r.CheckoutURL
	case ResultCartEmpty:
		return "Your cart is empty."
	case ResultNotFound:
		return r.Reason
	default:
		return ""
	}
}
