// Package catalog provides domain.CatalogSource implementations.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// Static serves a fixed product list.
type Static struct {
	products []domain.Product
}

func NewStatic(products []domain.Product) *Static {
	return &Static{products: products}
}

func (s *Static) FetchCatalog(_ context.Context) ([]domain.Product, error) {
	return copyProducts(s.products), nil
}

// Demo returns a small fashion catalog for local mode.
func Demo() *Static {
	price := decimal.RequireFromString
	return NewStatic([]domain.Product{
		{
			ID: "8001", Title: "Floral Summer Dress", Handle: "floral-summer-dress", Type: "Dress",
			Tags: []string{"summer", "floral", "women"}, Vendor: "Bloom & Co",
			Description: "<p>Lightweight <strong>floral</strong> dress for warm days.</p>",
			Variants:    []domain.Variant{{ID: "44444444444444", Price: price("49.99"), Available: true}},
		},
		{
			ID: "8002", Title: "White Party Shirt", Handle: "white-party-shirt", Type: "Shirt",
			Tags: []string{"party", "white", "men"}, Vendor: "Urban Thread",
			Description: "<p>Crisp slim-fit shirt for evenings out.</p>",
			Variants:    []domain.Variant{{ID: "55555555555555", Price: price("39.99"), Available: true}},
		},
		{
			ID: "8003", Title: "Cotton Casual Shirt", Handle: "cotton-casual-shirt", Type: "Shirt",
			Tags: []string{"casual", "cotton"}, Vendor: "Urban Thread",
			Description: "<p>Everyday breathable cotton.</p>",
			Variants: []domain.Variant{
				{ID: "66666666666661", Price: price("29.99"), Available: false},
				{ID: "66666666666662", Price: price("29.99"), Available: true},
			},
		},
		{
			ID: "8004", Title: "Denim Jacket", Handle: "denim-jacket", Type: "Jacket",
			Tags: []string{"denim", "outerwear"}, Vendor: "Rugged Goods",
			Description: "<p>Classic stonewashed <em>denim</em> jacket.</p>",
			Variants:    []domain.Variant{{ID: "77777777777777", Price: price("89.00"), Available: true}},
		},
		{
			ID: "8005", Title: "Black Evening Dress", Handle: "black-evening-dress", Type: "Dress",
			Tags: []string{"party", "evening", "women"}, Vendor: "Bloom & Co",
			Description: "<p>Elegant floor-length dress.</p>",
			Variants:    []domain.Variant{{ID: "88888888888888", Price: price("119.00"), Available: false}},
		},
		{
			ID: "8006", Title: "Leather Biker Jacket", Handle: "leather-biker-jacket", Type: "Jacket",
			Tags: []string{"leather", "outerwear"}, Vendor: "Rugged Goods",
			Description: "<p>Genuine leather with zip details.</p>",
			Variants:    []domain.Variant{{ID: "99999999999999", Price: price("199.50"), Available: true}},
		},
	})
}

func copyProducts(in []domain.Product) []domain.Product {
	if in == nil {
		return nil
	}
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}
