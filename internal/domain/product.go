package domain

import "github.com/shopspring/decimal"

// Variant is a purchasable option of a product (size, color...).
type Variant struct {
	ID        string          `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// Product is a raw catalog record. The core never mutates it.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Type        string    `json:"product_type"`
	Tags        []string  `json:"tags"`
	Vendor      string    `json:"vendor"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
}

// KnownProduct is the per-session summary of a product already shown to the
// customer. Later references ("add the blue one") resolve against these.
type KnownProduct struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	URL       string          `json:"url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Type      string          `json:"type,omitempty"`
	Available bool            `json:"available"`
	VariantID string          `json:"variant_id"`
}

// NewKnownProduct summarizes p. The first available variant is used for cart
// operations, falling back to the first variant.
func NewKnownProduct(p Product, storeDomain string) KnownProduct {
	kp := KnownProduct{
		ID:    p.ID,
		Title: p.Title,
		Type:  p.Type,
	}
	if p.Handle != "" && storeDomain != "" {
		kp.URL = "https://" + storeDomain + "/products/" + p.Handle
	}

	if len(p.Variants) == 0 {
		return kp
	}

	v := p.Variants[0]
	for _, cand := range p.Variants {
		if cand.Available {
			v = cand
			break
		}
	}
	kp.VariantID = v.ID
	kp.Price = v.Price
	kp.Available = v.Available
	return kp
}

// CartLine is one product in the cart. There is at most one line per product.
type CartLine struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CartView is the read model of a cart.
type CartView struct {
	Empty   bool     `json:"empty"`
	Message string   `json:"message,omitempty"`
	Items   []string `json:"items,omitempty"`
	Total   string   `json:"total,omitempty"`
	Count   int      `json:"count,omitempty"`
}
