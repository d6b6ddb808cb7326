package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// Shopify fetches products from a Shopify store. Without an access token it
// uses the public storefront listing (/products.json); with one it uses the
// Admin REST API.
type Shopify struct {
	baseURL    string
	token      string
	apiVersion string
	limit      int
	client     *http.Client
}

type ShopifyOption func(*Shopify)

// WithAccessToken switches to the Admin API.
func WithAccessToken(token, apiVersion string) ShopifyOption {
	return func(s *Shopify) {
		s.token = token
		if apiVersion != "" {
			s.apiVersion = apiVersion
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) ShopifyOption {
	return func(s *Shopify) { s.client = c }
}

// WithBaseURL overrides https://{domain}; used by tests.
func WithBaseURL(u string) ShopifyOption {
	return func(s *Shopify) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithLimit sets how many products are requested.
func WithLimit(n int) ShopifyOption {
	return func(s *Shopify) {
		if n > 0 {
			s.limit = n
		}
	}
}

func NewShopify(storeDomain string, opts ...ShopifyOption) *Shopify {
	s := &Shopify{
		baseURL:    "https://" + storeDomain,
		apiVersion: "2024-10",
		limit:      50,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type shopifyListing struct {
	Products []shopifyProduct `json:"products"`
}

type shopifyProduct struct {
	ID          json.Number      `json:"id"`
	Title       string           `json:"title"`
	Handle      string           `json:"handle"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Tags        shopifyTags      `json:"tags"`
	Variants    []shopifyVariant `json:"variants"`
}

type shopifyVariant struct {
	ID                json.Number `json:"id"`
	Price             string      `json:"price"`
	Available         *bool       `json:"available"`
	InventoryQuantity *int        `json:"inventory_quantity"`
}

// shopifyTags accepts both the Admin API's comma separated string and the
// storefront's array.
type shopifyTags []string

func (t *shopifyTags) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(b, &joined); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	*t = nil
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			*t = append(*t, tag)
		}
	}
	return nil
}

func (s *Shopify) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listingURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("building shopify request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("X-Shopify-Access-Token", s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("shopify products: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listing shopifyListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding shopify products: %w", err)
	}

	out := make([]domain.Product, 0, len(listing.Products))
	for _, p := range listing.Products {
		product, err := p.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, nil
}

func (s *Shopify) listingURL() string {
	if s.token != "" {
		return fmt.Sprintf("%s/admin/api/%s/products.json?limit=%d", s.baseURL, s.apiVersion, s.limit)
	}
	return s.baseURL + "/products.json?limit=" + strconv.Itoa(s.limit)
}

func (p shopifyProduct) toDomain() (domain.Product, error) {
	variants := make([]domain.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		price, err := parsePrice(v.Price)
		if err != nil {
			return domain.Product{}, fmt.Errorf("shopify product %s variant %s: %w", p.ID, v.ID, err)
		}

		available := true
		switch {
		case v.Available != nil:
			available = *v.Available
		case v.InventoryQuantity != nil:
			available = *v.InventoryQuantity > 0
		}

		variants = append(variants, domain.Variant{
			ID:        v.ID.String(),
			Price:     price,
			Available: available,
		})
	}

	return domain.Product{
		ID:          p.ID.String(),
		Title:       p.Title,
		Handle:      p.Handle,
		Type:        p.ProductType,
		Tags:        p.Tags,
		Vendor:      p.Vendor,
		Description: p.BodyHTML,
		Variants:    variants,
	}, nil
}
