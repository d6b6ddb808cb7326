package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// File reads the catalog from a YAML file on every fetch. Wrap it in Cached
// to avoid re-reading.
//
//	products:
//	  - id: "8001"
//	    title: Floral Summer Dress
//	    handle: floral-summer-dress
//	    type: Dress
//	    tags: [summer, floral]
//	    vendor: Bloom & Co
//	    description: "<p>Lightweight dress</p>"
//	    variants:
//	      - id: "44444444444444"
//	        price: "49.99"
//	        available: true
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

type fileProduct struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Handle      string        `yaml:"handle"`
	Type        string        `yaml:"type"`
	Tags        []string      `yaml:"tags"`
	Vendor      string        `yaml:"vendor"`
	Description string        `yaml:"description"`
	Variants    []fileVariant `yaml:"variants"`
}

type fileVariant struct {
	ID        string `yaml:"id"`
	Price     string `yaml:"price"`
	Available bool   `yaml:"available"`
}

func (f *File) FetchCatalog(_ context.Context) ([]domain.Product, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var doc fileCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalog file %s: %w", f.path, err)
	}

	out := make([]domain.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		variants := make([]domain.Variant, 0, len(p.Variants))
		for _, v := range p.Variants {
			price, err := parsePrice(v.Price)
			if err != nil {
				return nil, fmt.Errorf("product %s variant %s: %w", p.ID, v.ID, err)
			}
			variants = append(variants, domain.Variant{ID: v.ID, Price: price, Available: v.Available})
		}

		out = append(out, domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Handle:      p.Handle,
			Type:        p.Type,
			Tags:        p.Tags,
			Vendor:      p.Vendor,
			Description: p.Description,
			Variants:    variants,
		})
	}
	return out, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}
