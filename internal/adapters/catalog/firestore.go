package catalog

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/PabloGalante/shopchat/internal/domain"
)

const defaultProductsCollection = "products"

// Firestore reads the catalog from a Firestore collection, one document per
// product keyed by product id.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a Firestore catalog for projectID.
func NewFirestore(ctx context.Context, projectID string) (*Firestore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore catalog")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Firestore{client: client, collection: defaultProductsCollection}, nil
}

// Close releases the underlying client.
func (f *Firestore) Close() error {
	return f.client.Close()
}

type productDoc struct {
	Title       string       `firestore:"title"`
	Handle      string       `firestore:"handle"`
	Type        string       `firestore:"type"`
	Tags        []string     `firestore:"tags"`
	Vendor      string       `firestore:"vendor"`
	Description string       `firestore:"description"`
	Variants    []variantDoc `firestore:"variants"`
}

type variantDoc struct {
	ID        string `firestore:"id"`
	Price     string `firestore:"price"`
	Available bool   `firestore:"available"`
}

func (f *Firestore) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	iter := f.client.Collection(f.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []domain.Product
	for {
		snap, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("firestore FetchCatalog: %w", err)
		}

		var doc productDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode productDoc %s: %w", snap.Ref.ID, err)
		}

		product, err := doc.toDomain(snap.Ref.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, nil
}

func (d productDoc) toDomain(id string) (domain.Product, error) {
	variants := make([]domain.Variant, 0, len(d.Variants))
	for _, v := range d.Variants {
		price, err := parsePrice(v.Price)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s variant %s: %w", id, v.ID, err)
		}
		variants = append(variants, domain.Variant{ID: v.ID, Price: price, Available: v.Available})
	}

	return domain.Product{
		ID:          id,
		Title:       d.Title,
		Handle:      d.Handle,
		Type:        d.Type,
		Tags:        d.Tags,
		Vendor:      d.Vendor,
		Description: d.Description,
		Variants:    variants,
	}, nil
}
