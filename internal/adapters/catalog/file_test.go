package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/shopchat/internal/adapters/catalog"
)

const catalogYAML = `
products:
  - id: "8001"
    title: Floral Summer Dress
    handle: floral-summer-dress
    type: Dress
    tags: [summer, floral]
    vendor: Bloom & Co
    description: "<p>Lightweight dress</p>"
    variants:
      - id: "44444444444444"
        price: "49.99"
        available: true
  - id: "8002"
    title: Denim Jacket
    type: Jacket
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileFetchCatalog(t *testing.T) {
	src := catalog.NewFile(writeCatalog(t, catalogYAML))

	products, err := src.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	dress := products[0]
	assert.Equal(t, "8001", dress.ID)
	assert.Equal(t, "Floral Summer Dress", dress.Title)
	assert.Equal(t, []string{"summer", "floral"}, dress.Tags)
	require.Len(t, dress.Variants, 1)
	assert.Equal(t, "49.99", dress.Variants[0].Price.StringFixed(2))
	assert.True(t, dress.Variants[0].Available)

	assert.Empty(t, products[1].Variants)
}

func TestFileRejectsBadPrice(t *testing.T) {
	src := catalog.NewFile(writeCatalog(t, `
products:
  - id: "1"
    title: Broken
    variants:
      - id: "v"
        price: "cheap"
`))

	_, err := src.FetchCatalog(context.Background())
	assert.ErrorContains(t, err, "invalid price")
}

func TestFileMissing(t *testing.T) {
	_, err := catalog.NewFile(filepath.Join(t.TempDir(), "nope.yaml")).FetchCatalog(context.Background())
	assert.Error(t, err)
}
