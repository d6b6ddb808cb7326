package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/shopchat/internal/adapters/catalog"
	"github.com/PabloGalante/shopchat/internal/config"
)

func TestRunChat(t *testing.T) {
	cfg := &config.Config{
		CatalogBackend:    config.CatalogDemo,
		StoreDomain:       "demo-store.myshopify.com",
		UseMockLLM:        true,
		MaxHistory:        10,
		MaxKnownProducts:  20,
		SearchResultLimit: 5,
		SessionTTL:        time.Minute,
	}
	svc, closer, err := buildService(context.Background(), cfg)
	require.NoError(t, err)
	defer closer.Close()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader("show me jackets\n\nadd the first one\ncheckout\nexit\nnever read\n"))
	cmd.SetOut(&out)

	require.NoError(t, runChat(cmd, svc, "cli"))

	text := out.String()
	assert.Contains(t, text, "session cli")
	assert.Contains(t, text, "Denim Jacket")
	assert.Contains(t, text, "https://demo-store.myshopify.com/cart/77777777777777:1")
	assert.NotContains(t, text, "never read")
}

func TestBuildCatalog(t *testing.T) {
	ctx := context.Background()

	src, _, err := buildCatalog(ctx, &config.Config{CatalogBackend: config.CatalogDemo})
	require.NoError(t, err)
	assert.IsType(t, &catalog.Static{}, src)

	src, _, err = buildCatalog(ctx, &config.Config{CatalogBackend: config.CatalogFile, CatalogFile: "x.yaml", CatalogCacheTTL: 1})
	require.NoError(t, err)
	assert.IsType(t, &catalog.Cached{}, src)

	src, _, err = buildCatalog(ctx, &config.Config{CatalogBackend: config.CatalogShopify, StoreDomain: "s.myshopify.com"})
	require.NoError(t, err)
	assert.IsType(t, &catalog.Shopify{}, src)
}
