package llm_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/shopchat/internal/adapters/llm"
	"github.com/PabloGalante/shopchat/internal/domain"
)

func knownContext() domain.ConversationContext {
	return domain.ConversationContext{
		KnownProducts: []domain.KnownProduct{
			{ID: "1", Title: "Floral Summer Dress", Price: decimal.RequireFromString("49.99")},
			{ID: "2", Title: "Black Evening Dress", Price: decimal.RequireFromString("119")},
		},
	}
}

func TestMockClassify(t *testing.T) {
	mock := llm.NewMockLLM()
	ctx := context.Background()

	tests := []struct {
		message string
		want    domain.Classification
	}{
		{"Show me dresses", domain.Classification{Intent: domain.IntentSearch, SearchQuery: "dress"}},
		{"What shirts do you have in stock?", domain.Classification{Intent: domain.IntentSearch, SearchQuery: "shirt"}},
		{"Add the first one to my cart", domain.Classification{Intent: domain.IntentAddToCart, ProductReference: "Floral Summer Dress"}},
		{"add 2 black evening dresses", domain.Classification{Intent: domain.IntentAddToCart, ProductReference: "black evening dress", Quantity: 2}},
		{"add it", domain.Classification{Intent: domain.IntentAddToCart, ProductReference: "Black Evening Dress"}},
		{"remove the second one", domain.Classification{Intent: domain.IntentRemoveFromCart, ProductReference: "Black Evening Dress"}},
		{"what's in my cart?", domain.Classification{Intent: domain.IntentViewCart}},
		{"please clear my cart", domain.Classification{Intent: domain.IntentClearCart}},
		{"I want to checkout", domain.Classification{Intent: domain.IntentCheckout}},
		{"Tell me more about the first one", domain.Classification{Intent: domain.IntentDetails, ProductReference: "Floral Summer Dress"}},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, err := mock.Classify(ctx, tt.message, knownContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMockClassifyDetailsWithoutContextSearches(t *testing.T) {
	got, err := llm.NewMockLLM().Classify(context.Background(), "tell me more about jackets", domain.ConversationContext{})
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSearch, got.Intent)
	assert.Equal(t, "jacket", got.SearchQuery)
}

func TestMockGenerateResponse(t *testing.T) {
	mock := llm.NewMockLLM()

	reply, err := mock.GenerateResponse(context.Background(), "dresses", domain.Result{
		Kind: domain.ResultProducts,
		Products: []domain.KnownProduct{
			{Title: "Black Evening Dress", Price: decimal.RequireFromString("119"), URL: "https://shop/products/black"},
		},
	}, domain.ConversationContext{})
	require.NoError(t, err)

	assert.Contains(t, reply, "1. Black Evening Dress - $119.00 (out of stock) https://shop/products/black")

	reply, err = mock.GenerateResponse(context.Background(), "checkout", domain.Result{
		Kind:        domain.ResultCheckout,
		CheckoutURL: "https://shop/cart/1:1",
	}, domain.ConversationContext{})
	require.NoError(t, err)
	assert.Contains(t, reply, "https://shop/cart/1:1")
}
