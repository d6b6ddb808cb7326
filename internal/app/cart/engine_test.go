package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/shopchat/internal/app/cart"
	"github.com/PabloGalante/shopchat/internal/domain"
)

const storeDomain = "demo-store.myshopify.com"

func newSession(products ...domain.KnownProduct) *domain.Session {
	s := domain.NewSession("test", domain.Timestamp{})
	for _, p := range products {
		s.KnownProducts.Put(p)
	}
	return s
}

func dress() domain.KnownProduct {
	return domain.KnownProduct{
		ID:        "p-dress",
		Title:     "Floral Summer Dress",
		Type:      "Dress",
		Price:     decimal.RequireFromString("49.99"),
		Available: true,
		VariantID: "44444444444444",
	}
}

func shirt() domain.KnownProduct {
	return domain.KnownProduct{
		ID:        "p-shirt",
		Title:     "White Party Shirt",
		Type:      "Shirt",
		Price:     decimal.RequireFromString("39.99"),
		Available: true,
		VariantID: "55555555555555",
	}
}

func TestAddSameProductAccumulates(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())

	first := engine.Add(sess, "summer dress", 1)
	second := engine.Add(sess, "floral dress", 1)

	require.True(t, first.OK)
	require.True(t, second.OK)
	require.Len(t, sess.Cart, 1)
	assert.Equal(t, 2, sess.Cart[0].Quantity)
	assert.Equal(t, 2, second.Quantity)
	assert.Equal(t, "Floral Summer Dress", second.Product.Title)
}

func TestAddMatchesWholeQueryOrEveryWord(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())

	assert.True(t, engine.Add(sess, "Party Shirt", 1).OK, "substring of title")
	assert.True(t, engine.Add(sess, "shirt white", 1).OK, "every word in any order")
	assert.True(t, engine.Add(sess, "dress", 1).OK, "type")
	assert.False(t, engine.Add(sess, "blue shirt", 1).OK, "one word missing")
}

func TestAddFirstMatchWins(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	other := shirt()
	other.ID = "p-shirt-2"
	other.Title = "Black Party Shirt"
	sess := newSession(shirt(), other)

	out := engine.Add(sess, "party shirt", 1)

	require.True(t, out.OK)
	assert.Equal(t, "p-shirt", out.Product.ID)
}

func TestAddUnknownProductFails(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress())

	out := engine.Add(sess, "leather boots", 1)

	assert.False(t, out.OK)
	assert.Contains(t, out.Reason, "leather boots")
	assert.Empty(t, sess.Cart)
}

func TestAddBlankQueryFails(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress())

	assert.False(t, engine.Add(sess, "   ", 1).OK)
}

func TestAddNormalizesQuantity(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress())

	out := engine.Add(sess, "dress", 0)

	require.True(t, out.OK)
	assert.Equal(t, 1, sess.Cart[0].Quantity)
}

func TestRemoveDeletesWholeLine(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())
	engine.Add(sess, "dress", 3)
	engine.Add(sess, "shirt", 1)

	out := engine.Remove(sess, "floral")

	require.True(t, out.OK)
	require.Len(t, sess.Cart, 1)
	assert.Equal(t, "p-shirt", sess.Cart[0].ProductID)
}

func TestRemoveProductNotInCart(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())
	engine.Add(sess, "shirt", 1)

	out := engine.Remove(sess, "summer dress")

	assert.False(t, out.OK)
	assert.Contains(t, out.Reason, "Floral Summer Dress")
	assert.Contains(t, out.Reason, "not in your cart")
	assert.Len(t, sess.Cart, 1)
}

func TestRemoveUnknownProduct(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress())
	engine.Add(sess, "dress", 1)

	out := engine.Remove(sess, "jacket")

	assert.False(t, out.OK)
	assert.Len(t, sess.Cart, 1)
}

func TestViewTotals(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())
	engine.Add(sess, "dress", 1)
	engine.Add(sess, "shirt", 2)

	view := engine.View(sess)

	assert.False(t, view.Empty)
	assert.Equal(t, "129.97", view.Total)
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, []string{
		"Floral Summer Dress x1 - $49.99",
		"White Party Shirt x2 - $79.98",
	}, view.Items)
}

func TestViewSumsWithoutFloatDrift(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	cheap := domain.KnownProduct{ID: "c", Title: "Sticker", Price: decimal.RequireFromString("0.10"), VariantID: "1"}
	sess := newSession(cheap)
	engine.Add(sess, "sticker", 3)

	assert.Equal(t, "0.30", engine.View(sess).Total)
}

func TestViewEmpty(t *testing.T) {
	engine := cart.NewEngine(storeDomain)

	view := engine.View(newSession())

	assert.True(t, view.Empty)
	assert.NotEmpty(t, view.Message)
	assert.Empty(t, view.Items)
}

func TestClear(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress())
	engine.Add(sess, "dress", 1)

	engine.Clear(sess)

	assert.Empty(t, sess.Cart)
	assert.Equal(t, 1, sess.KnownProducts.Len(), "clear only touches the cart")
}

func TestCheckoutURL(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())
	engine.Add(sess, "dress", 2)
	engine.Add(sess, "shirt", 2)

	url, ok := engine.CheckoutURL(sess)

	require.True(t, ok)
	assert.Equal(t, "https://demo-store.myshopify.com/cart/44444444444444:2,55555555555555:2", url)
}

func TestCheckoutURLKeepsCartOrder(t *testing.T) {
	engine := cart.NewEngine(storeDomain)
	sess := newSession(dress(), shirt())
	engine.Add(sess, "shirt", 1)
	engine.Add(sess, "dress", 1)

	url, _ := engine.CheckoutURL(sess)

	assert.Equal(t, "https://demo-store.myshopify.com/cart/55555555555555:1,44444444444444:1", url)
}

func TestCheckoutURLEmptyCart(t *testing.T) {
	engine := cart.NewEngine(storeDomain)

	url, ok := engine.CheckoutURL(newSession(dress()))

	assert.False(t, ok)
	assert.Empty(t, url)
}
