// Package cart implements cart mutations over a single session.
//
// Callers must hold the session (see memory.SessionStore.Acquire) for the
// duration of each call: resolving a product and updating its line is a
// read-modify-write sequence.
package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/PabloGalante/shopchat/internal/domain"
)

const emptyCartMessage = "Your cart is empty."

// Outcome is the result of a cart mutation. Failures are expected business
// outcomes (the customer named a product we have not shown them), so they
// are reported here instead of as errors.
type Outcome struct {
	OK bool
	// Product is the resolved product, set whenever resolution succeeded.
	Product domain.KnownProduct
	// Quantity is the line quantity after a successful add.
	Quantity int
	// Reason is a human-readable explanation of a failure.
	Reason string
}

// Engine executes cart operations. It holds no state of its own.
type Engine struct {
	storeDomain string
}

func NewEngine(storeDomain string) *Engine {
	return &Engine{storeDomain: storeDomain}
}

// Add puts quantity units of the product matching query into the cart.
// Quantities below 1 count as 1. Adding a product that already has a line
// increments that line.
func (e *Engine) Add(session *domain.Session, query string, quantity int) Outcome {
	if quantity < 1 {
		quantity = 1
	}

	p, ok := Resolve(session, query)
	if !ok {
		return Outcome{Reason: notFoundReason(query)}
	}

	if i := session.CartLineIndex(p.ID); i >= 0 {
		session.Cart[i].Quantity += quantity
		return Outcome{OK: true, Product: p, Quantity: session.Cart[i].Quantity}
	}

	session.Cart = append(session.Cart, domain.CartLine{
		ProductID: p.ID,
		VariantID: p.VariantID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Quantity:  quantity,
	})
	return Outcome{OK: true, Product: p, Quantity: quantity}
}

// Remove deletes the whole line of the product matching query.
func (e *Engine) Remove(session *domain.Session, query string) Outcome {
	p, ok := Resolve(session, query)
	if !ok {
		return Outcome{Reason: notFoundReason(query)}
	}

	i := session.CartLineIndex(p.ID)
	if i < 0 {
		return Outcome{Product: p, Reason: fmt.Sprintf("%q is not in your cart", p.Title)}
	}

	session.Cart = append(session.Cart[:i], session.Cart[i+1:]...)
	return Outcome{OK: true, Product: p}
}

// View summarizes the cart. Totals are summed exactly and rounded once.
func (e *Engine) View(session *domain.Session) domain.CartView {
	if len(session.Cart) == 0 {
		return domain.CartView{Empty: true, Message: emptyCartMessage}
	}

	total := decimal.Zero
	count := 0
	items := make([]string, 0, len(session.Cart))
	for _, line := range session.Cart {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		count += line.Quantity
		items = append(items, fmt.Sprintf("%s x%d - $%s", line.Title, line.Quantity, lineTotal.StringFixed(2)))
	}

	return domain.CartView{
		Items: items,
		Total: total.StringFixed(2),
		Count: count,
	}
}

// Clear empties the cart.
func (e *Engine) Clear(session *domain.Session) {
	session.Cart = nil
}

// CheckoutURL returns the storefront cart permalink for the session's cart,
// with lines in cart order. It reports false when the cart is empty.
func (e *Engine) CheckoutURL(session *domain.Session) (string, bool) {
	if len(session.Cart) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(e.storeDomain)
	b.WriteString("/cart/")
	for i, line := range session.Cart {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(line.VariantID)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line.Quantity))
	}
	return b.String(), true
}

// Resolve finds the first known product, in insertion order, whose title and
// type contain either the whole query or every word of it. A blank query
// matches nothing.
func Resolve(session *domain.Session, query string) (domain.KnownProduct, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.KnownProduct{}, false
	}
	words := strings.Fields(q)

	for _, p := range session.KnownProducts.Values() {
		hay := strings.ToLower(p.Title + " " + p.Type)
		if strings.Contains(hay, q) || containsAll(hay, words) {
			return p, true
		}
	}
	return domain.KnownProduct{}, false
}

func containsAll(hay string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}

func notFoundReason(query string) string {
	return fmt.Sprintf("could not find a product matching %q among the products you have seen", query)
}
