package domain

import "strings"

// Intent is what the classifier decided the customer wants. The set is
// closed: anything ParseIntent does not recognize becomes IntentUnknown.
type Intent string

const (
	IntentUnknown        Intent = "unknown"
	IntentSearch         Intent = "search"
	IntentAddToCart      Intent = "add_to_cart"
	IntentRemoveFromCart Intent = "remove_from_cart"
	IntentViewCart       Intent = "view_cart"
	IntentCheckout       Intent = "checkout"
	IntentClearCart      Intent = "clear_cart"
	IntentDetails        Intent = "details"
	IntentFollowup       Intent = "followup"
)

// Intents lists every known intent, in the order they are documented to the
// classifier.
var Intents = []Intent{
	IntentSearch,
	IntentAddToCart,
	IntentRemoveFromCart,
	IntentViewCart,
	IntentCheckout,
	IntentClearCart,
	IntentDetails,
	IntentFollowup,
}

// ParseIntent maps classifier output to an Intent.
func ParseIntent(s string) Intent {
	v := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Intents {
		if v == known {
			return v
		}
	}
	return IntentUnknown
}

// IsCart reports whether the intent is handled by the cart engine.
func (i Intent) IsCart() bool {
	switch i {
	case IntentAddToCart, IntentRemoveFromCart, IntentViewCart, IntentCheckout, IntentClearCart:
		return true
	default:
		return false
	}
}

// Classification is the structured output of the intent classifier.
type Classification struct {
	Intent           Intent
	SearchQuery      string
	ProductReference string
	// Quantity is 0 when the customer did not state one.
	Quantity int
}
