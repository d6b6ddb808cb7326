package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// MockLLM is a deterministic, keyword-based stand-in for the LLM
// collaborators. It is good enough to drive the whole flow locally without
// credentials.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

var (
	fillerWords = map[string]bool{
		"a": true, "an": true, "the": true, "me": true, "my": true, "i": true, "to": true,
		"of": true, "for": true, "in": true, "on": true, "please": true, "some": true, "any": true,
		"show": true, "find": true, "do": true, "you": true, "have": true, "want": true, "would": true,
		"like": true, "looking": true, "search": true, "what": true, "is": true, "are": true,
		"can": true, "could": true, "get": true, "add": true, "put": true, "remove": true,
		"delete": true, "take": true, "out": true, "from": true, "cart": true, "one": true,
		"ones": true, "it": true, "that": true, "this": true, "also": true, "and": true,
		"tell": true, "more": true, "about": true, "details": true, "stock": true, "with": true,
		"buy": true, "x": true, "pcs": true,
	}
	numberWords = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}
	ordinals = map[string]int{
		"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
		"1st": 1, "2nd": 2, "3rd": 3, "4th": 4, "5th": 5,
	}
)

// Classify implements domain.IntentClassifier.
func (m *MockLLM) Classify(
	_ context.Context,
	message string,
	convCtx domain.ConversationContext,
) (domain.Classification, error) {
	lower := strings.ToLower(strings.TrimSpace(message))
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	has := func(w ...string) bool {
		for _, cand := range w {
			for _, word := range words {
				if word == cand {
					return true
				}
			}
		}
		return false
	}

	switch {
	case strings.Contains(lower, "checkout") || strings.Contains(lower, "check out") || has("pay"):
		return domain.Classification{Intent: domain.IntentCheckout}, nil
	case has("clear", "empty") && has("cart"):
		return domain.Classification{Intent: domain.IntentClearCart}, nil
	case has("remove", "delete") || strings.Contains(lower, "take out"):
		return domain.Classification{
			Intent:           domain.IntentRemoveFromCart,
			ProductReference: reference(words, convCtx.KnownProducts),
		}, nil
	case has("add", "buy") || strings.Contains(lower, "i'll take"):
		return domain.Classification{
			Intent:           domain.IntentAddToCart,
			ProductReference: reference(words, convCtx.KnownProducts),
			Quantity:         quantity(words),
		}, nil
	case has("cart", "basket"):
		return domain.Classification{Intent: domain.IntentViewCart}, nil
	case has("details", "more", "about") && len(convCtx.KnownProducts) > 0:
		return domain.Classification{
			Intent:           domain.IntentDetails,
			ProductReference: reference(words, convCtx.KnownProducts),
		}, nil
	default:
		return domain.Classification{
			Intent:      domain.IntentSearch,
			SearchQuery: strings.Join(productWords(words), " "),
		}, nil
	}
}

// GenerateResponse implements domain.ResponseGenerator.
func (m *MockLLM) GenerateResponse(
	_ context.Context,
	_ string,
	result domain.Result,
	_ domain.ConversationContext,
) (string, error) {
	switch result.Kind {
	case domain.ResultProducts:
		if len(result.Products) == 0 {
			return "Sorry, I couldn't find any products right now.", nil
		}
		var b strings.Builder
		b.WriteString("Here is what I found:\n")
		for i, p := range result.Products {
			fmt.Fprintf(&b, "%d. %s - $%s", i+1, p.Title, p.Price.StringFixed(2))
			if !p.Available {
				b.WriteString(" (out of stock)")
			}
			if p.URL != "" {
				b.WriteString(" " + p.URL)
			}
			b.WriteString("\n")
		}
		b.WriteString("Would you like to add one to your cart?")
		return b.String(), nil
	case domain.ResultCartEmpty:
		return "Your cart is empty. Tell me what you're looking for and I'll find it.", nil
	case domain.ResultNotFound:
		return fmt.Sprintf("Sorry, %s. Try searching for it first.", result.Reason), nil
	default:
		return result.Summary(), nil
	}
}

// reference resolves ordinals and pronouns against known products and
// otherwise returns the product words of the message.
func reference(words []string, known []domain.KnownProduct) string {
	for _, w := range words {
		if n, ok := ordinals[w]; ok && n <= len(known) {
			return known[n-1].Title
		}
		if w == "last" && len(known) > 0 {
			return known[len(known)-1].Title
		}
	}

	rest := productWords(words)
	if len(rest) == 0 && len(known) > 0 {
		// "add it", "remove that one"
		return known[len(known)-1].Title
	}
	return strings.Join(rest, " ")
}

func quantity(words []string) int {
	for _, w := range words {
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			return n
		}
		if n, ok := numberWords[w]; ok && w != "one" {
			return n
		}
	}
	return 0
}

// productWords drops filler, numbers and ordinals and singularizes what is
// left, so "show me some dresses" becomes "dress".
func productWords(words []string) []string {
	var out []string
	for _, w := range words {
		if fillerWords[w] || ordinals[w] > 0 || numberWords[w] > 0 || w == "last" {
			continue
		}
		if _, err := strconv.Atoi(w); err == nil {
			continue
		}
		out = append(out, singular(w))
	}
	return out
}

func singular(w string) string {
	switch {
	case len(w) <= 3:
		return w
	case strings.HasSuffix(w, "ies"):
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "xes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	default:
		return w
	}
}
