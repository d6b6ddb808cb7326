package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PabloGalante/shopchat/internal/domain"
)

const classifierSystemPrompt = `
You are the intent classifier of an online fashion store's shopping assistant.

Read the customer's latest message, the recent conversation and the list of
products already shown to the customer, and answer with ONE JSON object:

{
  "intent": one of %s,
  "search_query": string or null,
  "product_reference": string or null,
  "quantity": integer or null
}

Rules:
- "search": the customer is looking for products. Put the product words only
  (singular, no filler like "show me") in search_query.
- "add_to_cart" / "remove_from_cart": product_reference MUST be the exact title
  of one of the known products. Resolve references like "the first one",
  "that one" or "the blue one" using the known products list.
- "details": the customer wants more information about a known product; set
  product_reference to its exact title.
- "view_cart", "clear_cart", "checkout": no product fields needed.
- "followup": anything else related to the conversation; set search_query when
  a product search would help.
- quantity only when the customer states a number.
Answer with the JSON object only.
`

const responderSystemPrompt = `
You are the friendly shopping assistant of an online fashion store.

You receive the customer's message and a JSON "result" computed by the store's
backend. Write a short reply (at most 6 lines) based ONLY on the result:
- "products": list each product with its price and a link when present; say
  when an item is out of stock. Invite the customer to add one to the cart.
- "details": describe the product using the given fields.
- "item_added" / "item_removed" / "cart_cleared": confirm the cart change.
- "cart": list the items and the total.
- "checkout": give the checkout link exactly as provided.
- "cart_empty": say the cart is empty and suggest searching.
- "not_found": explain the reason and suggest searching first.
Never invent products, prices or links. Answer in the customer's language.
`

// ClassifierSystemPrompt returns the system instructions for intent
// classification.
func ClassifierSystemPrompt() string {
	names := make([]string, 0, len(domain.Intents))
	for _, i := range domain.Intents {
		names = append(names, fmt.Sprintf("%q", i))
	}
	return fmt.Sprintf(classifierSystemPrompt, strings.Join(names, ", "))
}

// BuildClassifierPrompt renders the user content for the classifier: known
// products, recent history and the new message.
func BuildClassifierPrompt(message string, convCtx domain.ConversationContext) string {
	var b strings.Builder

	if len(convCtx.KnownProducts) > 0 {
		b.WriteString("Known products:\n")
		for i, p := range convCtx.KnownProducts {
			fmt.Fprintf(&b, "%d. %s (%s, $%s)\n", i+1, p.Title, p.Type, p.Price.StringFixed(2))
		}
		b.WriteString("\n")
	}

	if len(convCtx.History) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, ex := range convCtx.History {
			b.WriteString("user: " + ex.UserMessage + "\n")
			b.WriteString("assistant: " + ex.AssistantMessage + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("New customer message:\n")
	b.WriteString(message)
	return b.String()
}

type classificationJSON struct {
	Intent           string  `json:"intent"`
	SearchQuery      *string `json:"search_query"`
	ProductReference *string `json:"product_reference"`
	Quantity         *int    `json:"quantity"`
}

// ParseClassification decodes the classifier's JSON answer. Markdown code
// fences around the object are tolerated.
func ParseClassification(text string) (domain.Classification, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw classificationJSON
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.Classification{}, fmt.Errorf("decoding classification: %w", err)
	}

	cls := domain.Classification{Intent: domain.ParseIntent(raw.Intent)}
	if raw.SearchQuery != nil {
		cls.SearchQuery = strings.TrimSpace(*raw.SearchQuery)
	}
	if raw.ProductReference != nil {
		cls.ProductReference = strings.TrimSpace(*raw.ProductReference)
	}
	if raw.Quantity != nil && *raw.Quantity > 0 {
		cls.Quantity = *raw.Quantity
	}
	return cls, nil
}

// BuildResponsePrompt renders the user content for the response generator.
func BuildResponsePrompt(message string, result domain.Result) (string, error) {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	var b strings.Builder
	b.WriteString("Customer message:\n")
	b.WriteString(message)
	b.WriteString("\n\nResult:\n")
	b.Write(payload)
	return b.String(), nil
}
