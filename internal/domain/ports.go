package domain

import "context"

// ConversationContext gives the LLM collaborators what they need about the
// conversation so far.
type ConversationContext struct {
	SessionID     SessionID
	History       []Exchange
	KnownProducts []KnownProduct
}

// IntentClassifier turns a raw customer message into a Classification.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, convCtx ConversationContext) (Classification, error)
}

// ResponseGenerator turns a structured Result into customer-facing prose.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, message string, result Result, convCtx ConversationContext) (string, error)
}

// CatalogSource returns the current product listing. Implementations may
// cache; the core calls it once per search and never caches it itself.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]Product, error)
}
