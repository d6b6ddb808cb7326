package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// RateLimited puts a shared requests-per-minute budget in front of the LLM
// collaborators. Callers block until a token is available or ctx is done.
type RateLimited struct {
	classifier domain.IntentClassifier
	responder  domain.ResponseGenerator
	limiter    *rate.Limiter
}

// NewRateLimited wraps classifier and responder. perMinute <= 0 disables
// limiting.
func NewRateLimited(
	classifier domain.IntentClassifier,
	responder domain.ResponseGenerator,
	perMinute int,
) *RateLimited {
	limit := rate.Inf
	burst := 1
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60.0)
		burst = perMinute
	}
	return &RateLimited{
		classifier: classifier,
		responder:  responder,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Classify implements domain.IntentClassifier.
func (r *RateLimited) Classify(
	ctx context.Context,
	message string,
	convCtx domain.ConversationContext,
) (domain.Classification, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Classification{}, fmt.Errorf("llm rate limit: %w", err)
	}
	return r.classifier.Classify(ctx, message, convCtx)
}

// GenerateResponse implements domain.ResponseGenerator.
func (r *RateLimited) GenerateResponse(
	ctx context.Context,
	message string,
	result domain.Result,
	convCtx domain.ConversationContext,
) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm rate limit: %w", err)
	}
	return r.responder.GenerateResponse(ctx, message, result, convCtx)
}
