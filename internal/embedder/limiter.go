package embedder

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// limitedEmbedder throttles calls to a remote provider.
type limitedEmbedder struct {
	Embedder
	limiter *rate.Limiter
}

// WithRateLimit wraps e so at most rps calls per second (with the given
// burst) reach the provider. rps <= 0 disables throttling.
func WithRateLimit(e Embedder, rps float64, burst int) Embedder {
	if rps <= 0 {
		return e
	}
	if burst < 1 {
		burst = 1
	}
	return &limitedEmbedder{
		Embedder: e,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *limitedEmbedder) GenerateEmbedding(ctx context.Context, req EmbeddingRequest) (*Embedding, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return l.Embedder.GenerateEmbedding(ctx, req)
}

func (l *limitedEmbedder) GenerateBatch(ctx context.Context, req BatchEmbeddingRequest) (*BatchEmbeddingResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return l.Embedder.GenerateBatch(ctx, req)
}
