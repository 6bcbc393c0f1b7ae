package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited gates every Generate call on a shared token bucket.
type rateLimited struct {
	next    TextGenerator
	limiter *rate.Limiter
}

// NewRateLimited wraps next so that at most perMinute calls start per
// minute, process-wide. Waiting honors the caller's context.
func NewRateLimited(next TextGenerator, perMinute int) TextGenerator {
	limit := rate.Limit(float64(perMinute) / 60.0)
	return &rateLimited{next: next, limiter: rate.NewLimiter(limit, 1)}
}

func (r *rateLimited) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limiter: %v", ErrTimeout, err)
	}
	return r.next.Generate(ctx, req)
}

func (r *rateLimited) Available(ctx context.Context) bool {
	return r.next.Available(ctx)
}
