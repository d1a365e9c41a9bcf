package proof

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces correction requests using a token bucket.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer allowing rps requests per second with a burst
// of 1 (no bursting allowed).
func NewPacer(rps float64) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the pacer allows the next request.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
