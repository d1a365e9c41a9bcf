package mock

import (
	"context"

	"github.com/pageproof/pageproof"
)

var _ pageproof.Corrector = (*Corrector)(nil)

// Corrector is a mock implementation of pageproof.Corrector.
type Corrector struct {
	CorrectFn func(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error)
}

func (c *Corrector) Correct(ctx context.Context, batch *pageproof.Batch) ([]pageproof.Correction, error) {
	return c.CorrectFn(ctx, batch)
}
