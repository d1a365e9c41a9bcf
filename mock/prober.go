package mock

import (
	"context"

	"github.com/pageproof/pageproof"
)

var _ pageproof.Prober = (*Prober)(nil)

// Prober is a mock implementation of pageproof.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) (*pageproof.Availability, error)
}

func (p *Prober) Probe(ctx context.Context, url string) (*pageproof.Availability, error) {
	return p.ProbeFn(ctx, url)
}
