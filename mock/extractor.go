package mock

import "github.com/pageproof/pageproof"

var _ pageproof.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pageproof.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pageproof.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pageproof.ExtractResult, error) {
	return e.ExtractFn(html)
}
