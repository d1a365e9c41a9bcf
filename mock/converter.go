package mock

import "github.com/pageproof/pageproof"

var _ pageproof.Converter = (*Converter)(nil)

// Converter is a mock implementation of pageproof.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
