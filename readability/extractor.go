// Package readability implements main content extraction using the
// go-readability library.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pageproof/pageproof"
)

// Ensure Extractor implements pageproof.Extractor at compile time.
var _ pageproof.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to locate the main copy of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes rendered HTML and returns the main copy.
func (e *Extractor) Extract(rawHTML string) (*pageproof.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pageproof.Errorf(pageproof.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &pageproof.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
