// Package trafilatura implements main content extraction using the
// go-trafilatura library.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pageproof/pageproof"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pageproof.Extractor at compile time.
var _ pageproof.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to locate the main copy of a page.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &pageproof.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
