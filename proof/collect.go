package proof

import (
	"context"
	"strings"

	"github.com/pageproof/pageproof"
)

// DefaultSelectors returns the CSS selectors walked during collection, in
// priority order. Generic text-bearing tags come first, followed by class
// selectors for branding elements that plain tag selectors miss.
func DefaultSelectors() []string {
	return []string{
		"p", "span", "a",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"li", "label", "small", "strong", "em", "i", "b", "u",
		"td", "th", "cite", "figcaption", "mark", "time",
		"div.logo-text", "div.logo-subtitle",
		"button.language-selector", "div.skypriority-logo",
	}
}

// Collect walks the selectors over the page and gathers the text of visible
// elements. Indices are assigned in walk order starting at zero: selectors
// in list order, document order within each selector. Nested elements that
// repeat the same text are collected twice, once per match.
//
// A failing element read is counted in the stats and skipped; it never
// aborts the pass. Only context cancellation stops collection early.
func Collect(ctx context.Context, page pageproof.Page, selectors []string) ([]pageproof.TextItem, pageproof.CollectStats, error) {
	var stats pageproof.CollectStats
	var items []pageproof.TextItem

	index := 0
	for _, selector := range selectors {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		elements, err := page.Elements(ctx, selector)
		if err != nil {
			stats.Errors++
			continue
		}

		for _, el := range elements {
			stats.Matched++

			visible, err := el.Visible(ctx)
			if err != nil {
				stats.Errors++
				continue
			}
			if !visible {
				stats.Skipped++
				continue
			}

			text, err := el.Text(ctx)
			if err != nil {
				stats.Errors++
				continue
			}
			text = strings.TrimSpace(text)
			if text == "" {
				stats.Skipped++
				continue
			}

			items = append(items, pageproof.TextItem{
				Index:   index,
				Text:    text,
				Element: el,
			})
			index++
		}
	}

	stats.Collected = len(items)
	return items, stats, nil
}
