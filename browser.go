package pageproof

import "context"

// Browser owns a running browser instance and opens pages in it.
// Implementations use browser automation to execute JavaScript-rendered
// pages the way a reader sees them.
type Browser interface {
	// NewPage opens a fresh page. The caller must close the page when done.
	NewPage(ctx context.Context) (Page, error)

	// Close releases browser resources.
	// Must be called when the Browser is no longer needed.
	Close() error
}

// Page is a single browser tab. All operations act on the document the
// page is currently navigated to.
type Page interface {
	// Navigate loads the URL and waits for the DOM to settle.
	// The context controls timeout and cancellation.
	Navigate(ctx context.Context, url string) error

	// HTML returns the rendered HTML of the current document.
	HTML(ctx context.Context) (string, error)

	// Title returns the current document title.
	Title(ctx context.Context) (string, error)

	// Elements returns live handles to all elements matching the CSS
	// selector, in document order. A selector that matches nothing
	// returns an empty slice, not an error.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// DismissOverlays removes cookie banners and other fixed overlays
	// that would sit on top of the content.
	DismissOverlays(ctx context.Context) error

	// Screenshot captures a full-page PNG of the current document.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close closes the page. Element handles obtained from it become
	// invalid.
	Close() error
}

// Element is a live handle to a DOM element on an open page.
type Element interface {
	// Visible reports whether the element is rendered with a non-empty
	// box. The document body always reports visible.
	Visible(ctx context.Context) (bool, error)

	// Text returns the element's inner text as rendered.
	Text(ctx context.Context) (string, error)

	// TagName returns the element's lowercase tag name.
	TagName(ctx context.Context) (string, error)

	// FontSize returns the computed font-size in pixels.
	FontSize(ctx context.Context) (float64, error)

	// Highlight styles the element with the review marker (red border,
	// yellow background). A non-empty note is rendered as a badge on the
	// element.
	Highlight(ctx context.Context, note string) error

	// Unhighlight removes the review marker styling.
	Unhighlight(ctx context.Context) error
}
