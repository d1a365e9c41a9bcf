package mock

import (
	"context"

	"github.com/pageproof/pageproof"
)

var _ pageproof.Browser = (*Browser)(nil)

// Browser is a mock implementation of pageproof.Browser.
type Browser struct {
	NewPageFn func(ctx context.Context) (pageproof.Page, error)
	CloseFn   func() error
}

func (b *Browser) NewPage(ctx context.Context) (pageproof.Page, error) {
	return b.NewPageFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

var _ pageproof.Page = (*Page)(nil)

// Page is a mock implementation of pageproof.Page.
type Page struct {
	NavigateFn        func(ctx context.Context, url string) error
	HTMLFn            func(ctx context.Context) (string, error)
	TitleFn           func(ctx context.Context) (string, error)
	ElementsFn        func(ctx context.Context, selector string) ([]pageproof.Element, error)
	DismissOverlaysFn func(ctx context.Context) error
	ScreenshotFn      func(ctx context.Context) ([]byte, error)
	CloseFn           func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Title(ctx context.Context) (string, error) {
	return p.TitleFn(ctx)
}

func (p *Page) Elements(ctx context.Context, selector string) ([]pageproof.Element, error) {
	return p.ElementsFn(ctx, selector)
}

func (p *Page) DismissOverlays(ctx context.Context) error {
	return p.DismissOverlaysFn(ctx)
}

func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return p.ScreenshotFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

var _ pageproof.Element = (*Element)(nil)

// Element is a mock implementation of pageproof.Element.
type Element struct {
	VisibleFn     func(ctx context.Context) (bool, error)
	TextFn        func(ctx context.Context) (string, error)
	TagNameFn     func(ctx context.Context) (string, error)
	FontSizeFn    func(ctx context.Context) (float64, error)
	HighlightFn   func(ctx context.Context, note string) error
	UnhighlightFn func(ctx context.Context) error
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.VisibleFn(ctx)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.TagNameFn(ctx)
}

func (e *Element) FontSize(ctx context.Context) (float64, error) {
	return e.FontSizeFn(ctx)
}

func (e *Element) Highlight(ctx context.Context, note string) error {
	return e.HighlightFn(ctx, note)
}

func (e *Element) Unhighlight(ctx context.Context) error {
	return e.UnhighlightFn(ctx)
}
