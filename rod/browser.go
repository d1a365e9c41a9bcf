// Package rod implements browser automation using the go-rod library.
package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/pageproof/pageproof"
	"github.com/ysmood/gson"
)

// DefaultUserAgent is sent with every request so pages serve the desktop
// layout a reviewer would see.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// domSettle is how long the DOM must stay unchanged after load before a
// page counts as settled.
const domSettle = 300 * time.Millisecond

// Ensure Browser implements pageproof.Browser at compile time.
var _ pageproof.Browser = (*Browser)(nil)

// Browser opens review pages on a managed Chrome instance.
// Browser is safe for concurrent use by multiple goroutines.
type Browser struct {
	manager   *BrowserManager
	stealth   bool
	userAgent string
	headers   map[string]string
}

// Option configures a Browser.
type Option func(*Browser)

// WithStealth masks automation fingerprints (navigator.webdriver and
// friends) on every page before navigation. Some sites serve bot walls
// without it.
func WithStealth() Option {
	return func(b *Browser) { b.stealth = true }
}

// WithUserAgent overrides the default user agent.
func WithUserAgent(ua string) Option {
	return func(b *Browser) { b.userAgent = ua }
}

// WithExtraHeaders adds headers to every request pages make.
func WithExtraHeaders(headers map[string]string) Option {
	return func(b *Browser) { b.headers = headers }
}

// NewBrowser returns a Browser that opens pages on the managed Chrome
// instance. The manager owns the browser process; closing the Browser
// closes the manager.
func NewBrowser(manager *BrowserManager, opts ...Option) *Browser {
	b := &Browser{
		manager:   manager,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewPage opens a fresh page with the configured user agent and headers
// applied. Stealth and header setup happen before any navigation so they
// take effect for the first document the page loads.
func (b *Browser) NewPage(ctx context.Context) (pageproof.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := b.manager.Browser().Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	b.manager.IncrementPageCount()

	if b.stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			_ = page.Close()
			return nil, err
		}
	}

	if err := (proto.NetworkSetUserAgentOverride{UserAgent: b.userAgent}).Call(page); err != nil {
		_ = page.Close()
		return nil, err
	}

	if len(b.headers) > 0 {
		if err := (proto.NetworkSetExtraHTTPHeaders{Headers: toHeaders(b.headers)}).Call(page); err != nil {
			_ = page.Close()
			return nil, err
		}
	}

	return &Page{page: page}, nil
}

// Close releases browser resources.
func (b *Browser) Close() error {
	return b.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.manager.LauncherPID()
}

// toHeaders converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeaders(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// Ensure Page implements pageproof.Page at compile time.
var _ pageproof.Page = (*Page)(nil)

// Page is a single tab on the managed browser.
type Page struct {
	page *rod.Page
}

// Navigate loads the URL, waits for the load event, and gives dynamic
// content a chance to settle. Pages that keep mutating the DOM, such as
// carousels, never converge, so a non-settling DOM is not an error.
func (p *Page) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	if err := pg.WaitLoad(); err != nil {
		return err
	}
	_ = pg.WaitDOMStable(domSettle, 0.1)
	return nil
}

// HTML returns the rendered HTML of the current document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Title returns the current document title.
func (p *Page) Title(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// Elements returns live handles to all elements matching the CSS selector,
// in document order.
func (p *Page) Elements(ctx context.Context, selector string) ([]pageproof.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]pageproof.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el})
	}
	return out, nil
}

// dismissJS clicks known consent buttons, then removes pinned elements
// whose class or id marks them as cookie, consent, or popup chrome. Generic
// fixed elements like sticky headers stay: their copy is review material.
const dismissJS = `() => {
	const clickers = ["#cookie-agree", ".ins-close-button"];
	for (const sel of clickers) {
		const el = document.querySelector(sel);
		if (el) el.click();
	}
	const patterns = [
		'[class*="cookie"]', '[id*="cookie"]',
		'[class*="consent"]', '[id*="consent"]',
		'[class*="popup"]', '[id*="popup"]',
		'[class*="gdpr"]', '[id*="gdpr"]',
	];
	for (const sel of patterns) {
		document.querySelectorAll(sel).forEach(el => {
			const style = window.getComputedStyle(el);
			if (style.position === "fixed" || style.position === "sticky" || style.position === "absolute") {
				el.remove();
			}
		});
	}
	document.documentElement.style.overflow = "";
	document.body.style.overflow = "";
}`

// DismissOverlays removes cookie banners and other consent overlays that
// sit on top of the content.
func (p *Page) DismissOverlays(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(dismissJS)
	return err
}

// Screenshot captures a full-page PNG of the current document.
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(true, nil)
}

// Close closes the page.
func (p *Page) Close() error {
	return p.page.Close()
}

// Ensure Element implements pageproof.Element at compile time.
var _ pageproof.Element = (*Element)(nil)

// Element is a live handle to a DOM element on an open page.
type Element struct {
	el *rod.Element
}

// Visible reports whether the element is rendered with a non-empty box.
// The document body always reports visible, whatever its computed style.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	visible, err := e.el.Context(ctx).Visible()
	if err != nil || visible {
		return visible, err
	}
	res, err := e.el.Context(ctx).Eval(`() => this === document.body || this === document.documentElement`)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Text returns the element's inner text as rendered.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// TagName returns the element's lowercase tag name.
func (e *Element) TagName(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// FontSize returns the computed font-size in pixels.
func (e *Element) FontSize(ctx context.Context) (float64, error) {
	res, err := e.el.Context(ctx).Eval(`() => parseFloat(window.getComputedStyle(this).fontSize)`)
	if err != nil {
		return 0, err
	}
	return res.Value.Num(), nil
}

// highlightJS draws the review marker on the element and attaches the note
// as a badge rendered through a shared ::after rule. The style tag is
// created once per document and reused by every highlighted element.
const highlightJS = `(note) => {
	this.style.border = "2px solid red";
	this.style.backgroundColor = "yellow";
	this.style.transition = "border 0.2s, background-color 0.2s";
	this.style.position = "relative";
	this.style.color = "black";
	this.classList.add("pp-highlight");
	if (!document.getElementById("pp-highlight-style")) {
		const style = document.createElement("style");
		style.id = "pp-highlight-style";
		style.textContent = ".pp-highlight::after {" +
			"content: attr(data-pp-note);" +
			"position: absolute;" +
			"right: 0;" +
			"top: 0;" +
			"background: green;" +
			"color: #fff;" +
			"font-size: 12px;" +
			"padding: 2px 6px;" +
			"border-radius: 4px;" +
			"border: 1px solid #aaa;" +
			"z-index: 9999999;" +
			"white-space: pre;" +
			"}";
		document.head.appendChild(style);
	}
	if (note) {
		this.setAttribute("data-pp-note", note);
	}
}`

// Highlight styles the element with the review marker and attaches the
// note as a badge anchored to the element's top right corner.
func (e *Element) Highlight(ctx context.Context, note string) error {
	_, err := e.el.Context(ctx).Eval(highlightJS, note)
	return err
}

const unhighlightJS = `() => {
	this.style.border = "";
	this.style.backgroundColor = "";
	this.style.color = "";
	this.classList.remove("pp-highlight");
	this.removeAttribute("data-pp-note");
}`

// Unhighlight removes the review marker styling.
func (e *Element) Unhighlight(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(unhighlightJS)
	return err
}
