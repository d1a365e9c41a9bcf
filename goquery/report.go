// Package goquery implements page artifact extraction using the goquery
// HTML library.
package goquery

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pageproof/pageproof"
)

// mainSelectors are tried in order to locate the page's main content.
var mainSelectors = []string{
	"main", "article", `[role="main"]`, ".content", ".post-content",
	".entry-content", ".post-body", ".article-content", ".page-content",
	"#content", "#main-content", ".main-content",
}

// chromeSelector matches elements stripped before content extraction and
// word counting. Images, links, and tables are still drawn from the full
// document: header and footer copy is review material.
const chromeSelector = "script, style, nav, footer, header, aside, noscript"

const (
	// minParagraphChars filters boilerplate fragments out of the
	// paragraph list.
	minParagraphChars = 20
	// maxParagraphs caps the paragraph list.
	maxParagraphs = 10
	// maxLinkTextChars caps link text before truncation with "...".
	maxLinkTextChars = 100
)

// Ensure ReportBuilder implements pageproof.ReportBuilder at compile time.
var _ pageproof.ReportBuilder = (*ReportBuilder)(nil)

// ReportBuilder extracts structured artifacts from rendered page HTML.
type ReportBuilder struct {
	extractor pageproof.Extractor
}

// NewReportBuilder creates a new ReportBuilder. The extractor, when not
// nil, locates main content on pages without a content landmark.
func NewReportBuilder(extractor pageproof.Extractor) *ReportBuilder {
	return &ReportBuilder{extractor: extractor}
}

// BuildReport parses the HTML and returns the page's artifacts.
func (rb *ReportBuilder) BuildReport(html, pageURL string) (*pageproof.PageReport, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, pageproof.Errorf(pageproof.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pageproof.Errorf(pageproof.EINVALID, "failed to parse HTML: %v", err)
	}

	// Second parse for the chrome-stripped view. Removal is destructive,
	// and artifacts like links still need the full tree.
	content, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pageproof.Errorf(pageproof.EINVALID, "failed to parse HTML: %v", err)
	}
	content.Find(chromeSelector).Remove()

	main := rb.mainContent(content, html)

	return &pageproof.PageReport{
		URL:             pageURL,
		Title:           title(doc),
		MetaDescription: metaDescription(doc),
		MetaKeywords:    metaKeywords(doc),
		MainContent:     main,
		WordCount:       len(strings.Fields(main)),
		Headings:        headings(content),
		Paragraphs:      paragraphs(content),
		Images:          images(doc, base),
		Links:           links(doc, base),
		Tables:          tables(doc),
	}, nil
}

// title returns the title tag's text, falling back to the first h1.
func title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// metaDescription returns the meta description, falling back to the Open
// Graph description.
func metaDescription(doc *goquery.Document) string {
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(desc) != "" {
		return strings.TrimSpace(desc)
	}
	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(desc)
	}
	return ""
}

func metaKeywords(doc *goquery.Document) string {
	if kw, ok := doc.Find(`meta[name="keywords"]`).Attr("content"); ok {
		return strings.TrimSpace(kw)
	}
	return ""
}

// mainContent locates the page's main text. Priority selectors win; pages
// without a content landmark go through the extractor; the stripped body
// is the last resort.
func (rb *ReportBuilder) mainContent(content *goquery.Document, html string) string {
	for _, selector := range mainSelectors {
		if sel := content.Find(selector).First(); sel.Length() > 0 {
			return normalizeSpace(sel.Text())
		}
	}

	if rb.extractor != nil {
		if res, err := rb.extractor.Extract(html); err == nil && res.ContentHTML != "" {
			if extracted, err := goquery.NewDocumentFromReader(strings.NewReader(res.ContentHTML)); err == nil {
				return normalizeSpace(extracted.Text())
			}
		}
	}

	body := content.Find("body")
	body.Find("form, button").Remove()
	return normalizeSpace(body.Text())
}

// headings returns non-empty h1..h6 headings grouped by level.
func headings(content *goquery.Document) []pageproof.Heading {
	var out []pageproof.Heading
	for level := 1; level <= 6; level++ {
		content.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return
			}
			id, _ := sel.Attr("id")
			out = append(out, pageproof.Heading{Level: level, Text: text, ID: id})
		})
	}
	return out
}

// paragraphs returns up to maxParagraphs paragraphs long enough to be copy.
func paragraphs(content *goquery.Document) []string {
	var out []string
	content.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if text := strings.TrimSpace(sel.Text()); len(text) > minParagraphChars {
			out = append(out, text)
		}
		return len(out) < maxParagraphs
	})
	return out
}

// images returns all images with their sources resolved against the page URL.
func images(doc *goquery.Document, base *url.URL) []pageproof.Image {
	var out []pageproof.Image
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		out = append(out, pageproof.Image{
			Src:    absolutize(base, src),
			Alt:    sel.AttrOr("alt", ""),
			Title:  sel.AttrOr("title", ""),
			Width:  sel.AttrOr("width", ""),
			Height: sel.AttrOr("height", ""),
		})
	})
	return out
}

// links returns anchors with usable destinations. Anchor-only links and
// links without text are skipped.
func links(doc *goquery.Document, base *url.URL) []pageproof.Link {
	var out []pageproof.Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if runes := []rune(text); len(runes) > maxLinkTextChars {
			text = string(runes[:maxLinkTextChars]) + "..."
		}

		resolved := absolutize(base, href)
		out = append(out, pageproof.Link{
			Href:     resolved,
			Text:     text,
			External: isExternal(base, resolved),
			Rel:      sel.AttrOr("rel", ""),
			Target:   sel.AttrOr("target", ""),
		})
	})
	return out
}

// tables returns each table as rows of cell text. The first row becomes the
// header when the table declares th cells.
func tables(doc *goquery.Document) []pageproof.Table {
	var out []pageproof.Table
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				row = append(row, strings.TrimSpace(cell.Text()))
			})
			if len(row) > 0 {
				rows = append(rows, row)
			}
		})
		if len(rows) == 0 {
			return
		}

		t := pageproof.Table{Rows: rows}
		if table.Find("th").Length() > 0 {
			t.Headers = rows[0]
			t.Rows = rows[1:]
		}
		out = append(out, t)
	})
	return out
}

// absolutize resolves a possibly relative reference against the page URL.
func absolutize(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// isExternal reports whether the resolved URL's host differs from the
// page's host.
func isExternal(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host != base.Host
}

// normalizeSpace collapses all whitespace runs to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
