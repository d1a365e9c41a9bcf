package pageproof

// TextItem is one visible text snippet collected from a page. Index is
// assigned in collection order, starting at zero, and identifies the item
// across the correction round trip. Nested elements that repeat the same
// text are collected as separate items.
type TextItem struct {
	Index   int
	Text    string
	Element Element // live handle, valid while the page stays open
}

// CollectStats summarizes one collection pass over a page.
type CollectStats struct {
	Matched   int // elements matched by the selector list
	Collected int // visible elements with non-empty text
	Skipped   int // hidden elements or empty texts passed over
	Errors    int // per-element read failures
}
