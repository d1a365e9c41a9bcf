package pageproof

// PageReport holds the structured artifacts extracted from a rendered page.
type PageReport struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"metaDescription"`
	MetaKeywords    string    `json:"metaKeywords"`
	MainContent     string    `json:"mainContent"`
	WordCount       int       `json:"wordCount"`
	Headings        []Heading `json:"headings"`
	Paragraphs      []string  `json:"paragraphs"`
	Images          []Image   `json:"images"`
	Links           []Link    `json:"links"`
	Tables          []Table   `json:"tables"`
}

// Heading is one h1-h6 element.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id,omitempty"`
}

// Image is one img element with its source resolved against the page URL.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// Link is one anchor element with a usable destination. External reports
// whether the destination host differs from the page's host.
type Link struct {
	Href     string `json:"href"`
	Text     string `json:"text"`
	External bool   `json:"external"`
	Rel      string `json:"rel,omitempty"`
	Target   string `json:"target,omitempty"`
}

// Table is one table element as rows of cell text. Headers holds the first
// row when the table declares header cells.
type Table struct {
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows"`
}

// ReportBuilder extracts structured artifacts from rendered page HTML.
type ReportBuilder interface {
	// BuildReport parses the HTML and returns the page's artifacts.
	// pageURL is used to absolutize image and link destinations and to
	// classify links as external.
	BuildReport(html, pageURL string) (*PageReport, error)
}

// FontAnomaly flags an element whose computed font size deviates from the
// rest of its tag group.
type FontAnomaly struct {
	Index     int     `json:"idx"` // collected item index
	Tag       string  `json:"tag"`
	Text      string  `json:"text"`
	Size      float64 `json:"size"` // px
	GroupMean float64 `json:"groupMean"`
	GroupDev  float64 `json:"groupDev"`
	Larger    bool    `json:"larger"`
}
