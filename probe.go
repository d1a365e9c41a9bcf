package pageproof

import "context"

// Availability is the result of a preflight check on a URL.
type Availability struct {
	URL         string `json:"url"`
	Available   bool   `json:"available"`
	StatusCode  int    `json:"statusCode,omitempty"`
	FinalURL    string `json:"finalUrl,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Prober checks that a URL responds before a browser run is attempted.
type Prober interface {
	// Probe requests the URL and reports whether it answered with a
	// usable status. Network failures are reported through the
	// Availability result, not as errors.
	Probe(ctx context.Context, url string) (*Availability, error)
}
