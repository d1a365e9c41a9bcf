package pageproof

import "context"

// Correction is one corrected entry returned by the correction service.
// Idx names the batch item the correction applies to and Content carries
// the corrected text.
type Correction struct {
	Idx     int    `json:"idx"`
	Content string `json:"content"`
}

// Corrector reviews batches of page text for spelling and grammar problems.
type Corrector interface {
	// Correct submits one batch for review and returns corrections for
	// the items the service changed. Unchanged items are omitted from the
	// result. Returns ECORRECTION if the service cannot be reached or
	// replies with something other than the expected JSON array.
	Correct(ctx context.Context, batch *Batch) ([]Correction, error)
}

// CorrectionRecord joins a correction back to the item it was collected
// from. The marked fields carry the word-level diff rendering, with the
// words that differ wrapped in ** on both sides.
type CorrectionRecord struct {
	Index           int     `json:"idx"`
	Original        string  `json:"original"`
	Corrected       string  `json:"corrected"`
	OriginalMarked  string  `json:"originalMarked"`
	CorrectedMarked string  `json:"correctedMarked"`
	Element         Element `json:"-"` // live handle, nil once the page closes
}
