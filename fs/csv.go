// Package fs writes run artifacts to disk.
package fs

import (
	"encoding/csv"
	"io"

	"github.com/pageproof/pageproof"
)

// utf8BOM is prepended to CSV output so spreadsheet applications decode the
// file as UTF-8 instead of guessing a legacy encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVHeader is the column header row of a corrections export.
var CSVHeader = []string{"Wrong Text", "Correct Text Suggest"}

// WriteCorrectionsCSV writes correction records as CSV: a UTF-8 BOM, the
// header row, then one row per record. Rows carry the diff-marked texts so
// the changed words stay visible in the export.
func WriteCorrectionsCSV(w io.Writer, records []*pageproof.CorrectionRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		wrong, suggest := rec.OriginalMarked, rec.CorrectedMarked
		if wrong == "" && suggest == "" {
			wrong, suggest = rec.Original, rec.Corrected
		}
		if err := cw.Write([]string{wrong, suggest}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
