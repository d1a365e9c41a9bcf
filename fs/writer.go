package fs

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pageproof/pageproof"
)

// WriteFileAtomic writes data to path by writing a temporary file next to it
// and renaming the file into place, so a crash mid-write never leaves a
// truncated artifact behind. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ExportCorrectionsCSV writes a corrections CSV to path.
func ExportCorrectionsCSV(path string, records []*pageproof.CorrectionRecord) error {
	var buf bytes.Buffer
	if err := WriteCorrectionsCSV(&buf, records); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// WriteScreenshot writes a full page screenshot PNG to path.
func WriteScreenshot(path string, png []byte) error {
	if len(png) == 0 {
		return pageproof.Errorf(pageproof.EINVALID, "screenshot is empty")
	}
	return WriteFileAtomic(path, png)
}
