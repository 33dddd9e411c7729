package receipts

import (
	"encoding/json"
	"fmt"
	"os"
)

// Source defines the interface for retrieving the receipt collection.
// Fetching receipts from a remote account lives behind this boundary.
type Source interface {
	// Receipts returns every receipt available for analysis.
	Receipts() ([]Receipt, error)
}

// FileSource reads receipts from an export JSON file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given export file.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Receipts loads and decodes the export file. A missing or malformed file is
// an error; malformed amounts inside individual line items are not.
func (f *FileSource) Receipts() ([]Receipt, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading receipts file: %w", err)
	}

	var receipts []Receipt
	if err := json.Unmarshal(data, &receipts); err != nil {
		return nil, fmt.Errorf("decoding receipts file: %w", err)
	}

	return receipts, nil
}
