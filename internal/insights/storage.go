package insights

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact filenames written after each run.
const (
	ReportFilename    = "analysis_report.json"
	OtherFilename     = "other_category_products.txt"
	DashboardFilename = "dashboard.html"
)

// Storage defines the interface for writing run artifacts.
type Storage interface {
	// Save saves an artifact and returns the path/filename
	Save(filename string, data []byte) (string, error)

	// Get retrieves an artifact by path
	Get(path string) ([]byte, error)
}

// LocalStorage implements the Storage interface using local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save saves an artifact to local storage
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves an artifact from local storage
func (l *LocalStorage) Get(path string) ([]byte, error) {
	fullPath := filepath.Join(l.basePath, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
