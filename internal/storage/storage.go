// Package storage provides the on-disk document store for pace.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jacksmith/pace/internal/model"
)

// dataFile is the name of the persisted document within the data directory.
const dataFile = "data.json"

// Store owns the backing file for one document. There is exactly one
// in-memory owner per process; callers load, mutate, and save the whole
// document for every operation.
type Store struct {
	dir string
}

// DefaultDir returns the per-user data directory for pace.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, "pace"), nil
}

// Open returns a Store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// DataPath returns the path of the backing document file.
func (s *Store) DataPath() string {
	return filepath.Join(s.dir, dataFile)
}

// Load reads the document from disk. A missing file yields a fresh empty
// document. A corrupt file is treated the same way, with a note on stderr;
// the broken content is left in place until the next save.
func (s *Store) Load() (*model.Document, error) {
	path := s.DataPath()
	doc, err := model.ReadDocument(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewDocument(), nil
		}
		fmt.Fprintf(os.Stderr, "warning: %v; starting with an empty document\n", err)
		return model.NewDocument(), nil
	}
	return doc, nil
}

// Save writes the document back. I/O errors propagate; the caller must
// treat a failed save as a lost mutation.
func (s *Store) Save(doc *model.Document) error {
	return model.WriteDocument(s.DataPath(), doc)
}
