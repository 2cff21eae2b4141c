package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// ReadDocument loads and migrates a document from the given path.
// The caller decides how to treat a missing or corrupt file; this function
// reports both as errors.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	Migrate(&doc)
	return &doc, nil
}

// WriteDocument serializes the full document as pretty-printed JSON and
// replaces the file atomically, so a crash mid-write cannot leave a torn
// document behind.
func WriteDocument(path string, d *Document) error {
	data, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", path, err)
	}
	return nil
}
