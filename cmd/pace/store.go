package main

import (
	"github.com/jacksmith/pace/internal/storage"
)

// openStore opens the document store from --data-dir or the per-user
// default location.
func openStore() (*storage.Store, error) {
	dir := dataDir
	if dir == "" {
		var err error
		dir, err = storage.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return storage.Open(dir)
}
