package repositories

import (
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

// Open opens the Badger store at path. An empty path opens an in-memory
// store, which is what the tests use.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store %q: %w", path, err)
	}
	return db, nil
}

// Clear drops every post, comment and sequence.
func Clear(db *badger.DB) error {
	return db.DropAll()
}

// Backup writes a full backup of db to w.
func Backup(db *badger.DB, w io.Writer) error {
	if _, err := db.Backup(w, 0); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	return nil
}

// Restore loads a backup produced by Backup into db.
func Restore(db *badger.DB, r io.Reader) error {
	if err := db.Load(r, 256); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return nil
}
