// Package jsonfile persists each collection as a pretty-printed JSON file:
//
//	<dir>/animals.json     {"animals": [ ... ]}
//	<dir>/zookeepers.json  {"zookeepers": [ ... ]}
//
// Every Save rewrites the whole file. The new content goes to a temporary
// file in the same directory, is synced, and is then renamed over the old
// file, so readers only ever see the previous or the next complete version.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/zookeepr/internal/record"
)

// Store is a storage.Backend writing one file per collection under dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile.New: create dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file backing the given collection.
func (s *Store) Path(schema record.Schema) string {
	return filepath.Join(s.dir, schema.Collection+".json")
}

// Load reads the collection file. A missing file is an empty collection;
// a malformed one is an error.
func (s *Store) Load(ctx context.Context, schema record.Schema) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(schema))
	if errors.Is(err, fs.ErrNotExist) {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: read: %w", err)
	}

	records, err := record.UnmarshalCollection(schema, data)
	if err != nil {
		return nil, fmt.Errorf("jsonfile.Load: %s: %w", s.Path(schema), err)
	}
	return records, nil
}

// Save replaces the collection file with records.
func (s *Store) Save(ctx context.Context, schema record.Schema, records []record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := record.MarshalCollection(schema, records)
	if err != nil {
		return fmt.Errorf("jsonfile.Save: %w", err)
	}

	return writeAtomic(s.Path(schema), data)
}

// Close is a no-op; files are closed after every write.
func (s *Store) Close() error { return nil }

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("jsonfile.Save: create temp: %w", err)
	}
	// Removing after a successful rename fails harmlessly.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile.Save: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile.Save: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile.Save: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("jsonfile.Save: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("jsonfile.Save: rename: %w", err)
	}
	return nil
}
