// Package sqlite provides a SQLite-backed storage.Backend.
//
// Each collection is one row in a single table; the payload column holds
// the same {"<collection>": [...]} document the JSON file backend writes.
// Save upserts that row inside a transaction, so a collection is always
// replaced as a whole or not at all.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/zookeepr/internal/record"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Backend.
type SQLite struct {
	Db *sql.DB
}

// New opens the database at path and creates the collections table if it
// does not already exist.
func New(path string) (*SQLite, error) {
	if path == "" {
		path = "zookeepr.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name    TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Load returns the stored collection, or an empty one if it was never saved.
func (s *SQLite) Load(ctx context.Context, schema record.Schema) ([]record.Record, error) {
	var payload []byte
	err := s.Db.QueryRowContext(ctx,
		"SELECT payload FROM collections WHERE name = ? LIMIT 1",
		schema.Collection,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Load %s: scan: %w", schema.Collection, err)
	}

	records, err := record.UnmarshalCollection(schema, payload)
	if err != nil {
		return nil, fmt.Errorf("Load %s: %w", schema.Collection, err)
	}
	return records, nil
}

// Save replaces the stored collection with records.
func (s *SQLite) Save(ctx context.Context, schema record.Schema, records []record.Record) (retErr error) {
	payload, err := record.MarshalCollection(schema, records)
	if err != nil {
		return fmt.Errorf("Save %s: %w", schema.Collection, err)
	}

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Save %s: begin: %w", schema.Collection, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO collections (name, payload) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		schema.Collection, payload,
	)
	if err != nil {
		return fmt.Errorf("Save %s: upsert: %w", schema.Collection, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Save %s: commit: %w", schema.Collection, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
