// Package storage defines the Storage interface the HTTP layer talks to and
// Collection, its single implementation.
//
// A Collection owns one entity type's records in memory and mirrors every
// change to a Backend. Handlers never touch the slice directly; they go
// through Filter, FindByID and Create.
//
// Durable persistence is pluggable:
//
//   - jsonfile — one pretty-printed JSON file per collection (default)
//   - sqlite   — one SQLite database, one row per collection
package storage

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aanand-mishra/zookeepr/internal/metrics"
	"github.com/aanand-mishra/zookeepr/internal/record"
)

// Storage is the contract the HTTP handlers depend on.
type Storage interface {
	// Schema describes the entity type held by this store.
	Schema() record.Schema

	// Filter returns the records matching criteria, in insertion order.
	Filter(criteria record.Criteria) []record.Record

	// FindByID returns the record with the given id, if any.
	FindByID(id string) (record.Record, bool)

	// Create assigns the next id to candidate, persists the whole
	// collection and returns the stored record. The caller validates.
	Create(ctx context.Context, candidate record.Record) (record.Record, error)
}

// Backend is the durable mirror of one or more collections. Save always
// receives the complete collection and replaces whatever was stored before.
type Backend interface {
	Load(ctx context.Context, schema record.Schema) ([]record.Record, error)
	Save(ctx context.Context, schema record.Schema, records []record.Record) error
	Close() error
}

// Collection is the concrete, concurrency-safe implementation of Storage.
type Collection struct {
	schema  record.Schema
	backend Backend
	metrics *metrics.Metrics

	// mu guards records. Create holds the write lock across id assignment,
	// Save and publish so writes to one collection never interleave.
	mu      sync.RWMutex
	records []record.Record
}

// compile-time check
var _ Storage = (*Collection)(nil)

// Open loads the collection described by schema from backend.
// m may be nil.
func Open(ctx context.Context, schema record.Schema, backend Backend, m *metrics.Metrics) (*Collection, error) {
	records, err := backend.Load(ctx, schema)
	if err != nil {
		return nil, fmt.Errorf("storage.Open: load %s: %w", schema.Collection, err)
	}
	if records == nil {
		records = []record.Record{}
	}

	c := &Collection{
		schema:  schema,
		backend: backend,
		metrics: m,
		records: records,
	}
	m.SetRecords(schema.Collection, len(records))
	return c, nil
}

func (c *Collection) Schema() record.Schema { return c.schema }

// Len returns the number of records held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *Collection) Filter(criteria record.Criteria) []record.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return record.Filter(c.schema, criteria, c.records)
}

func (c *Collection) FindByID(id string) (record.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return record.FindByID(id, c.records)
}

// ─────────────────────────────────────────────────────────────────────────────
// Create appends candidate to the collection.
//
// The id is always assigned here as the current length of the collection,
// overwriting anything the caller sent. The appended sequence is handed to
// the backend first and only published in memory once Save succeeds, so a
// failed write leaves both copies exactly as they were.
// ─────────────────────────────────────────────────────────────────────────────
func (c *Collection) Create(ctx context.Context, candidate record.Record) (record.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created := candidate.Clone()
	if created == nil {
		created = record.Record{}
	}
	created[record.IDField] = strconv.Itoa(len(c.records))

	next := make([]record.Record, len(c.records), len(c.records)+1)
	copy(next, c.records)
	next = append(next, created)

	err := c.backend.Save(ctx, c.schema, next)
	c.metrics.ObserveWrite(c.schema.Collection, err)
	if err != nil {
		return nil, fmt.Errorf("Create %s: save: %w", c.schema.Name, err)
	}

	c.records = next
	c.metrics.SetRecords(c.schema.Collection, len(next))
	return created.Clone(), nil
}
